package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// ShipmentReservationTTL bounds how long a crashed shipment creation blocks a retry
const ShipmentReservationTTL = 2 * time.Minute

// Default parcel, used when the admin does not supply one
const (
	DefaultWeightKg  = 0.5
	DefaultLengthCm  = 10
	DefaultBreadthCm = 10
	DefaultHeightCm  = 10
)

// ShippingProvider is the shipping aggregator
type ShippingProvider interface {
	CheckServiceability(ctx context.Context, pickupPincode, deliveryPincode string, weight float64) (*shipping.ServiceabilityResponse, error)
	CreateOrder(ctx context.Context, req *shipping.CreateOrderRequest) (*shipping.CreateOrderResponse, error)
	AssignAWB(ctx context.Context, shipmentID, courierID string) (*shipping.AssignAWBResponse, error)
	GeneratePickup(ctx context.Context, shipmentID string) (shipping.Document, error)
	GenerateLabel(ctx context.Context, shipmentID string) (shipping.Document, error)
	GenerateInvoice(ctx context.Context, shipmentID string) (shipping.Document, error)
	TrackAWB(ctx context.Context, awb string) (shipping.Tracking, error)
}

// Parcel is the package size sent to the aggregator. Zero values fall back to the defaults.
type Parcel struct {
	Weight  float64 `json:"weight"`
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
}

func (p Parcel) withDefaults() Parcel {
	if p.Weight <= 0 {
		p.Weight = DefaultWeightKg
	}
	if p.Length <= 0 {
		p.Length = DefaultLengthCm
	}
	if p.Breadth <= 0 {
		p.Breadth = DefaultBreadthCm
	}
	if p.Height <= 0 {
		p.Height = DefaultHeightCm
	}
	return p
}

// ShipmentSummary is the shipment as created by the aggregator
type ShipmentSummary struct {
	ShipmentID  string `json:"shipmentId"`
	OrderID     string `json:"orderId"`
	AWBCode     string `json:"awbCode,omitempty"`
	CourierName string `json:"courierName,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ShipmentDetails is the stored shipment plus live tracking
type ShipmentDetails struct {
	Shipment struct {
		ShipmentID          string     `json:"shipmentId"`
		OrderID             string     `json:"orderId"`
		AWBCode             string     `json:"awbCode"`
		CourierName         string     `json:"courierName"`
		ShippingStatus      string     `json:"shippingStatus"`
		TrackingURL         string     `json:"trackingUrl"`
		PickupScheduledDate *time.Time `json:"pickupScheduledDate"`
	} `json:"shipment"`
	Tracking shipping.Tracking `json:"tracking"`
}

// AWBAssignment is a newly assigned waybill
type AWBAssignment struct {
	AWBCode     string `json:"awbCode"`
	CourierName string `json:"courierName"`
}

// ShipmentService drives shipments through the aggregator and mirrors them on the order
type ShipmentService struct {
	db             *gorm.DB
	provider       ShippingProvider
	pickup         models.PickupAddress
	pickupLocation string
	notifier       Notifier
	now            func() time.Time
}

// NewShipmentService creates a ShipmentService
func NewShipmentService(db *gorm.DB, provider ShippingProvider, pickup models.PickupAddress, pickupLocation string, notifier Notifier) *ShipmentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if pickupLocation == "" {
		pickupLocation = pickup.Pincode
	}
	return &ShipmentService{
		db:             db,
		provider:       provider,
		pickup:         pickup,
		pickupLocation: pickupLocation,
		notifier:       notifier,
		now:            time.Now,
	}
}

// CreateShipment creates the aggregator shipment for a paid or confirmed order.
// A reservation on the order row guarantees at most one creation reaches the aggregator.
func (s *ShipmentService) CreateShipment(ctx context.Context, orderID uint, parcel Parcel) (*ShipmentSummary, error) {
	order, err := loadOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order.HasShipment() {
		return nil, ErrShipmentExists
	}
	if !order.Shippable() {
		return nil, &StatusError{Err: ErrNotShippable, Status: order.Status}
	}
	if s.pickup.Pincode == "" {
		return nil, ErrPickupNotConfigured
	}

	if err := s.reserve(ctx, order.ID); err != nil {
		return nil, err
	}

	req, err := s.buildOrderRequest(ctx, order, parcel.withDefaults())
	if err != nil {
		s.release(ctx, order.ID)
		return nil, err
	}

	utils.LogInfo("Creating shipment for order %d", order.ID)
	resp, err := s.provider.CreateOrder(ctx, req)
	if err != nil {
		s.release(ctx, order.ID)
		return nil, vendorError("create shipment", err)
	}

	awb := resp.AWBCode.String()
	shippingStatus := resp.StatusCode.String()
	if shippingStatus == "" {
		shippingStatus = "pending"
	}

	fields := map[string]interface{}{
		"shiprocket_shipment_id": resp.ShipmentID.String(),
		"shiprocket_order_id":    resp.OrderID.String(),
		"shipping_status":        shippingStatus,
		"shipment_reserved_at":   nil,
		"pickup_name":            s.pickup.Name,
		"pickup_email":           s.pickup.Email,
		"pickup_phone":           s.pickup.Phone,
		"pickup_street":          s.pickup.Street,
		"pickup_city":            s.pickup.City,
		"pickup_state":           s.pickup.State,
		"pickup_pincode":         s.pickup.Pincode,
		"pickup_country":         s.pickup.Country,
		"updated_at":             s.now(),
	}
	if resp.CourierName != "" {
		fields["courier_name"] = resp.CourierName
	}
	if awb != "" {
		fields["awb_code"] = awb
		fields["tracking_url"] = utils.TrackingURL(awb)
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(fields).Error; err != nil {
		// the aggregator shipment exists; keep the reservation so nothing creates a second one
		utils.LogError("Shipment %s created for order %d but not saved: %v", resp.ShipmentID, order.ID, err)
		return nil, err
	}
	utils.LogInfo("Shipment %s created for order %d (awb %q)", resp.ShipmentID, order.ID, awb)

	if awb != "" {
		// the status may have moved while the aggregator call was in flight
		before, _, err := applyTransition(ctx, s.db, order.ID, func(current *models.Order) (map[string]interface{}, error) {
			if current.Status == models.OrderStatusShipped {
				return nil, nil
			}
			return map[string]interface{}{
				"status":     models.OrderStatusShipped,
				"updated_at": s.now(),
			}, nil
		})
		if err != nil {
			utils.LogError("Shipment %s for order %d has awb %s but status was not updated: %v", resp.ShipmentID, order.ID, awb, err)
			return nil, err
		}
		if before.Status != models.OrderStatusShipped {
			s.notifyShipped(ctx, order.ID)
		}
	}

	return &ShipmentSummary{
		ShipmentID:  resp.ShipmentID.String(),
		OrderID:     resp.OrderID.String(),
		AWBCode:     awb,
		CourierName: resp.CourierName,
		Status:      resp.StatusCode.String(),
	}, nil
}

// reserve claims the order for shipment creation. Losing the race yields
// ErrShipmentExists, the blocking status, or ErrShipmentInProgress.
func (s *ShipmentService) reserve(ctx context.Context, orderID uint) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Where("(shiprocket_shipment_id = '' OR shiprocket_shipment_id IS NULL)").
		Where("status IN ?", []string{models.OrderStatusPaid, models.OrderStatusConfirmed}).
		Where("(shipment_reserved_at IS NULL OR shipment_reserved_at < ?)", now.Add(-ShipmentReservationTTL)).
		Update("shipment_reserved_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	order, err := loadOrder(ctx, s.db, orderID)
	if err != nil {
		return err
	}
	switch {
	case order.HasShipment():
		return ErrShipmentExists
	case !order.Shippable():
		return &StatusError{Err: ErrNotShippable, Status: order.Status}
	default:
		return ErrShipmentInProgress
	}
}

func (s *ShipmentService) release(ctx context.Context, orderID uint) {
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND (shiprocket_shipment_id = '' OR shiprocket_shipment_id IS NULL)", orderID).
		Update("shipment_reserved_at", nil).Error
	if err != nil {
		utils.LogError("Failed to release shipment reservation for order %d: %v", orderID, err)
	}
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *ShipmentService) buildOrderRequest(ctx context.Context, order *models.Order, parcel Parcel) (*shipping.CreateOrderRequest, error) {
	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	skus := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := s.db.WithContext(ctx).Select("id", "sku").Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
		for _, p := range products {
			skus[p.ID] = p.SKU
		}
	}

	items := make([]shipping.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		sku := skus[item.ProductID]
		if sku == "" {
			sku = fmt.Sprintf("SKU-%d", item.ProductID)
		}
		items = append(items, shipping.OrderItem{
			Name:         item.Title,
			SKU:          sku,
			Units:        item.Qty,
			SellingPrice: utils.PaisaToRupees(item.Price),
		})
	}

	paymentMethod := "COD"
	if order.Status == models.OrderStatusPaid {
		paymentMethod = "Prepaid"
	}

	first, last := splitName(order.Customer.Name)
	addr := order.Customer.Address
	return &shipping.CreateOrderRequest{
		OrderID:              fmt.Sprintf("%d", order.ID),
		OrderDate:            order.CreatedAt.Format("2006-01-02"),
		PickupLocation:       s.pickupLocation,
		BillingCustomerName:  first,
		BillingLastName:      last,
		BillingAddress:       addr.Street,
		BillingCity:          addr.City,
		BillingPincode:       addr.ZipCode,
		BillingState:         addr.State,
		BillingCountry:       addr.Country,
		BillingEmail:         order.Customer.Email,
		BillingPhone:         order.Customer.Phone,
		ShippingIsBilling:    true,
		ShippingCustomerName: first,
		ShippingLastName:     last,
		ShippingAddress:      addr.Street,
		ShippingCity:         addr.City,
		ShippingPincode:      addr.ZipCode,
		ShippingState:        addr.State,
		ShippingCountry:      addr.Country,
		ShippingEmail:        order.Customer.Email,
		ShippingPhone:        order.Customer.Phone,
		OrderItems:           items,
		PaymentMethod:        paymentMethod,
		SubTotal:             utils.PaisaToRupees(order.Amount),
		Length:               parcel.Length,
		Breadth:              parcel.Breadth,
		Height:               parcel.Height,
		Weight:               parcel.Weight,
	}, nil
}

// GetShipment returns the stored shipment. Tracking failures are logged and leave Tracking nil.
func (s *ShipmentService) GetShipment(ctx context.Context, orderID uint) (*ShipmentDetails, error) {
	order, err := s.orderWithShipment(ctx, orderID)
	if err != nil {
		return nil, err
	}

	details := &ShipmentDetails{}
	details.Shipment.ShipmentID = order.ShiprocketShipmentID
	details.Shipment.OrderID = order.ShiprocketOrderID
	details.Shipment.AWBCode = order.AWBCode
	details.Shipment.CourierName = order.CourierName
	details.Shipment.ShippingStatus = order.ShippingStatus
	details.Shipment.TrackingURL = order.TrackingURL
	details.Shipment.PickupScheduledDate = order.PickupScheduledDate

	if order.AWBCode != "" {
		tracking, err := s.provider.TrackAWB(ctx, order.AWBCode)
		if err != nil {
			utils.LogWarn("Tracking lookup for awb %s (order %d) failed: %v", order.AWBCode, order.ID, err)
		} else {
			details.Tracking = tracking
		}
	}
	return details, nil
}

// AssignAWB assigns a waybill to the order's shipment and marks the order shipped
func (s *ShipmentService) AssignAWB(ctx context.Context, orderID uint, courierID string) (*AWBAssignment, error) {
	order, err := s.orderWithShipment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AWBCode != "" {
		return nil, ErrAWBAssigned
	}

	resp, err := s.provider.AssignAWB(ctx, order.ShiprocketShipmentID, courierID)
	if err != nil {
		return nil, vendorError("assign awb", err)
	}

	assignment := &AWBAssignment{AWBCode: resp.AWBCode(), CourierName: resp.CourierName()}
	before, _, err := applyTransition(ctx, s.db, order.ID, func(*models.Order) (map[string]interface{}, error) {
		return map[string]interface{}{
			"awb_code":     assignment.AWBCode,
			"courier_name": assignment.CourierName,
			"tracking_url": utils.TrackingURL(assignment.AWBCode),
			"status":       models.OrderStatusShipped,
			"updated_at":   s.now(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("AWB %s assigned to order %d via %s", assignment.AWBCode, order.ID, assignment.CourierName)

	if before.Status != models.OrderStatusShipped {
		s.notifyShipped(ctx, order.ID)
	}
	return assignment, nil
}

// SchedulePickup asks the courier to collect the shipment and records when it was requested
func (s *ShipmentService) SchedulePickup(ctx context.Context, orderID uint) (shipping.Document, error) {
	order, err := s.orderWithShipment(ctx, orderID)
	if err != nil {
		return nil, err
	}

	doc, err := s.provider.GeneratePickup(ctx, order.ShiprocketShipmentID)
	if err != nil {
		return nil, vendorError("schedule pickup", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"pickup_scheduled_date": s.now(),
		"updated_at":            s.now(),
	}).Error
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Pickup scheduled for order %d", order.ID)
	return doc, nil
}

// Label returns the shipping label document
func (s *ShipmentService) Label(ctx context.Context, orderID uint) (shipping.Document, error) {
	order, err := s.orderWithShipment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	doc, err := s.provider.GenerateLabel(ctx, order.ShiprocketShipmentID)
	if err != nil {
		return nil, vendorError("generate label", err)
	}
	return doc, nil
}

// Invoice returns the shipment invoice document
func (s *ShipmentService) Invoice(ctx context.Context, orderID uint) (shipping.Document, error) {
	order, err := s.orderWithShipment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	doc, err := s.provider.GenerateInvoice(ctx, order.ShiprocketShipmentID)
	if err != nil {
		return nil, vendorError("generate invoice", err)
	}
	return doc, nil
}

// CheckServiceability lists couriers delivering to pincode from the pickup address
func (s *ShipmentService) CheckServiceability(ctx context.Context, pincode string, weight float64) (*shipping.ServiceabilityResponse, error) {
	if s.pickup.Pincode == "" {
		return nil, ErrPickupNotConfigured
	}
	resp, err := s.provider.CheckServiceability(ctx, s.pickup.Pincode, pincode, weight)
	if err != nil {
		return nil, vendorError("check serviceability", err)
	}
	return resp, nil
}

func (s *ShipmentService) orderWithShipment(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := loadOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if !order.HasShipment() {
		return nil, ErrNoShipment
	}
	return order, nil
}

// notifyShipped tells the customer their order is on its way
func (s *ShipmentService) notifyShipped(ctx context.Context, orderID uint) {
	order, err := loadOrder(ctx, s.db, orderID)
	if err != nil {
		utils.LogError("Failed to reload order %d for shipped notification: %v", orderID, err)
		return
	}
	s.notifier.OrderShipped(order)
}
