package services

import (
	"context"
	"errors"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// ShipmentEvent is a status push from the shipping aggregator
type ShipmentEvent struct {
	ShipmentID shipping.FlexString `json:"shipment_id"`
	Shipment   struct {
		ID shipping.FlexString `json:"id"`
	} `json:"shipment"`
	StatusCode     shipping.FlexString `json:"status_code"`
	ShipmentStatus shipping.FlexString `json:"shipment_status"`
	CurrentStatus  shipping.FlexString `json:"current_status"`
	AWBCode        shipping.FlexString `json:"awb_code"`
	AWB            shipping.FlexString `json:"awb"`
	AWBCodeAlt     shipping.FlexString `json:"awbCode"`
	CourierName    string              `json:"courier_name"`
	CourierNameAlt string              `json:"courierName"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ShipmentRef returns the aggregator shipment id
func (e *ShipmentEvent) ShipmentRef() string {
	return firstNonEmpty(e.ShipmentID.String(), e.Shipment.ID.String())
}

// Status returns the vendor status code or label
func (e *ShipmentEvent) Status() string {
	return firstNonEmpty(e.StatusCode.String(), e.ShipmentStatus.String(), e.CurrentStatus.String())
}

// Waybill returns the waybill carried by the event, if any
func (e *ShipmentEvent) Waybill() string {
	return firstNonEmpty(e.AWBCode.String(), e.AWB.String(), e.AWBCodeAlt.String())
}

// Courier returns the courier name carried by the event, if any
func (e *ShipmentEvent) Courier() string {
	return firstNonEmpty(e.CourierName, e.CourierNameAlt)
}

// ShipmentEventResult describes the effect of a shipment event
type ShipmentEventResult struct {
	OrderID uint   `json:"orderId"`
	Effect  string `json:"effect"`
	Status  string `json:"status"`
}

// ApplyShipmentEvent mirrors an aggregator status push onto its order.
// Return to origin wins over every other rule in the same event.
func (s *ShipmentService) ApplyShipmentEvent(ctx context.Context, event *ShipmentEvent) (*ShipmentEventResult, error) {
	shipmentID := event.ShipmentRef()
	if shipmentID == "" {
		return nil, ErrMissingShipmentID
	}

	var ref models.Order
	err := s.db.WithContext(ctx).Select("id").Where("shiprocket_shipment_id = ?", shipmentID).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogWarn("Shipment webhook for unknown shipment %s", shipmentID)
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	code := event.Status()
	effect := shipping.ClassifyStatus(code)

	before, after, err := applyTransition(ctx, s.db, ref.ID, func(order *models.Order) (map[string]interface{}, error) {
		fields := map[string]interface{}{"updated_at": s.now()}
		status := ""

		if code != "" {
			fields["shipping_status"] = code
			switch effect {
			case shipping.EffectDelivered:
				status = models.OrderStatusShipped
			case shipping.EffectPickedUp:
				if order.PickupScheduledDate == nil {
					fields["pickup_scheduled_date"] = s.now()
				}
			}
		}

		if awb := event.Waybill(); awb != "" {
			fields["awb_code"] = awb
			fields["tracking_url"] = utils.TrackingURL(awb)
			if order.AWBCode == "" {
				status = models.OrderStatusShipped
			}
		}
		if courier := event.Courier(); courier != "" {
			fields["courier_name"] = courier
		}

		if effect == shipping.EffectReturnToOrigin {
			status = models.OrderStatusCancelled
		}
		if status != "" {
			fields["status"] = status
		}
		return fields, nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Shipment webhook applied: shipment=%s order=%d code=%q effect=%s status %s -> %s",
		shipmentID, before.ID, code, effect, before.Status, after)

	if after == models.OrderStatusShipped && before.Status != models.OrderStatusShipped {
		s.notifyShipped(ctx, before.ID)
	}

	return &ShipmentEventResult{OrderID: before.ID, Effect: effect.String(), Status: after}, nil
}
