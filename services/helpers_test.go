package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func testCustomer() models.Customer {
	return models.Customer{
		Name:  "Asha Rani Verma",
		Email: "asha@example.com",
		Phone: "9876543210",
		Address: models.Address{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			ZipCode: "560001",
			Country: "India",
		},
	}
}

// seedOrder stores an order in the given status with one line per product
func seedOrder(t *testing.T, db *gorm.DB, status string, lines map[*models.Product]int) *models.Order {
	t.Helper()

	order := &models.Order{
		RazorpayOrderID: fmt.Sprintf("order_%d", time.Now().UnixNano()),
		Currency:        utils.DefaultCurrency,
		Customer:        testCustomer(),
		Status:          status,
	}
	for product, qty := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Qty:       qty,
		})
		order.Amount += product.Price * int64(qty)
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) *models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, id).Error)
	return &order
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Stock
}

type fakeGateway struct {
	mu       sync.Mutex
	fail     error
	receipts []string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*payment.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	g.receipts = append(g.receipts, receipt)
	return &payment.GatewayOrder{
		ID:       fmt.Sprintf("order_rzp_%d", len(g.receipts)),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type recordingNotifier struct {
	mu      sync.Mutex
	paid    []uint
	shipped []uint
}

func (n *recordingNotifier) OrderPaid(order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paid = append(n.paid, order.ID)
}

func (n *recordingNotifier) OrderShipped(order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shipped = append(n.shipped, order.ID)
}

type memoryEvents struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memoryEvents) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *memoryEvents) Forget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, id)
	return nil
}

type fakeProvider struct {
	mu           sync.Mutex
	createCalls  int
	createReqs   []*shipping.CreateOrderRequest
	createResp   *shipping.CreateOrderResponse
	createErr    error
	createGate   chan struct{} // when set, CreateOrder blocks until it is closed
	createEnter  chan struct{}
	awbResp      *shipping.AssignAWBResponse
	awbErr       error
	trackErr     error
	pickupCalls  int
	serviceables []string
}

func (p *fakeProvider) CheckServiceability(ctx context.Context, pickup, delivery string, weight float64) (*shipping.ServiceabilityResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.serviceables = append(p.serviceables, fmt.Sprintf("%s>%s@%g", pickup, delivery, weight))
	resp := &shipping.ServiceabilityResponse{Status: 200}
	resp.Data.AvailableCourierCompanies = []shipping.Courier{{CourierCompanyID: "10", CourierName: "Delhivery", Rate: 85}}
	return resp, nil
}

func (p *fakeProvider) CreateOrder(ctx context.Context, req *shipping.CreateOrderRequest) (*shipping.CreateOrderResponse, error) {
	p.mu.Lock()
	p.createCalls++
	p.createReqs = append(p.createReqs, req)
	gate, enter := p.createGate, p.createEnter
	resp, err := p.createResp, p.createErr
	p.mu.Unlock()

	if enter != nil {
		enter <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &shipping.CreateOrderResponse{ShipmentID: "777", OrderID: "555", StatusCode: "1"}
	}
	return resp, nil
}

func (p *fakeProvider) AssignAWB(ctx context.Context, shipmentID, courierID string) (*shipping.AssignAWBResponse, error) {
	if p.awbErr != nil {
		return nil, p.awbErr
	}
	if p.awbResp != nil {
		return p.awbResp, nil
	}
	resp := &shipping.AssignAWBResponse{AWBAssignStatus: 1}
	resp.Response.Data.AWBCode = "AWB123"
	resp.Response.Data.CourierName = "Delhivery"
	return resp, nil
}

func (p *fakeProvider) GeneratePickup(ctx context.Context, shipmentID string) (shipping.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pickupCalls++
	return shipping.Document{"pickup_status": 1}, nil
}

func (p *fakeProvider) GenerateLabel(ctx context.Context, shipmentID string) (shipping.Document, error) {
	return shipping.Document{"label_url": "https://cdn.example.com/label-" + shipmentID + ".pdf"}, nil
}

func (p *fakeProvider) GenerateInvoice(ctx context.Context, shipmentID string) (shipping.Document, error) {
	return shipping.Document{"invoice_url": "https://cdn.example.com/invoice-" + shipmentID + ".pdf"}, nil
}

func (p *fakeProvider) TrackAWB(ctx context.Context, awb string) (shipping.Tracking, error) {
	if p.trackErr != nil {
		return nil, p.trackErr
	}
	return shipping.Tracking{"tracking_data": map[string]interface{}{"shipment_status": 6}}, nil
}

var errVendorDown = errors.New("vendor down")

func testPickup() models.PickupAddress {
	return models.PickupAddress{
		Name:    "Watch Me Warehouse",
		Email:   "ops@example.com",
		Phone:   "9999999999",
		Street:  "1 Industrial Area",
		City:    "New Delhi",
		State:   "Delhi",
		Pincode: "110001",
		Country: "India",
	}
}

func uintString(v uint) string {
	return fmt.Sprintf("%d", v)
}
