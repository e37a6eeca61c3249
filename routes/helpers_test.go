package routes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/controllers"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testKeySecret     = "key_secret"
	testWebhookSecret = "webhook_secret"
	testHookToken     = "hook-token"
)

type stubGateway struct {
	mu    sync.Mutex
	count int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*payment.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	return &payment.GatewayOrder{ID: fmt.Sprintf("order_rzp_%d", g.count), Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (g *stubGateway) KeyID() string { return "rzp_test_key" }

type stubProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *stubProvider) CheckServiceability(ctx context.Context, pickup, delivery string, weight float64) (*shipping.ServiceabilityResponse, error) {
	resp := &shipping.ServiceabilityResponse{Status: 200}
	resp.Data.AvailableCourierCompanies = []shipping.Courier{{CourierCompanyID: "10", CourierName: "Delhivery", Rate: 85}}
	return resp, nil
}

func (p *stubProvider) CreateOrder(ctx context.Context, req *shipping.CreateOrderRequest) (*shipping.CreateOrderResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return &shipping.CreateOrderResponse{
		ShipmentID: shipping.FlexString(fmt.Sprintf("%d", 700+p.calls)),
		OrderID:    "555",
		StatusCode: "1",
	}, nil
}

func (p *stubProvider) AssignAWB(ctx context.Context, shipmentID, courierID string) (*shipping.AssignAWBResponse, error) {
	resp := &shipping.AssignAWBResponse{AWBAssignStatus: 1}
	resp.Response.Data.AWBCode = shipping.FlexString("AWB" + shipmentID)
	resp.Response.Data.CourierName = "Delhivery"
	return resp, nil
}

func (p *stubProvider) GeneratePickup(ctx context.Context, shipmentID string) (shipping.Document, error) {
	return shipping.Document{"pickup_status": 1}, nil
}

func (p *stubProvider) GenerateLabel(ctx context.Context, shipmentID string) (shipping.Document, error) {
	return shipping.Document{"label_url": "https://cdn.example.com/label.pdf"}, nil
}

func (p *stubProvider) GenerateInvoice(ctx context.Context, shipmentID string) (shipping.Document, error) {
	return shipping.Document{"invoice_url": "https://cdn.example.com/invoice.pdf"}, nil
}

func (p *stubProvider) TrackAWB(ctx context.Context, awb string) (shipping.Tracking, error) {
	return shipping.Tracking{"tracking_data": map[string]interface{}{"shipment_status": 6}}, nil
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })

	pickup := models.PickupAddress{
		Name:    "Watch Me Warehouse",
		Phone:   "9999999999",
		Street:  "1 Industrial Area",
		City:    "New Delhi",
		State:   "Delhi",
		Pincode: "110001",
		Country: "India",
	}
	checkout := services.NewCheckoutService(db, &stubGateway{})
	payments := services.NewPaymentService(db, testKeySecret, testWebhookSecret, nil, nil)
	shipments := services.NewShipmentService(db, &stubProvider{}, pickup, "", nil)
	orders := services.NewOrderService(db, nil)

	router := SetupRouter(RouterConfig{
		JWTSecret:     utils.TestJWTSecret,
		SessionSecret: "test-session-secret",
	}, Handlers{
		Auth:      controllers.NewAuthController(utils.TestJWTSecret),
		Checkout:  controllers.NewCheckoutController(checkout, payments),
		Orders:    controllers.NewOrderController(orders),
		Shipments: controllers.NewShipmentController(shipments),
		Webhooks:  controllers.NewWebhookController(payments, shipments, testHookToken),
	})
	return &testApp{router: router, db: db}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) utils.TestResponse {
	t.Helper()
	return utils.MakeTestRequest(t, a.router, utils.TestRequest{Method: method, Path: path, Body: body, Headers: headers})
}

// admin returns the bearer header of a fresh admin
func (a *testApp) admin(t *testing.T) map[string]string {
	t.Helper()
	admin := utils.CreateTestAdmin(t, a.db, fmt.Sprintf("admin%d@example.com", adminSeq()), "secret123")
	return map[string]string{"Authorization": "Bearer " + utils.GetTestAdminToken(t, admin)}
}

var (
	adminMu  sync.Mutex
	adminNum int
)

func adminSeq() int {
	adminMu.Lock()
	defer adminMu.Unlock()
	adminNum++
	return adminNum
}

func customerBody(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"items": items,
		"customer": map[string]interface{}{
			"name":  "Asha Verma",
			"email": "asha@example.com",
			"phone": "9876543210",
			"address": map[string]interface{}{
				"street":  "12 MG Road",
				"city":    "Bengaluru",
				"state":   "Karnataka",
				"zipCode": "560001",
				"country": "India",
			},
		},
	}
}

func line(productID uint, qty int) map[string]interface{} {
	return map[string]interface{}{"productId": productID, "qty": qty}
}

func data(t *testing.T, resp utils.TestResponse) map[string]interface{} {
	t.Helper()
	d, ok := resp.Body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", string(resp.Raw))
	return d
}

func sessionCookie(resp utils.TestResponse) string {
	for _, header := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(header, utils.SessionName+"=") {
			return strings.SplitN(header, ";", 2)[0]
		}
	}
	return ""
}

func setStatus(t *testing.T, db *gorm.DB, orderID uint, status string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error)
}

func loadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, id).Error)
	return order
}
