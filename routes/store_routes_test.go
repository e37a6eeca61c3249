package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShowsOnlyPublishedProducts(t *testing.T) {
	app := setupTestApp(t)
	divers := utils.CreateTestCollection(t, app.db, "divers")
	dress := utils.CreateTestCollection(t, app.db, "dress")
	utils.CreateTestProduct(t, app.db, divers.ID, "cheap", 100000, 1)
	utils.CreateTestProduct(t, app.db, divers.ID, "pricey", 900000, 1)
	utils.CreateTestProduct(t, app.db, dress.ID, "slim", 500000, 1)
	hidden := utils.CreateTestProduct(t, app.db, divers.ID, "hidden", 300000, 1)
	require.NoError(t, app.db.Model(hidden).Update("is_published", false).Error)

	resp := app.do(t, http.MethodGet, "/v1/products?sort_by=price&order=asc&limit=2", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := resp.Body["data"].([]interface{})
	require.Len(t, products, 2)
	assert.Equal(t, "cheap", products[0].(map[string]interface{})["slug"])
	assert.Equal(t, "slim", products[1].(map[string]interface{})["slug"])
	pagination := resp.Body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])

	resp = app.do(t, http.MethodGet, fmt.Sprintf("/v1/products?collection_id=%d&min_price=200000", divers.ID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products = resp.Body["data"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "pricey", products[0].(map[string]interface{})["slug"])

	resp = app.do(t, http.MethodGet, "/v1/products?sort_by=rating", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/v1/products/cheap", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = app.do(t, http.MethodGet, "/v1/products/hidden", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/v1/collections/divers", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, data(t, resp)["products"], 2)
	resp = app.do(t, http.MethodGet, "/v1/collections/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/v1/collections", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["data"], 2)
}

func TestCartQuote(t *testing.T) {
	app := setupTestApp(t)
	collection := utils.CreateTestCollection(t, app.db, "c")
	product := utils.CreateTestProduct(t, app.db, collection.ID, "p", 150000, 2)

	resp := app.do(t, http.MethodPost, "/v1/cart/quote", map[string]interface{}{
		"items": []map[string]interface{}{line(product.ID, 2), line(999, 1)},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	quote := data(t, resp)
	assert.Equal(t, float64(300000), quote["total"])
	assert.Equal(t, false, quote["available"])
	lines := quote["items"].([]interface{})
	require.Len(t, lines, 2)
	assert.Equal(t, true, lines[0].(map[string]interface{})["available"])
	assert.Equal(t, false, lines[1].(map[string]interface{})["available"])
}

func TestCheckoutValidationAndStock(t *testing.T) {
	app := setupTestApp(t)
	collection := utils.CreateTestCollection(t, app.db, "c")
	product := utils.CreateTestProduct(t, app.db, collection.ID, "p", 150000, 1)

	resp := app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotNil(t, resp.Body["details"])

	body := customerBody(line(product.ID, 1))
	body["customer"].(map[string]interface{})["email"] = "not-an-email"
	resp = app.do(t, http.MethodPost, "/v1/checkout/orders", body, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(product.ID, 2)), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for Watch p", resp.Body["error"])

	resp = app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(999, 1)), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product 999 not found", resp.Body["error"])

	resp = app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(product.ID, 1)), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := data(t, resp)
	assert.Equal(t, float64(150000), result["amount"])
	assert.Equal(t, "INR", result["currency"])
	assert.Equal(t, "rzp_test_key", result["key"])
	assert.NotEmpty(t, result["razorpayOrderId"])
}

func TestCheckoutVerifyAndCustomerLookup(t *testing.T) {
	app := setupTestApp(t)
	collection := utils.CreateTestCollection(t, app.db, "c")
	product := utils.CreateTestProduct(t, app.db, collection.ID, "p", 150000, 3)

	resp := app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(product.ID, 1)), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := data(t, resp)
	orderID := uint(result["orderId"].(float64))
	gatewayOrderID := result["razorpayOrderId"].(string)

	verify := map[string]interface{}{
		"orderId":           orderID,
		"razorpayOrderId":   gatewayOrderID,
		"razorpayPaymentId": "pay_1",
		"razorpaySignature": "deadbeef",
	}
	resp = app.do(t, http.MethodPost, "/v1/checkout/verify", verify, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid payment signature", resp.Body["error"])

	verify["razorpaySignature"] = payment.Sign(testKeySecret, []byte(gatewayOrderID+"|pay_1"))
	resp = app.do(t, http.MethodPost, "/v1/checkout/verify", verify, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, "paid", data(t, resp)["status"])

	resp = app.do(t, http.MethodGet, fmt.Sprintf("/v1/orders/%d?email=ASHA@example.com", orderID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", data(t, resp)["status"])

	resp = app.do(t, http.MethodGet, fmt.Sprintf("/v1/orders/%d?email=someone@example.com", orderID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// orders are never listed by email alone
	resp = app.do(t, http.MethodGet, "/v1/orders?email=asha@example.com", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, string(resp.Raw), "asha@example.com")
}

func TestRazorpayWebhook(t *testing.T) {
	app := setupTestApp(t)
	collection := utils.CreateTestCollection(t, app.db, "c")
	product := utils.CreateTestProduct(t, app.db, collection.ID, "p", 150000, 3)

	resp := app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(product.ID, 2)), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := data(t, resp)
	orderID := uint(result["orderId"].(float64))

	body := []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","order_id":%q}}}}`,
		result["razorpayOrderId"]))
	post := func(headers map[string]string) utils.TestResponse {
		return utils.MakeTestRequest(t, app.router, utils.TestRequest{
			Method:  http.MethodPost,
			Path:    "/v1/webhooks/razorpay",
			RawBody: body,
			Headers: headers,
		})
	}

	resp = post(nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(map[string]string{"X-Razorpay-Signature": payment.Sign("wrong", body)})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	signed := map[string]string{"X-Razorpay-Signature": payment.Sign(testWebhookSecret, body)}
	for i := 0; i < 2; i++ {
		resp = post(signed)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, resp.Body["received"])
	}

	order := loadOrder(t, app.db, orderID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_9", order.RazorpayPaymentID)
	var stocked models.Product
	require.NoError(t, app.db.First(&stocked, product.ID).Error)
	assert.Equal(t, 1, stocked.Stock)
}

func TestShiprocketWebhook(t *testing.T) {
	app := setupTestApp(t)
	collection := utils.CreateTestCollection(t, app.db, "c")
	product := utils.CreateTestProduct(t, app.db, collection.ID, "p", 150000, 3)
	auth := app.admin(t)

	resp := app.do(t, http.MethodPost, "/v1/checkout/orders", customerBody(line(product.ID, 1)), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := uint(data(t, resp)["orderId"].(float64))
	setStatus(t, app.db, orderID, models.OrderStatusPaid)
	resp = app.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/orders/%d/shipment", orderID), nil, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token := map[string]string{"x-api-key": testHookToken}

	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{"shipment_id": 701}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{"shipment_id": 701}, map[string]string{"x-api-key": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{"status_code": "DL"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{"shipment_id": 9999}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{
		"shipment_id":  701,
		"awb_code":     "AWB42",
		"courier_name": "Bluedart",
		"status_code":  "OT",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	order := loadOrder(t, app.db, orderID)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Equal(t, "Bluedart", order.CourierName)

	resp = app.do(t, http.MethodPost, "/v1/webhooks/shiprocket", map[string]interface{}{
		"shipment":        map[string]interface{}{"id": "701"},
		"shipment_status": "RTO Delivered",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", resp.Body["status"])
	assert.Equal(t, models.OrderStatusCancelled, loadOrder(t, app.db, orderID).Status)
}

func TestServiceabilityAndOps(t *testing.T) {
	app := setupTestApp(t)

	resp := app.do(t, http.MethodGet, "/v1/shipping/serviceability", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = app.do(t, http.MethodGet, "/v1/shipping/serviceability?pincode=560001&weight=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/v1/shipping/serviceability?pincode=560001", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Body["serviceable"])
	assert.Len(t, resp.Body["couriers"], 1)

	resp = app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = app.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
