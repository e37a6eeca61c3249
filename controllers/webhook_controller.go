package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// WebhookController receives gateway and shipping aggregator pushes
type WebhookController struct {
	payments       *services.PaymentService
	shipments      *services.ShipmentService
	shipmentsToken string
}

// NewWebhookController creates a WebhookController. An empty shipmentsToken accepts every
// shipping webhook, since the aggregator does not sign its deliveries.
func NewWebhookController(payments *services.PaymentService, shipments *services.ShipmentService, shipmentsToken string) *WebhookController {
	return &WebhookController{payments: payments, shipments: shipments, shipmentsToken: shipmentsToken}
}

// Razorpay handles gateway webhooks
func (h *WebhookController) Razorpay(c *gin.Context) {
	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		utils.RecordWebhook("razorpay", "missing_signature")
		utils.BadRequest(c, "Missing signature", nil)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		utils.BadRequest(c, "Failed to read body", err.Error())
		return
	}

	outcome, err := h.payments.HandleWebhook(c.Request.Context(), body, signature, c.GetHeader("X-Razorpay-Event-Id"))
	switch {
	case errors.Is(err, services.ErrInvalidSignature):
		utils.LogWarn("Razorpay webhook with invalid signature from %s", c.ClientIP())
		utils.Unauthorized(c, "Invalid signature")
		return
	case errors.Is(err, services.ErrInvalidPayload):
		utils.BadRequest(c, "Invalid payload", err.Error())
		return
	case err != nil:
		utils.LogError("Razorpay webhook failed: %v", err)
		utils.InternalServerError(c, "Failed to process webhook", err.Error())
		return
	}

	utils.LogDebug("Razorpay webhook %s: order=%d updated=%t duplicate=%t ignored=%t",
		outcome.Event, outcome.OrderID, outcome.Updated, outcome.Duplicate, outcome.Ignored)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Shiprocket handles shipment status pushes
func (h *WebhookController) Shiprocket(c *gin.Context) {
	if h.shipmentsToken != "" {
		token := c.GetHeader("x-api-key")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.shipmentsToken)) != 1 {
			utils.RecordWebhook("shiprocket", "unauthorized")
			utils.LogWarn("Shiprocket webhook with bad token from %s", c.ClientIP())
			utils.Unauthorized(c, utils.ErrUnauthorized)
			return
		}
	}

	var event services.ShipmentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.RecordWebhook("shiprocket", "invalid_payload")
		utils.BadRequest(c, "Invalid payload", err.Error())
		return
	}

	result, err := h.shipments.ApplyShipmentEvent(c.Request.Context(), &event)
	switch {
	case errors.Is(err, services.ErrMissingShipmentID):
		utils.RecordWebhook("shiprocket", "invalid_payload")
		utils.BadRequest(c, "Missing shipment_id", nil)
		return
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RecordWebhook("shiprocket", "unknown_shipment")
		utils.NotFound(c, "Order not found for shipment")
		return
	case err != nil:
		utils.RecordWebhook("shiprocket", "error")
		utils.LogError("Shiprocket webhook failed: %v", err)
		utils.InternalServerError(c, "Failed to process webhook", err.Error())
		return
	}

	utils.RecordWebhook("shiprocket", "applied")
	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"orderId":  result.OrderID,
		"effect":   result.Effect,
		"status":   result.Status,
	})
}
