package payment

import (
	"encoding/json"
	"fmt"
)

// EventPaymentCaptured is sent once a payment has been captured
const EventPaymentCaptured = "payment.captured"

// PaymentEntity is the payment object embedded in a webhook event
type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
	Email    string `json:"email"`
}

// WebhookEvent is a Razorpay webhook delivery
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`
}

// ParseWebhookEvent decodes a webhook body
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	return &event, nil
}

// Payment returns the payment entity of the event
func (e *WebhookEvent) Payment() PaymentEntity {
	return e.Payload.Payment.Entity
}
