package services

import (
	"context"
	"errors"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// VerifyInput is the result the payment widget hands back to the browser
type VerifyInput struct {
	OrderID           uint
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// WebhookOutcome describes what a gateway webhook delivery did
type WebhookOutcome struct {
	Event     string
	OrderID   uint
	Duplicate bool
	Ignored   bool
	Updated   bool
}

// PaymentService confirms payments reported by the browser and by gateway webhooks
type PaymentService struct {
	db            *gorm.DB
	keySecret     string
	webhookSecret string
	notifier      Notifier
	events        EventStore
}

// NewPaymentService creates a PaymentService. events may be nil to disable webhook de-duplication.
func NewPaymentService(db *gorm.DB, keySecret, webhookSecret string, notifier Notifier, events EventStore) *PaymentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if webhookSecret == "" {
		webhookSecret = keySecret
	}
	return &PaymentService{
		db:            db,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		notifier:      notifier,
		events:        events,
	}
}

// VerifyPayment checks the checkout signature and marks the order paid.
// Orders already past payment keep their status.
func (s *PaymentService) VerifyPayment(ctx context.Context, in VerifyInput) (*models.Order, error) {
	if !payment.VerifyPaymentSignature(s.keySecret, in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		utils.LogWarn("Invalid payment signature for order %d (gateway order %s)", in.OrderID, in.RazorpayOrderID)
		return nil, ErrInvalidSignature
	}

	order, err := loadOrder(ctx, s.db, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.RazorpayOrderID != in.RazorpayOrderID {
		utils.LogWarn("Payment for gateway order %s submitted against order %d (gateway order %s)",
			in.RazorpayOrderID, order.ID, order.RazorpayOrderID)
		return nil, ErrOrderMismatch
	}

	before, changed, err := payOrder(ctx, s.db, order.ID, map[string]string{
		"razorpay_payment_id": in.RazorpayPaymentID,
		"razorpay_signature":  in.RazorpaySignature,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		utils.LogInfo("Order %d already %s, payment verification changes no status", order.ID, before.Status)
		return loadOrder(ctx, s.db, order.ID)
	}

	utils.LogInfo("Order %d paid via checkout verification (payment %s, was %s)", order.ID, in.RazorpayPaymentID, before.Status)
	return s.afterPaid(ctx, order.ID)
}

// HandleWebhook verifies and applies a gateway webhook delivery
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (*WebhookOutcome, error) {
	if !payment.VerifyWebhookSignature(s.webhookSecret, body, signature) {
		utils.RecordWebhook("razorpay", "invalid_signature")
		return nil, ErrInvalidSignature
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		utils.RecordWebhook("razorpay", "invalid_payload")
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	outcome := &WebhookOutcome{Event: event.Event}

	if s.events != nil && eventID != "" {
		first, err := s.events.MarkProcessed(ctx, "razorpay:"+eventID, WebhookEventTTL)
		if err != nil {
			utils.LogWarn("Webhook de-duplication unavailable: %v", err)
		} else if !first {
			utils.LogInfo("Duplicate gateway webhook %s (%s) ignored", eventID, event.Event)
			utils.RecordWebhook("razorpay", "duplicate")
			outcome.Duplicate = true
			return outcome, nil
		}
	}

	if err := s.applyWebhook(ctx, event, outcome); err != nil {
		if s.events != nil && eventID != "" {
			if ferr := s.events.Forget(ctx, "razorpay:"+eventID); ferr != nil {
				utils.LogWarn("Failed to release webhook event %s: %v", eventID, ferr)
			}
		}
		utils.RecordWebhook("razorpay", "error")
		return nil, err
	}

	result := "ignored"
	if outcome.Updated {
		result = "applied"
	} else if !outcome.Ignored {
		result = "noop"
	}
	utils.RecordWebhook("razorpay", result)
	return outcome, nil
}

func (s *PaymentService) applyWebhook(ctx context.Context, event *payment.WebhookEvent, outcome *WebhookOutcome) error {
	if event.Event != payment.EventPaymentCaptured {
		utils.LogDebug("Ignoring gateway webhook event %s", event.Event)
		outcome.Ignored = true
		return nil
	}

	entity := event.Payment()
	if entity.OrderID == "" {
		utils.LogWarn("payment.captured webhook without order_id (payment %s)", entity.ID)
		return nil
	}

	var order models.Order
	err := s.db.WithContext(ctx).Where("razorpay_order_id = ?", entity.OrderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogWarn("payment.captured for unknown gateway order %s", entity.OrderID)
		return nil
	}
	if err != nil {
		return err
	}
	outcome.OrderID = order.ID

	before, changed, err := payOrder(ctx, s.db, order.ID, map[string]string{
		"razorpay_payment_id": entity.ID,
	})
	if err != nil {
		return err
	}
	if !changed {
		utils.LogInfo("payment.captured for order %d already applied (status %s)", order.ID, before.Status)
		return nil
	}

	outcome.Updated = true
	if before.Status != models.OrderStatusPending {
		utils.LogWarn("Order %d was %s when payment %s was captured", order.ID, before.Status, entity.ID)
	}
	utils.LogInfo("Order %d paid via gateway webhook (payment %s)", order.ID, entity.ID)
	_, err = s.afterPaid(ctx, order.ID)
	return err
}

func (s *PaymentService) afterPaid(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := loadOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderPaid(order)
	return order, nil
}
