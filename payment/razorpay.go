package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// GatewayOrder is an order opened with the payment gateway
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// Gateway opens payment orders that the customer then pays in the browser
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
	KeyID() string
}

// RazorpayGateway creates orders through the Razorpay API
type RazorpayGateway struct {
	keyID  string
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway for the given key pair
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:  keyID,
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// KeyID returns the public key the checkout widget is opened with
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder opens a gateway order for amount paisa. Payments are captured automatically.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order create: response without order id")
	}

	return &GatewayOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}
