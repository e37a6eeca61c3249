package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"entity": "event",
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "order_1", "status": "captured", "amount": 149900, "currency": "INR"}}},
		"created_at": 1700000000
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, event.Event)
	assert.Equal(t, "pay_1", event.Payment().ID)
	assert.Equal(t, "order_1", event.Payment().OrderID)
	assert.Equal(t, int64(149900), event.Payment().Amount)
}

func TestParseWebhookEventInvalid(t *testing.T) {
	_, err := ParseWebhookEvent([]byte(`not json`))
	assert.Error(t, err)
}
