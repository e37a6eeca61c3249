package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "key_secret"
	sig := Sign(secret, []byte("order_123|pay_456"))

	assert.True(t, VerifyPaymentSignature(secret, "order_123", "pay_456", sig))
	assert.False(t, VerifyPaymentSignature(secret, "order_123", "pay_999", sig))
	assert.False(t, VerifyPaymentSignature("other_secret", "order_123", "pay_456", sig))
	assert.False(t, VerifyPaymentSignature(secret, "order_123", "pay_456", ""))
	assert.False(t, VerifyPaymentSignature("", "order_123", "pay_456", sig))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec"
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(secret, body)

	assert.True(t, VerifyWebhookSignature(secret, body, sig))
	assert.False(t, VerifyWebhookSignature(secret, []byte(`{"event":"payment.failed"}`), sig))
	assert.False(t, VerifyWebhookSignature(secret, body, "deadbeef"))
	assert.False(t, VerifyWebhookSignature(secret, body, ""))
}

func TestSignKnownVector(t *testing.T) {
	// RFC 4231 test case 2
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign("Jefe", []byte("what do ya want for nothing?")))
}
