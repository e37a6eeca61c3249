package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns hex(HMAC-SHA256(secret, payload))
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPaymentSignature checks the signature the checkout widget returns after a payment
func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) bool {
	if keySecret == "" || signature == "" {
		return false
	}
	return equalHex(Sign(keySecret, []byte(orderID+"|"+paymentID)), signature)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the raw request body
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return equalHex(Sign(secret, body), signature)
}

func equalHex(expected, actual string) bool {
	return hmac.Equal([]byte(expected), []byte(actual))
}
