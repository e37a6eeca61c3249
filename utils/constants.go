package utils

// Application constants
const (
	// Application name
	AppName = "watch-me"

	// API version
	APIVersion = "v1"

	// Default currency for prices and orders
	DefaultCurrency = "INR"

	// Default pagination limits
	DefaultPaginationLimit       = 20
	DefaultPublicPaginationLimit = 12
	MaxPaginationLimit           = 100

	// Tracking page for shipments with a waybill
	TrackingURLPrefix = "https://shiprocket.co/tracking/"
)

// Error messages
const (
	ErrUnauthorized      = "Unauthorized"
	ErrInvalidRequest    = "Invalid request data"
	ErrInvalidCredential = "Invalid credentials"
	ErrOrderNotFound     = "Order not found"
	ErrNoShipment        = "No shipment created for this order"
)

// TrackingURL returns the public tracking page for a waybill
func TrackingURL(awb string) string {
	return TrackingURLPrefix + awb
}
