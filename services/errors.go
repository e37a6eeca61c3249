package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("no items in order")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidPayload      = errors.New("invalid payload")
	ErrOrderMismatch       = errors.New("payment order does not match")
	ErrShipmentExists      = errors.New("shipment already created for this order")
	ErrShipmentInProgress  = errors.New("shipment creation already in progress")
	ErrNotShippable        = errors.New("order must be paid or confirmed before creating shipment")
	ErrNoShipment          = errors.New("no shipment created for this order")
	ErrAWBAssigned         = errors.New("awb already assigned to this shipment")
	ErrPickupNotConfigured = errors.New("pickup address not configured")
	ErrMissingShipmentID   = errors.New("missing shipment_id")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrVendor              = errors.New("vendor request failed")
)

// ProductError ties a checkout failure to the product that caused it
type ProductError struct {
	Err       error
	ProductID uint
	Title     string
}

func (e *ProductError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Title)
	}
	return fmt.Sprintf("%v: %d", e.Err, e.ProductID)
}

func (e *ProductError) Unwrap() error {
	return e.Err
}

// StatusError reports the status that blocked an operation
type StatusError struct {
	Err    error
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v (current status %s)", e.Err, e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func vendorError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrVendor, op, err)
}
