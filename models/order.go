package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every status an admin may set.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is one of the known order statuses.
func IsValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Address is the customer's delivery address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Customer holds the contact details captured at checkout.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email" gorm:"index"`
	Phone   string  `json:"phone"`
	Address Address `json:"address" gorm:"embedded;embeddedPrefix:address_"`
}

// PickupAddress is the warehouse the courier collects from.
type PickupAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	RazorpayOrderID   string      `json:"orderIdRazorpay,omitempty" gorm:"index"`
	RazorpayPaymentID string      `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string      `json:"-"`
	Items             []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Amount            int64       `json:"amount"` // paisa
	Currency          string      `json:"currency" gorm:"default:'INR'"`
	Customer          Customer    `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Status            string      `json:"status" gorm:"index;not null;default:'pending'"`

	// Shipment fields, mirrored from the shipping aggregator
	ShiprocketShipmentID string        `json:"shiprocketShipmentId,omitempty" gorm:"index"`
	ShiprocketOrderID    string        `json:"shiprocketOrderId,omitempty"`
	AWBCode              string        `json:"awbCode,omitempty"`
	CourierName          string        `json:"courierName,omitempty"`
	ShippingStatus       string        `json:"shippingStatus,omitempty"`
	TrackingURL          string        `json:"trackingUrl,omitempty"`
	PickupScheduledDate  *time.Time    `json:"pickupScheduledDate,omitempty"`
	PickupAddress        PickupAddress `json:"pickupAddress" gorm:"embedded;embeddedPrefix:pickup_"`
	ShipmentReservedAt   *time.Time    `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasShipment reports whether a shipment was already created for the order.
func (o *Order) HasShipment() bool {
	return o.ShiprocketShipmentID != ""
}

// Shippable reports whether the order is in a status that allows creating a shipment.
func (o *Order) Shippable() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusConfirmed
}

// StockTaken reports whether the order's items were already deducted from stock.
func (o *Order) StockTaken() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusConfirmed, OrderStatusShipped:
		return true
	}
	return false
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	OrderID   uint   `json:"-" gorm:"index"`
	ProductID uint   `json:"productId"`
	Title     string `json:"title"`
	Price     int64  `json:"price"` // paisa, per unit
	Qty       int    `json:"qty"`
}

// LineTotal returns price × qty in paisa.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Qty)
}
