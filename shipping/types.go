package shipping

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString holds vendor identifiers that arrive either as JSON strings or numbers.
// It marshals back to a number when the value is numeric.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// MarshalJSON emits numeric values as JSON numbers
func (f FlexString) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexString) String() string {
	return string(f)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Courier is a courier able to serve a delivery pincode
type Courier struct {
	CourierCompanyID      FlexString `json:"courier_company_id"`
	CourierName           string     `json:"courier_name"`
	EstimatedDeliveryDays FlexString `json:"estimated_delivery_days"`
	ETD                   string     `json:"etd,omitempty"`
	Rate                  float64    `json:"rate"`
	CODCharge             float64    `json:"cod_charge"`
	CODMultiplier         float64    `json:"cod_multiplier"`
	Rating                float64    `json:"rating"`
}

// ServiceabilityResponse is the answer of the serviceability endpoint
type ServiceabilityResponse struct {
	Status int `json:"status"`
	Data   struct {
		AvailableCourierCompanies []Courier `json:"available_courier_companies"`
	} `json:"data"`
}

// Serviceable reports whether any courier serves the pincode
func (r *ServiceabilityResponse) Serviceable() bool {
	return r.Status == 200
}

// OrderItem is a line of an adhoc order
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

// CreateOrderRequest is the payload of an adhoc order
type CreateOrderRequest struct {
	OrderID              string      `json:"order_id"`
	OrderDate            string      `json:"order_date"`
	PickupLocation       string      `json:"pickup_location"`
	BillingCustomerName  string      `json:"billing_customer_name"`
	BillingLastName      string      `json:"billing_last_name"`
	BillingAddress       string      `json:"billing_address"`
	BillingAddress2      string      `json:"billing_address_2"`
	BillingCity          string      `json:"billing_city"`
	BillingPincode       string      `json:"billing_pincode"`
	BillingState         string      `json:"billing_state"`
	BillingCountry       string      `json:"billing_country"`
	BillingEmail         string      `json:"billing_email"`
	BillingPhone         string      `json:"billing_phone"`
	ShippingIsBilling    bool        `json:"shipping_is_billing"`
	ShippingCustomerName string      `json:"shipping_customer_name"`
	ShippingLastName     string      `json:"shipping_last_name"`
	ShippingAddress      string      `json:"shipping_address"`
	ShippingAddress2     string      `json:"shipping_address_2"`
	ShippingCity         string      `json:"shipping_city"`
	ShippingPincode      string      `json:"shipping_pincode"`
	ShippingState        string      `json:"shipping_state"`
	ShippingCountry      string      `json:"shipping_country"`
	ShippingEmail        string      `json:"shipping_email"`
	ShippingPhone        string      `json:"shipping_phone"`
	OrderItems           []OrderItem `json:"order_items"`
	PaymentMethod        string      `json:"payment_method"`
	SubTotal             float64     `json:"sub_total"`
	Length               float64     `json:"length"`
	Breadth              float64     `json:"breadth"`
	Height               float64     `json:"height"`
	Weight               float64     `json:"weight"`
}

// CreateOrderResponse is the answer to an adhoc order
type CreateOrderResponse struct {
	Status           FlexString `json:"status"`
	OrderID          FlexString `json:"order_id"`
	ShipmentID       FlexString `json:"shipment_id"`
	StatusCode       FlexString `json:"status_code"`
	AWBCode          FlexString `json:"awb_code"`
	CourierCompanyID FlexString `json:"courier_company_id"`
	CourierName      string     `json:"courier_name"`
}

type assignAWBRequest struct {
	ShipmentID FlexString `json:"shipment_id"`
	CourierID  FlexString `json:"courier_id,omitempty"`
}

type awbData struct {
	ShipmentID  FlexString `json:"shipment_id"`
	AWBCode     FlexString `json:"awb_code"`
	CourierName string     `json:"courier_name"`
}

// AssignAWBResponse is the answer to a waybill assignment
type AssignAWBResponse struct {
	AWBAssignStatus int    `json:"awb_assign_status"`
	Message         string `json:"message"`
	Response        struct {
		awbData
		Data awbData `json:"data"`
	} `json:"response"`
}

// AWBCode returns the assigned waybill, wherever the vendor put it
func (r *AssignAWBResponse) AWBCode() string {
	if r.Response.AWBCode != "" {
		return r.Response.AWBCode.String()
	}
	return r.Response.Data.AWBCode.String()
}

// CourierName returns the courier the waybill was assigned with
func (r *AssignAWBResponse) CourierName() string {
	if r.Response.CourierName != "" {
		return r.Response.CourierName
	}
	return r.Response.Data.CourierName
}

type shipmentIDsRequest struct {
	ShipmentID []FlexString `json:"shipment_id"`
}

type invoiceRequest struct {
	ShipmentIDs []FlexString `json:"shipment_ids"`
}

// Document is a vendor generated response such as a label or an invoice. It is passed through unchanged.
type Document map[string]interface{}

// URL returns the document link from the known vendor fields
func (d Document) URL() string {
	for _, key := range []string{"label_url", "invoice_url", "pickup_url"} {
		if v, ok := d[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Tracking is the live tracking payload for a waybill, passed through unchanged
type Tracking map[string]interface{}
