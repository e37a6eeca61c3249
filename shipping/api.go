package shipping

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CheckServiceability lists couriers able to carry a parcel of weight kg between two pincodes
func (c *Client) CheckServiceability(ctx context.Context, pickupPincode, deliveryPincode string, weight float64) (*ServiceabilityResponse, error) {
	if pickupPincode == "" {
		return nil, errors.New("pickup pincode not configured: set SHIPROCKET_PICKUP_PINCODE")
	}

	q := url.Values{}
	q.Set("pickup_postcode", pickupPincode)
	q.Set("delivery_postcode", deliveryPincode)
	q.Set("cod", "1")
	q.Set("weight", strconv.FormatFloat(weight, 'f', -1, 64))

	var resp ServiceabilityResponse
	if err := c.call(ctx, "serviceability", http.MethodGet, "/courier/serviceability/?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder creates an adhoc order, which also creates its shipment
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.call(ctx, "create_order", http.MethodPost, "/orders/create/adhoc", req, &resp); err != nil {
		return nil, err
	}
	if resp.ShipmentID == "" {
		return nil, errors.New("shiprocket create order: response without shipment_id")
	}
	return &resp, nil
}

// AssignAWB assigns a waybill to a shipment. courierID may be empty to let the vendor pick.
func (c *Client) AssignAWB(ctx context.Context, shipmentID, courierID string) (*AssignAWBResponse, error) {
	var resp AssignAWBResponse
	body := assignAWBRequest{ShipmentID: FlexString(shipmentID), CourierID: FlexString(courierID)}
	if err := c.call(ctx, "assign_awb", http.MethodPost, "/courier/assign/awb", body, &resp); err != nil {
		return nil, err
	}
	if resp.AWBCode() == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no awb_code in response"
		}
		return nil, fmt.Errorf("shiprocket assign awb: %s", msg)
	}
	return &resp, nil
}

// GeneratePickup requests a courier pickup for a shipment
func (c *Client) GeneratePickup(ctx context.Context, shipmentID string) (Document, error) {
	var resp Document
	body := shipmentIDsRequest{ShipmentID: []FlexString{FlexString(shipmentID)}}
	if err := c.call(ctx, "generate_pickup", http.MethodPost, "/courier/generate/pickup", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateLabel generates the shipping label for a shipment
func (c *Client) GenerateLabel(ctx context.Context, shipmentID string) (Document, error) {
	var resp Document
	body := shipmentIDsRequest{ShipmentID: []FlexString{FlexString(shipmentID)}}
	if err := c.call(ctx, "generate_label", http.MethodPost, "/courier/generate/label", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateInvoice generates the invoice for a shipment
func (c *Client) GenerateInvoice(ctx context.Context, shipmentID string) (Document, error) {
	var resp Document
	body := invoiceRequest{ShipmentIDs: []FlexString{FlexString(shipmentID)}}
	if err := c.call(ctx, "generate_invoice", http.MethodPost, "/orders/print/invoice", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TrackAWB returns live tracking for a waybill
func (c *Client) TrackAWB(ctx context.Context, awb string) (Tracking, error) {
	var resp Tracking
	if err := c.call(ctx, "track_awb", http.MethodGet, "/courier/track/awb/"+url.PathEscape(awb), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
