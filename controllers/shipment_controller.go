package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// ParcelRequest is the optional package size of a new shipment
type ParcelRequest struct {
	Weight  float64 `json:"weight" binding:"omitempty,gt=0"`
	Length  float64 `json:"length" binding:"omitempty,gt=0"`
	Breadth float64 `json:"breadth" binding:"omitempty,gt=0"`
	Height  float64 `json:"height" binding:"omitempty,gt=0"`
}

// AssignAWBRequest optionally pins the courier
type AssignAWBRequest struct {
	CourierID shipping.FlexString `json:"courierId"`
}

// ShipmentController serves the admin shipment actions and the public serviceability check
type ShipmentController struct {
	shipments *services.ShipmentService
}

// NewShipmentController creates a ShipmentController
func NewShipmentController(shipments *services.ShipmentService) *ShipmentController {
	return &ShipmentController{shipments: shipments}
}

// bindOptionalJSON binds a body that may be absent
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return false
	}
	return true
}

// CreateShipment creates the aggregator shipment for an order
func (h *ShipmentController) CreateShipment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req ParcelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	summary, err := h.shipments.CreateShipment(c.Request.Context(), id, services.Parcel{
		Weight:  req.Weight,
		Length:  req.Length,
		Breadth: req.Breadth,
		Height:  req.Height,
	})
	if err != nil {
		respondServiceError(c, err, "create shipment")
		return
	}

	utils.Created(c, "Shipment created successfully", gin.H{"shipment": summary})
}

// GetShipment returns the stored shipment with live tracking
func (h *ShipmentController) GetShipment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	details, err := h.shipments.GetShipment(c.Request.Context(), id)
	if errors.Is(err, services.ErrNoShipment) {
		utils.NotFound(c, utils.ErrNoShipment)
		return
	}
	if err != nil {
		respondServiceError(c, err, "fetch shipment")
		return
	}

	utils.Success(c, "Shipment retrieved successfully", details)
}

// AssignAWB assigns a waybill to the order's shipment
func (h *ShipmentController) AssignAWB(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req AssignAWBRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	assignment, err := h.shipments.AssignAWB(c.Request.Context(), id, req.CourierID.String())
	if err != nil {
		respondServiceError(c, err, "assign AWB")
		return
	}

	utils.Success(c, "AWB assigned successfully", assignment)
}

// SchedulePickup requests a courier pickup
func (h *ShipmentController) SchedulePickup(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	doc, err := h.shipments.SchedulePickup(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "schedule pickup")
		return
	}

	utils.Success(c, "Pickup scheduled successfully", gin.H{"response": doc})
}

// Label returns the shipping label URL
func (h *ShipmentController) Label(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	doc, err := h.shipments.Label(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "generate label")
		return
	}

	utils.Success(c, "Label generated successfully", gin.H{"labelUrl": doc.URL(), "response": doc})
}

// Invoice returns the shipment invoice URL
func (h *ShipmentController) Invoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	doc, err := h.shipments.Invoice(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "generate invoice")
		return
	}

	utils.Success(c, "Invoice generated successfully", gin.H{"invoiceUrl": doc.URL(), "response": doc})
}

// Serviceability lists couriers delivering to a pincode
func (h *ShipmentController) Serviceability(c *gin.Context) {
	pincode := strings.TrimSpace(c.Query("pincode"))
	if pincode == "" {
		utils.BadRequest(c, "Pincode is required", nil)
		return
	}
	if !utils.IsValidPincode(pincode) {
		utils.BadRequest(c, "Invalid pincode", pincode)
		return
	}

	weight := services.DefaultWeightKg
	if raw := c.Query("weight"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			utils.BadRequest(c, "Weight must be a positive number", raw)
			return
		}
		weight = parsed
	}

	resp, err := h.shipments.CheckServiceability(c.Request.Context(), pincode, weight)
	if err != nil {
		respondServiceError(c, err, "check serviceability")
		return
	}

	couriers := resp.Data.AvailableCourierCompanies
	if couriers == nil {
		couriers = []shipping.Courier{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"serviceable": resp.Serviceable() && len(couriers) > 0,
		"couriers":    couriers,
	})
}
