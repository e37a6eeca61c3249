package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// serviceError translates a service error into the HTTP error the API reports.
// action names the failed vendor operation, e.g. "create shipment".
func serviceError(err error, action string) *utils.AppError {
	if productErr, ok := services.IsProductError(err); ok {
		if errors.Is(err, services.ErrInsufficientStock) {
			return utils.BadRequestError(fmt.Sprintf("Insufficient stock for %s", productErr.Title), err)
		}
		return utils.NotFoundError(fmt.Sprintf("Product %d not found", productErr.ProductID), err)
	}

	var statusErr *services.StatusError
	switch {
	case errors.As(err, &statusErr):
		return utils.BadRequestError("Order must be paid or confirmed before creating shipment", err).
			WithDetails(gin.H{"currentStatus": statusErr.Status})
	case errors.Is(err, services.ErrOrderNotFound):
		return utils.NotFoundError(utils.ErrOrderNotFound, err)
	case errors.Is(err, services.ErrEmptyCart):
		return utils.BadRequestError("No items in order", err)
	case errors.Is(err, services.ErrInvalidSignature):
		return utils.BadRequestError("Invalid payment signature", err)
	case errors.Is(err, services.ErrOrderMismatch):
		return utils.BadRequestError("Payment order does not match", err)
	case errors.Is(err, services.ErrShipmentExists):
		return utils.ConflictError("Shipment already created for this order", err)
	case errors.Is(err, services.ErrShipmentInProgress):
		return utils.ConflictError("Shipment creation already in progress", err)
	case errors.Is(err, services.ErrNoShipment):
		return utils.BadRequestError(utils.ErrNoShipment, err)
	case errors.Is(err, services.ErrAWBAssigned):
		return utils.BadRequestError("AWB already assigned to this shipment", err)
	case errors.Is(err, services.ErrPickupNotConfigured):
		return utils.InternalError("Pickup address not configured", err)
	case errors.Is(err, services.ErrMissingShipmentID):
		return utils.BadRequestError("Missing shipment_id", err)
	case errors.Is(err, services.ErrInvalidStatus):
		return utils.BadRequestError("Invalid status", err).WithDetails(gin.H{"allowed": models.OrderStatuses})
	case errors.Is(err, services.ErrVendor):
		return utils.InternalError("Failed to "+action, err)
	default:
		return utils.NewAppError(http.StatusInternalServerError, "Failed to "+action, err)
	}
}

// respondServiceError logs and writes a service failure
func respondServiceError(c *gin.Context, err error, action string) {
	appErr := serviceError(err, action)
	if appErr.Code >= http.StatusInternalServerError {
		utils.LogError("%s %s: failed to %s: %v", c.Request.Method, c.Request.URL.Path, action, err)
	} else {
		utils.LogDebug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	utils.RespondAppError(c, appErr)
}
