package controllers

import (
	"strings"

	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest is the body of an admin status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderController serves admin order management and customer order lookups
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates an OrderController
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func orderFilter(c *gin.Context) services.OrderFilter {
	return services.OrderFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Search: c.Query("search"),
	}
}

// ListOrders lists orders for the back office, newest first
func (h *OrderController) ListOrders(c *gin.Context) {
	p := utils.NewPagination(c, utils.DefaultPaginationLimit)

	orders, err := h.orders.List(c.Request.Context(), orderFilter(c), p)
	if err != nil {
		respondServiceError(c, err, "fetch orders")
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, p)
}

// GetOrder returns the full order
func (h *OrderController) GetOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "fetch order")
		return
	}

	utils.Success(c, "Order retrieved successfully", order)
}

// UpdateOrderStatus sets an order's status
func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil {
		respondServiceError(c, err, "update order")
		return
	}

	utils.Success(c, "Order status updated successfully", order)
}

// CustomerOrder returns an order to the customer who placed it
func (h *OrderController) CustomerOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := h.orders.CustomerOrder(c.Request.Context(), id, c.Query("email"))
	if err != nil {
		respondServiceError(c, err, "fetch order")
		return
	}

	utils.Success(c, "Order retrieved successfully", order)
}
