package controllers

import (
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// CartItemRequest is one cart line sent by the browser
type CartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

// AddressRequest is the delivery address captured at checkout
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// CustomerRequest holds the buyer's contact details
type CustomerRequest struct {
	Name    string         `json:"name" binding:"required"`
	Email   string         `json:"email" binding:"required,email"`
	Phone   string         `json:"phone" binding:"required,min=10"`
	Address AddressRequest `json:"address" binding:"required"`
}

// CheckoutRequest is the body of an order creation
type CheckoutRequest struct {
	Items    []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	Customer CustomerRequest   `json:"customer" binding:"required"`
}

// QuoteRequest is the body of a cart quote
type QuoteRequest struct {
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// VerifyPaymentRequest is what the payment widget returns to the browser
type VerifyPaymentRequest struct {
	OrderID           uint   `json:"orderId" binding:"required"`
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

func cartItems(lines []CartItemRequest) []services.CartItem {
	items := make([]services.CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, services.CartItem{ProductID: line.ProductID, Qty: line.Qty})
	}
	return items
}

func (r CustomerRequest) toModel() models.Customer {
	return models.Customer{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Address: models.Address{
			Street:  r.Address.Street,
			City:    r.Address.City,
			State:   r.Address.State,
			ZipCode: r.Address.ZipCode,
			Country: r.Address.Country,
		},
	}
}

// CheckoutController serves the cart quote, order creation and payment verification
type CheckoutController struct {
	checkout *services.CheckoutService
	payments *services.PaymentService
}

// NewCheckoutController creates a CheckoutController
func NewCheckoutController(checkout *services.CheckoutService, payments *services.PaymentService) *CheckoutController {
	return &CheckoutController{checkout: checkout, payments: payments}
}

// Quote prices a cart from the catalog
func (h *CheckoutController) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	quote, err := h.checkout.Quote(c.Request.Context(), cartItems(req.Items))
	if err != nil {
		respondServiceError(c, err, "quote cart")
		return
	}
	utils.Success(c, "Cart quoted successfully", quote)
}

// CreateOrder creates a pending order and its gateway order
func (h *CheckoutController) CreateOrder(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	result, err := h.checkout.CreateOrder(c.Request.Context(), cartItems(req.Items), req.Customer.toModel())
	if err != nil {
		respondServiceError(c, err, "create order")
		return
	}

	utils.Created(c, "Order created successfully", result)
}

// VerifyPayment confirms a payment reported by the browser
func (h *CheckoutController) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	order, err := h.payments.VerifyPayment(c.Request.Context(), services.VerifyInput{
		OrderID:           req.OrderID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	})
	if err != nil {
		respondServiceError(c, err, "verify payment")
		return
	}

	utils.Success(c, "Payment verified successfully", order)
}
