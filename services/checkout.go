package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// CartItem is one line of the client side cart
type CartItem struct {
	ProductID uint `json:"productId"`
	Qty       int  `json:"qty"`
}

// CheckoutResult is what the browser needs to open the payment widget
type CheckoutResult struct {
	OrderID         uint   `json:"orderId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Key             string `json:"key"`
}

// QuoteLine is a cart line priced from the catalog
type QuoteLine struct {
	ProductID uint   `json:"productId"`
	Title     string `json:"title,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Image     string `json:"image,omitempty"`
	Price     int64  `json:"price"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"lineTotal"`
	Stock     int    `json:"stock"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Quote is the priced cart
type Quote struct {
	Items     []QuoteLine `json:"items"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency"`
	Available bool        `json:"available"`
}

// CheckoutService turns carts into pending orders with a gateway order attached
type CheckoutService struct {
	db      *gorm.DB
	gateway payment.Gateway
}

// NewCheckoutService creates a CheckoutService
func NewCheckoutService(db *gorm.DB, gateway payment.Gateway) *CheckoutService {
	return &CheckoutService{db: db, gateway: gateway}
}

// mergeItems sums quantities of repeated products, keeping first-seen order
func mergeItems(items []CartItem) []CartItem {
	merged := make([]CartItem, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Qty += item.Qty
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func (s *CheckoutService) loadProducts(ctx context.Context, items []CartItem) (map[uint]models.Product, error) {
	if len(items) == 0 {
		return map[uint]models.Product{}, nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// CreateOrder validates stock, stores a pending order priced from the catalog and opens a gateway order for it
func (s *CheckoutService) CreateOrder(ctx context.Context, items []CartItem, customer models.Customer) (*CheckoutResult, error) {
	items = mergeItems(items)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	products, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Currency: utils.DefaultCurrency,
		Customer: customer,
		Status:   models.OrderStatusPending,
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsPublished {
			return nil, &ProductError{Err: ErrProductNotFound, ProductID: item.ProductID}
		}
		if item.Qty > product.Stock {
			return nil, &ProductError{Err: ErrInsufficientStock, ProductID: product.ID, Title: product.Title}
		}
		line := models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Qty:       item.Qty,
		}
		order.Items = append(order.Items, line)
		order.Amount += line.LineTotal()
	}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Created pending order %d for %s, amount %d paisa", order.ID, customer.Email, order.Amount)

	gatewayOrder, err := s.gateway.CreateOrder(ctx, order.Amount, order.Currency, fmt.Sprintf("receipt_%d", order.ID))
	utils.RecordVendorRequest("razorpay", "create_order", err)
	if err != nil {
		// the pending order is left behind without a gateway reference
		utils.LogError("Gateway order creation failed for order %d: %v", order.ID, err)
		return nil, vendorError("create payment order", err)
	}

	if err := s.db.WithContext(ctx).Model(order).Update("razorpay_order_id", gatewayOrder.ID).Error; err != nil {
		return nil, err
	}

	return &CheckoutResult{
		OrderID:         order.ID,
		RazorpayOrderID: gatewayOrder.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Key:             s.gateway.KeyID(),
	}, nil
}

// Quote prices a cart from the catalog. Missing, unpublished or short products are reported per line.
func (s *CheckoutService) Quote(ctx context.Context, items []CartItem) (*Quote, error) {
	items = mergeItems(items)
	products, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Items:     make([]QuoteLine, 0, len(items)),
		Currency:  utils.DefaultCurrency,
		Available: len(items) > 0,
	}
	for _, item := range items {
		line := QuoteLine{ProductID: item.ProductID, Qty: item.Qty}
		product, ok := products[item.ProductID]
		if !ok || !product.IsPublished {
			line.Reason = "not found"
		} else {
			line.Title = product.Title
			line.Slug = product.Slug
			line.Price = product.Price
			line.Stock = product.Stock
			line.LineTotal = product.Price * int64(item.Qty)
			if len(product.Images) > 0 {
				line.Image = product.Images[0]
			}
			if item.Qty > product.Stock {
				line.Reason = "insufficient stock"
			} else {
				line.Available = true
				quote.Total += line.LineTotal
			}
		}
		if !line.Available {
			quote.Available = false
		}
		quote.Items = append(quote.Items, line)
	}
	return quote, nil
}

// IsProductError reports whether err is a checkout failure tied to a product
func IsProductError(err error) (*ProductError, bool) {
	var pe *ProductError
	ok := errors.As(err, &pe)
	return pe, ok
}
