package services

import (
	"context"
	"strings"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// MaxExportRows caps the spreadsheet export
const MaxExportRows = 5000

// OrderFilter narrows admin order lists
type OrderFilter struct {
	Status string
	Search string
}

// OrderService serves admin order management and customer order lookups
type OrderService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewOrderService creates an OrderService
func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{db: db, notifier: notifier}
}

func (s *OrderService) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(razorpay_order_id) LIKE ?)",
			like, like, like,
		)
	}
	return query
}

// List returns one page of orders, newest first. The pagination total is filled in.
func (s *OrderService) List(ctx context.Context, filter OrderFilter, p *utils.Pagination) ([]models.Order, error) {
	if err := s.filtered(ctx, filter).Count(&p.Total).Error; err != nil {
		return nil, err
	}
	var orders []models.Order
	err := s.filtered(ctx, filter).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&orders).Error
	return orders, err
}

// Export returns the filtered orders for the spreadsheet export
func (s *OrderService) Export(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.filtered(ctx, filter).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(MaxExportRows).
		Find(&orders).Error
	return orders, err
}

// Get returns a single order with its items
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	return loadOrder(ctx, s.db, id)
}

// UpdateStatus sets an order's status. Stock follows the status change.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	before, after, err := applyTransition(ctx, s.db, id, func(order *models.Order) (map[string]interface{}, error) {
		if order.Status == status {
			return nil, nil
		}
		return map[string]interface{}{"status": status}, nil
	})
	if err != nil {
		return nil, err
	}

	order, err := loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if before.Status != after {
		utils.LogInfo("Admin moved order %d from %s to %s", id, before.Status, after)
		switch {
		case after == models.OrderStatusShipped:
			s.notifier.OrderShipped(order)
		case after == models.OrderStatusPaid && !before.StockTaken():
			s.notifier.OrderPaid(order)
		}
	}
	return order, nil
}

// CustomerOrder returns an order only when email matches its customer.
// A mismatch is reported as not found so ids cannot be probed.
func (s *OrderService) CustomerOrder(ctx context.Context, id uint, email string) (*models.Order, error) {
	order, err := loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !sameEmail(order.Customer.Email, email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func sameEmail(a, b string) bool {
	b = strings.TrimSpace(b)
	return b != "" && strings.EqualFold(strings.TrimSpace(a), b)
}
