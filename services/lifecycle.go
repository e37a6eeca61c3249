package services

import (
	"context"
	"errors"
	"time"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

func loadOrder(ctx context.Context, db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// payOrder records a captured payment. Orders that hold no stock (pending,
// cancelled) move to paid and take their items; orders already past payment
// keep their status and only get the payment id if it is missing.
// changed is true only for the caller whose update moved the status.
func payOrder(ctx context.Context, db *gorm.DB, orderID uint, payment map[string]string) (before *models.Order, changed bool, err error) {
	before, _, err = applyTransition(ctx, db, orderID, func(order *models.Order) (map[string]interface{}, error) {
		if order.StockTaken() && order.RazorpayPaymentID != "" {
			return nil, nil
		}
		fields := map[string]interface{}{}
		if !order.StockTaken() {
			fields["status"] = models.OrderStatusPaid
		}
		for k, v := range payment {
			if v != "" {
				fields[k] = v
			}
		}
		if len(fields) == 0 {
			return nil, nil
		}
		fields["updated_at"] = time.Now()
		return fields, nil
	})
	if err != nil {
		return nil, false, err
	}
	return before, !before.StockTaken(), nil
}

// takeStock decrements stock without going negative. An oversell is logged, never fatal.
func takeStock(tx *gorm.DB, orderID uint, item models.OrderItem) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Qty).
		Update("stock", gorm.Expr("stock - ?", item.Qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		utils.LogWarn("Oversold product %d on order %d: wanted %d, stock too low", item.ProductID, orderID, item.Qty)
	}
	return nil
}

// restockItems puts an order's items back into stock
func restockItems(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr("stock + ?", item.Qty)).Error; err != nil {
			return err
		}
	}
	return nil
}
