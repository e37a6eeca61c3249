package services

import (
	"context"
	"errors"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"gorm.io/gorm"
)

// errStatusChanged signals a lost compare-and-set on the order status
var errStatusChanged = errors.New("order status changed concurrently")

const maxStatusAttempts = 3

// transition applies fields to an order only if its status is still from.
// Stock follows the status: leaving a stock-taken status returns the items,
// entering one takes them.
func transition(tx *gorm.DB, order *models.Order, fields map[string]interface{}) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStatusChanged
	}

	to, ok := fields["status"].(string)
	if !ok || to == order.Status {
		return nil
	}
	next := models.Order{Status: to}
	switch {
	case order.StockTaken() && !next.StockTaken():
		utils.LogInfo("Restocking items of order %d (%s -> %s)", order.ID, order.Status, to)
		return restockItems(tx, order.ID)
	case !order.StockTaken() && next.StockTaken():
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := takeStock(tx, order.ID, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyTransition reloads the order and runs build + transition until the
// compare-and-set wins. build returns the fields to write, or nil for no change.
func applyTransition(ctx context.Context, db *gorm.DB, orderID uint,
	build func(order *models.Order) (map[string]interface{}, error)) (before *models.Order, after string, err error) {

	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		order, err := loadOrder(ctx, db, orderID)
		if err != nil {
			return nil, "", err
		}
		fields, err := build(order)
		if err != nil {
			return nil, "", err
		}
		if len(fields) == 0 {
			return order, order.Status, nil
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return transition(tx, order, fields)
		})
		if errors.Is(err, errStatusChanged) {
			utils.LogDebug("Order %d changed during update, retrying", orderID)
			continue
		}
		if err != nil {
			return nil, "", err
		}

		after = order.Status
		if to, ok := fields["status"].(string); ok {
			after = to
		}
		if after != order.Status {
			utils.RecordTransition(order.Status, after)
		}
		return order, after, nil
	}
	return nil, "", errStatusChanged
}
