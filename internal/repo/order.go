package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
)

// StockDecrement is one product's dual-view stock consumption, precomputed by
// the service from the line amount and the product's conversion factor.
type StockDecrement struct {
	ProductID uuid.UUID
	Units     int64
	Kg        float64
}

// ReconcileOrder runs the mutation half of order creation as one transaction:
// create the order with its frozen items, conditionally decrement stock for
// every line, consume the cart, and append the user's history entry. Any
// failure rolls the whole thing back, so a lost race leaves no partial
// effects. Stock decrements are conditional updates, so two orders racing for
// the same units cannot both win even without row locks.
func (r *GormRepo) ReconcileOrder(ctx context.Context, order *models.Order, cartID uuid.UUID, decs []StockDecrement) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, d := range decs {
			if err := decrementStock(tx, d.ProductID, d.Units, d.Kg); err != nil {
				return err
			}
		}

		if err := deleteCart(tx, cartID); err != nil {
			return err
		}

		history := models.OrderHistoryEntry{UserID: order.UserID, OrderID: order.ID}
		return tx.Create(&history).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
