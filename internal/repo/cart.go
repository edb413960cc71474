package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// PutItem upserts a line item with overwrite semantics: a repeated add
// replaces the stored amount and zeroes the other unit's field. The cart
// document is created lazily on the first add.
func (r *GormRepo) PutItem(ctx context.Context, userID, productID uuid.UUID, amount models.LineAmount) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
			return err
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			item.SetAmount(amount)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID}
			item.SetAmount(amount)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return r.recomputeTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItemAmount replaces the amount of an existing line item, keeping its
// current unit of sale.
func (r *GormRepo) UpdateItemAmount(ctx context.Context, userID, productID uuid.UUID, value float64) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
			return err
		}

		amount := item.Amount()
		amount.Value = value
		item.SetAmount(amount)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		return r.recomputeTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes a line item if present. A missing item is not an error;
// only a missing cart is.
func (r *GormRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return r.recomputeTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart empties the line items but keeps the cart document.
func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		cart.TotalAmount = 0
		cart.Items = nil
		return tx.Model(&cart).Update("total_amount", 0).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// deleteCart removes the cart document and its items. Zero affected rows on
// the cart itself means another transaction consumed it first.
func deleteCart(tx *gorm.DB, cartID uuid.UUID) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	res := tx.Where("id = ?", cartID).Delete(&models.Cart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartConsumed
	}
	return nil
}

// recomputeTotal refreshes the denormalized cart total from current catalog
// prices and reloads the cart's items.
func (r *GormRepo) recomputeTotal(tx *gorm.DB, cart *models.Cart) error {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products := map[uuid.UUID]models.Product{}
	if len(ids) > 0 {
		var prods []models.Product
		if err := tx.Where("id IN ?", ids).Find(&prods).Error; err != nil {
			return err
		}
		for _, p := range prods {
			products[p.ID] = p
		}
	}

	cart.Items = items
	cart.TotalAmount = models.CartTotal(items, products)
	return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total_amount", cart.TotalAmount).Error
}
