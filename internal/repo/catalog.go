package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]models.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Order("created_at ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}

	if req.Title != nil {
		prod.Title = *req.Title
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.PricePerKg != nil {
		prod.PricePerKg = *req.PricePerKg
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.StockInKg != nil {
		prod.StockInKg = *req.StockInKg
	}
	if req.KgPerUnit != nil {
		prod.KgPerUnit = *req.KgPerUnit
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}

	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// decrementStock applies a conditional dual-view decrement: the row is only
// updated when both stock views still cover the deltas, as a single atomic
// statement. A zero-row update reports ErrStockConflict.
func decrementStock(tx *gorm.DB, productID uuid.UUID, units int64, kg float64) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ? AND stock_in_kg >= ?", productID, units, kg).
		Updates(map[string]any{
			"stock":       gorm.Expr("stock - ?", units),
			"stock_in_kg": gorm.Expr("stock_in_kg - ?", kg),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}
