package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/repo"
	"github.com/prashika-mel/storefront/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddItem puts a product into the user's cart in the requested unit of sale.
// A repeated add overwrites the stored amount; switching units zeroes the
// other unit's field. The cart is created lazily on the first add.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, amount models.LineAmount) (*models.Cart, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if amount.Value <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	if amount.Unit == models.UnitCount && amount.Value != math.Trunc(amount.Value) {
		return nil, fmt.Errorf("%w: unit amount must be a whole number", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product does not exist", ErrNotFound)
		}
		return nil, err
	}

	if amount.Unit == models.UnitWeight && !product.SellableByWeight() {
		return nil, fmt.Errorf("%w: %q is not sold by weight", ErrValidation, product.Title)
	}
	if amount.Unit == models.UnitCount && !product.SellableByUnit() {
		return nil, fmt.Errorf("%w: %q is not sold by unit", ErrValidation, product.Title)
	}

	if available := product.Available(amount.Unit); available < amount.Value {
		return nil, stockError(product, amount.Unit)
	}

	return s.Repo.PutItem(ctx, userID, productID, amount)
}

// UpdateItem replaces the amount of an existing line item, keeping its unit.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, newAmount float64) (*models.Cart, error) {
	if newAmount < 1 {
		return nil, fmt.Errorf("%w: amount must be >= 1", ErrValidation)
	}

	cart, err := s.Repo.UpdateItemAmount(ctx, userID, productID, newAmount)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product is not in the cart", ErrNotFound)
	}
	return cart, err
}

// RemoveItem is idempotent: removing an absent product succeeds with the cart
// unchanged. Only a missing cart is an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.RemoveItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no cart for this user", ErrNotFound)
	}
	return cart, err
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.ClearCart(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no cart for this user", ErrNotFound)
	}
	return cart, err
}

// GetDetails returns the cart joined with live product summaries. A user with
// no cart gets an explicit empty result, not an error.
func (s *CartService) GetDetails(ctx context.Context, userID uuid.UUID) (*transport.CartDetails, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &transport.CartDetails{Items: []transport.CartLine{}}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products := map[uuid.UUID]models.Product{}
	if len(ids) > 0 {
		products, err = s.Repo.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	details := &transport.CartDetails{Items: make([]transport.CartLine, 0, len(cart.Items))}
	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		line := transport.CartLine{
			ProductID:    p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price,
			PricePerKg:   p.PricePerKg,
			Stock:        p.Stock,
			StockInKg:    p.StockInKg,
			Quantity:     item.Quantity,
			QuantityInKg: item.QuantityInKg,
			LineTotal:    float64(item.Quantity)*p.Price + item.QuantityInKg*p.PricePerKg,
		}
		details.Items = append(details.Items, line)
		details.TotalAmount += line.LineTotal
	}

	return details, nil
}

// stockError reports the exact available amount in the requested unit.
func stockError(p *models.Product, unit models.UnitOfSale) error {
	if unit == models.UnitWeight {
		return fmt.Errorf("%w: only %gkg of %q available", ErrInsufficientStock, p.StockInKg, p.Title)
	}
	return fmt.Errorf("%w: only %d units of %q available", ErrInsufficientStock, p.Stock, p.Title)
}
