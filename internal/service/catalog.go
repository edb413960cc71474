package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prashika-mel/storefront/internal/events"
	"github.com/prashika-mel/storefront/internal/logging"
	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/repo"
	"github.com/prashika-mel/storefront/internal/transport"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}
	if req.Price < 0 || req.PricePerKg < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 || req.StockInKg < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	// A product must be sellable some way.
	if req.Price == 0 && req.PricePerKg == 0 {
		return nil, fmt.Errorf("%w: either price or price_per_kg required", ErrValidation)
	}

	prod := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PricePerKg:  req.PricePerKg,
		Stock:       req.Stock,
		StockInKg:   req.StockInKg,
		KgPerUnit:   req.KgPerUnit,
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created.ID.String(), map[string]any{
		"type":       "product_created",
		"product_id": created.ID,
		"title":      created.Title,
	})

	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.PricePerKg != nil && *req.PricePerKg < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if req.StockInKg != nil && *req.StockInKg < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, prod.ID.String(), map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"title":      prod.Title,
	})

	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return nil
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicProductEvents, "error", err)
	}
}
