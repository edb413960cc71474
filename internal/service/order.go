package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/events"
	"github.com/prashika-mel/storefront/internal/logging"
	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/repo"
	"github.com/prashika-mel/storefront/internal/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

// CreateOrder reconciles the user's cart into an immutable order. Validation
// (steps 1-4) reads only; every mutation runs inside one repo transaction, so
// a failure anywhere leaves stock, cart and history untouched. Concurrent
// calls against the same cart or stock lose cleanly: conditional decrements
// surface as ErrConflict, a cart consumed by the winner as ErrEmptyCart.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Street) == "" {
		return nil, fmt.Errorf("%w: shipping details are missing", ErrValidation)
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart is empty", ErrEmptyCart)
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrEmptyCart)
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var totalAmount float64
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	decs := make([]repo.StockDecrement, 0, len(cart.Items))

	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s no longer exists", ErrNotFound, item.ProductID)
		}

		amount := item.Amount()
		if product.Available(amount.Unit) < amount.Value {
			return nil, stockError(&product, amount.Unit)
		}

		// Price is snapshotted here and never recomputed from the catalog.
		unitPrice := product.UnitPrice(amount.Unit)
		lineTotal := unitPrice * amount.Value
		totalAmount += lineTotal

		orderItems = append(orderItems, models.OrderItem{
			ProductID:    product.ID,
			Quantity:     item.Quantity,
			QuantityInKg: item.QuantityInKg,
			UnitPrice:    unitPrice,
			LineTotal:    lineTotal,
		})

		units, kg := product.StockDeltas(amount)
		decs = append(decs, repo.StockDecrement{ProductID: product.ID, Units: units, Kg: kg})
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, err
	}

	order := &models.Order{
		UserID:        userID,
		Items:         orderItems,
		TotalAmount:   totalAmount + models.ShippingCost,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusUnpaid,
		Shipping: models.ShippingDetails{
			Name:   user.Username,
			Email:  user.Email,
			Phone:  req.Phone,
			Street: req.Street,
			City:   req.City,
			Cost:   models.ShippingCost,
		},
		Notes: req.Notes,
	}

	if err := s.Repo.ReconcileOrder(ctx, order, cart.ID, decs); err != nil {
		switch {
		case errors.Is(err, repo.ErrStockConflict):
			return nil, fmt.Errorf("%w: stock changed while creating the order", ErrConflict)
		case errors.Is(err, repo.ErrCartConsumed):
			return nil, fmt.Errorf("%w: cart is empty", ErrEmptyCart)
		}
		return nil, err
	}

	s.publish(ctx, order.ID.String(), map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount,
	})

	return order, nil
}

// UpdateStatus sets the order status and couples payment to it: delivery
// confirms a cash-on-delivery payment, everything else leaves it unpaid.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order does not exist", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	order.Status = status
	if status == models.OrderStatusDelivered {
		order.PaymentStatus = models.PaymentStatusPaid
		now := time.Now().UTC()
		order.DeliveredAt = &now
	} else {
		order.PaymentStatus = models.PaymentStatusUnpaid
	}

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order.ID.String(), map[string]any{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"status":   order.Status,
	})

	return order, nil
}

// UpdateShipping changes the contact fields of an order. The ownership check
// doubles as the authorization check: someone else's order reads as missing.
func (s *OrderService) UpdateShipping(ctx context.Context, orderID, userID uuid.UUID, req transport.UpdateShippingRequest) (*models.Order, error) {
	order, err := s.Repo.GetOrderForUser(ctx, orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order does not exist", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	order.Shipping.Phone = req.Phone
	order.Shipping.Street = req.Street
	order.Shipping.City = req.City

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder returns an order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order does not exist", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != actorID {
		return nil, fmt.Errorf("%w: order does not exist", ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID)
}

// ListAllOrders returns the compact admin listing.
func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []transport.AdminOrderSummary, error) {
	total, orders, err := s.Repo.ListOrders(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}

	out := make([]transport.AdminOrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, transport.AdminOrderSummary{
			ID:            o.ID,
			Name:          o.Shipping.Name,
			Address:       o.Shipping.City + ", " + o.Shipping.Street,
			Date:          o.CreatedAt,
			TotalPrice:    o.TotalAmount,
			PaymentStatus: string(o.PaymentStatus),
			Status:        string(o.Status),
			ProductCount:  len(o.Items),
		})
	}
	return total, out, nil
}

// DeleteOrder removes an order without restocking: a deleted order is a
// bookkeeping removal of a completed transaction, not a reversal.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.Repo.DeleteOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order does not exist", ErrNotFound)
	}
	return err
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicOrderEvents, "error", err)
	}
}
