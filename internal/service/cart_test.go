package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashika-mel/storefront/internal/models"
)

func TestCartService_AddItem_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})
	ctx := context.Background()

	tests := []struct {
		name      string
		productID uuid.UUID
		amount    models.LineAmount
		wantErr   error
	}{
		{name: "nil product", productID: uuid.Nil, amount: models.LineAmount{Unit: models.UnitCount, Value: 1}, wantErr: ErrValidation},
		{name: "zero amount", productID: product.ID, amount: models.LineAmount{Unit: models.UnitCount, Value: 0}, wantErr: ErrValidation},
		{name: "fractional unit amount", productID: product.ID, amount: models.LineAmount{Unit: models.UnitCount, Value: 1.5}, wantErr: ErrValidation},
		{name: "unknown product", productID: uuid.New(), amount: models.LineAmount{Unit: models.UnitCount, Value: 1}, wantErr: ErrNotFound},
		{name: "not sold by weight", productID: product.ID, amount: models.LineAmount{Unit: models.UnitWeight, Value: 2}, wantErr: ErrValidation},
		{name: "over stock", productID: product.ID, amount: models.LineAmount{Unit: models.UnitCount, Value: 6}, wantErr: ErrInsufficientStock},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, user.ID, tt.productID, tt.amount)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCartService_AddItem_ReportsAvailableStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 2})

	_, err := svc.AddItem(context.Background(), user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 10})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "only 2 units")
}

func TestCartService_AddItem_CreatesCartLazily(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})

	cart, err := svc.AddItem(context.Background(), user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(3), cart.Items[0].Quantity)
	assert.Zero(t, cart.Items[0].QuantityInKg)
	assert.Equal(t, float64(30), cart.TotalAmount)
}

func TestCartService_AddItem_OverwritesOnRepeatAdd(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 3})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 5})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(5), cart.Items[0].Quantity, "repeat add overwrites, not accumulates")
	assert.Equal(t, float64(50), cart.TotalAmount)
}

func TestCartService_AddItem_SwitchingUnitsClearsTheOther(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{
		Title: "rice", Price: 100, PricePerKg: 2, Stock: 10, StockInKg: 500, KgPerUnit: 50,
	})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 2})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitWeight, Value: 12.5})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Zero(t, cart.Items[0].Quantity)
	assert.Equal(t, 12.5, cart.Items[0].QuantityInKg)
	assert.Equal(t, 25.0, cart.TotalAmount)
}

func TestCartService_UpdateItem(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 50})
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateItem(ctx, user.ID, product.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound, "no cart yet")

	_, err = svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 3})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, user.ID, uuid.New(), 2)
	assert.ErrorIs(t, err, ErrNotFound, "product not in cart")

	cart, err := svc.UpdateItem(ctx, user.ID, product.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(7), cart.Items[0].Quantity)
	assert.Equal(t, float64(70), cart.TotalAmount)
}

func TestCartService_RemoveItem_Idempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})
	other := seedProduct(t, r, models.Product{Title: "pears", Price: 20, Stock: 5})
	ctx := context.Background()

	_, err := svc.RemoveItem(ctx, user.ID, product.ID)
	assert.ErrorIs(t, err, ErrNotFound, "no cart at all")

	_, err = svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 2})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, user.ID, other.ID)
	require.NoError(t, err, "removing an absent product is not an error")
	assert.Len(t, cart.Items, 1)

	cart, err = svc.RemoveItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)

	_, err = svc.RemoveItem(ctx, user.ID, product.ID)
	require.NoError(t, err, "second removal still succeeds")
}

func TestCartService_Clear_KeepsCartDocument(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})
	ctx := context.Background()

	added, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 2})
	require.NoError(t, err)

	cart, err := svc.Clear(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, cart.ID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)

	reloaded, err := r.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}

func TestCartService_GetDetails_EmptyWithoutCart(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")

	details, err := svc.GetDetails(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Items)
	assert.Zero(t, details.TotalAmount)
}

func TestCartService_GetDetails_UsesLivePrices(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "alice")
	product := seedProduct(t, r, models.Product{Title: "apples", Price: 10, Stock: 5})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, product.ID, models.LineAmount{Unit: models.UnitCount, Value: 3})
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 20).Error)

	details, err := svc.GetDetails(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	assert.Equal(t, float64(60), details.TotalAmount, "cart totals follow the live catalog price")
	assert.Equal(t, "apples", details.Items[0].Title)
}
