package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want UnitOfSale
		ok   bool
	}{
		{in: "count", want: UnitCount, ok: true},
		{in: "weight", want: UnitWeight, ok: true},
		{in: "", want: UnitCount, ok: true},
		{in: "kg", ok: false},
		{in: "COUNT", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseUnit(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestProduct_StockDeltas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		product   Product
		amount    LineAmount
		wantUnits int64
		wantKg    float64
	}{
		{
			name:      "unit sale on unit-only product",
			product:   Product{Price: 10, KgPerUnit: 50},
			amount:    LineAmount{Unit: UnitCount, Value: 3},
			wantUnits: 3,
			wantKg:    0,
		},
		{
			name:      "unit sale on dual-mode product drains weight too",
			product:   Product{Price: 10, PricePerKg: 2, KgPerUnit: 50},
			amount:    LineAmount{Unit: UnitCount, Value: 3},
			wantUnits: 3,
			wantKg:    150,
		},
		{
			name:      "weight sale on weight-only product",
			product:   Product{PricePerKg: 2, KgPerUnit: 50},
			amount:    LineAmount{Unit: UnitWeight, Value: 120},
			wantUnits: 0,
			wantKg:    120,
		},
		{
			name:      "weight sale on dual-mode product drains whole units",
			product:   Product{Price: 100, PricePerKg: 2, KgPerUnit: 50},
			amount:    LineAmount{Unit: UnitWeight, Value: 120},
			wantUnits: 2,
			wantKg:    120,
		},
		{
			name:      "weight sale below one unit",
			product:   Product{Price: 100, PricePerKg: 2, KgPerUnit: 50},
			amount:    LineAmount{Unit: UnitWeight, Value: 49},
			wantUnits: 0,
			wantKg:    49,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			units, kg := tt.product.StockDeltas(tt.amount)
			assert.Equal(t, tt.wantUnits, units)
			assert.Equal(t, tt.wantKg, kg)
		})
	}
}

func TestProduct_AvailableAndUnitPrice(t *testing.T) {
	t.Parallel()

	p := Product{Price: 10, PricePerKg: 2, Stock: 5, StockInKg: 250}

	assert.Equal(t, float64(5), p.Available(UnitCount))
	assert.Equal(t, float64(250), p.Available(UnitWeight))
	assert.Equal(t, float64(10), p.UnitPrice(UnitCount))
	assert.Equal(t, float64(2), p.UnitPrice(UnitWeight))
	assert.True(t, p.SellableByUnit())
	assert.True(t, p.SellableByWeight())

	unitOnly := Product{Price: 10}
	assert.False(t, unitOnly.SellableByWeight())
}

func TestCartItem_SetAmountClearsOtherUnit(t *testing.T) {
	t.Parallel()

	var item CartItem

	item.SetAmount(LineAmount{Unit: UnitCount, Value: 3})
	assert.Equal(t, uint(3), item.Quantity)
	assert.Zero(t, item.QuantityInKg)
	assert.Equal(t, LineAmount{Unit: UnitCount, Value: 3}, item.Amount())

	item.SetAmount(LineAmount{Unit: UnitWeight, Value: 12.5})
	assert.Zero(t, item.Quantity)
	assert.Equal(t, 12.5, item.QuantityInKg)
	assert.Equal(t, LineAmount{Unit: UnitWeight, Value: 12.5}, item.Amount())
}

func TestCartTotal(t *testing.T) {
	t.Parallel()

	unitProduct := Product{ID: uuid.New(), Price: 10}
	weightProduct := Product{ID: uuid.New(), PricePerKg: 2}
	gone := uuid.New()

	products := map[uuid.UUID]Product{
		unitProduct.ID:   unitProduct,
		weightProduct.ID: weightProduct,
	}
	items := []CartItem{
		{ProductID: unitProduct.ID, Quantity: 3},
		{ProductID: weightProduct.ID, QuantityInKg: 12.5},
		{ProductID: gone, Quantity: 100},
	}

	assert.Equal(t, float64(3*10)+12.5*2, CartTotal(items, products), "vanished products are skipped")
}

func TestOrderStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, OrderStatus("lost").Valid())
	assert.False(t, OrderStatus("").Valid())
}
