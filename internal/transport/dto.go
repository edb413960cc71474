package transport

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PricePerKg  float64 `json:"price_per_kg"`
	Stock       int64   `json:"stock"`
	StockInKg   float64 `json:"stock_in_kg"`
	KgPerUnit   float64 `json:"kg_per_unit"`
}

type PatchProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	PricePerKg  *float64 `json:"price_per_kg"`
	Stock       *int64   `json:"stock"`
	StockInKg   *float64 `json:"stock_in_kg"`
	KgPerUnit   *float64 `json:"kg_per_unit"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Amount    float64   `json:"amount"`
	Unit      string    `json:"unit"`
}

type UpdateCartItemRequest struct {
	Amount float64 `json:"amount"`
}

// CartLine is one cart entry joined with a live product summary.
type CartLine struct {
	ProductID    uuid.UUID `json:"product_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	PricePerKg   float64   `json:"price_per_kg"`
	Stock        int64     `json:"stock"`
	StockInKg    float64   `json:"stock_in_kg"`
	Quantity     uint      `json:"quantity"`
	QuantityInKg float64   `json:"quantity_in_kg"`
	LineTotal    float64   `json:"line_total"`
}

type CartDetails struct {
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"total_amount"`
}

type CreateOrderRequest struct {
	City   string `json:"city"`
	Phone  string `json:"phone"`
	Street string `json:"street"`
	Notes  string `json:"notes"`
}

type CreateOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

type UpdateShippingRequest struct {
	Phone  string `json:"phone"`
	Street string `json:"street"`
	City   string `json:"city"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AdminOrderSummary is the compact shape of the all-orders listing.
type AdminOrderSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Date          time.Time `json:"date"`
	TotalPrice    float64   `json:"total_price"`
	PaymentStatus string    `json:"payment_status"`
	Status        string    `json:"status"`
	ProductCount  int       `json:"product_count"`
}
