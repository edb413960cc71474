package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultKgPerUnit is the unit/weight conversion factor applied to products
// created without an explicit one.
const DefaultKgPerUnit = 50

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"  json:"id"`
	Title       string    `gorm:"not null"    json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	PricePerKg  float64   `json:"price_per_kg"`
	Stock       int64     `json:"stock"`
	StockInKg   float64   `json:"stock_in_kg"`
	KgPerUnit   float64   `gorm:"default:50"  json:"kg_per_unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.KgPerUnit == 0 {
		p.KgPerUnit = DefaultKgPerUnit
	}
	return nil
}

func (p *Product) SellableByUnit() bool   { return p.Price > 0 }
func (p *Product) SellableByWeight() bool { return p.PricePerKg > 0 }

// Available reports the live stock in the requested unit of sale.
func (p *Product) Available(unit UnitOfSale) float64 {
	if unit == UnitWeight {
		return p.StockInKg
	}
	return float64(p.Stock)
}

// UnitPrice is the catalog price for one unit of sale in the given mode.
func (p *Product) UnitPrice(unit UnitOfSale) float64 {
	if unit == UnitWeight {
		return p.PricePerKg
	}
	return p.Price
}

// StockDeltas computes how much to subtract from both stock views for a sold
// amount. The view the amount was not expressed in is only touched when the
// product actually tracks it, so a unit-only product never drives stock_in_kg
// negative and vice versa.
func (p *Product) StockDeltas(a LineAmount) (units int64, kg float64) {
	switch a.Unit {
	case UnitWeight:
		kg = a.Value
		if p.SellableByUnit() && p.KgPerUnit > 0 {
			units = int64(math.Floor(a.Value / p.KgPerUnit))
		}
	default:
		units = int64(a.Value)
		if p.SellableByWeight() {
			kg = a.Value * p.KgPerUnit
		}
	}
	return units, kg
}

// UnitOfSale distinguishes products transacted by discrete count from those
// transacted by weight.
type UnitOfSale string

const (
	UnitCount  UnitOfSale = "count"
	UnitWeight UnitOfSale = "weight"
)

func ParseUnit(s string) (UnitOfSale, bool) {
	switch UnitOfSale(s) {
	case UnitCount, UnitWeight:
		return UnitOfSale(s), true
	case "":
		return UnitCount, true
	}
	return "", false
}

// LineAmount is a quantity in exactly one unit of sale. Cart and order rows
// persist it as two columns, but all code paths go through this type so only
// one of the columns can ever be active.
type LineAmount struct {
	Unit  UnitOfSale
	Value float64
}

type Cart struct {
	ID          uuid.UUID  `gorm:"primaryKey"           json:"id"`
	UserID      uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount float64    `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID           uuid.UUID `gorm:"primaryKey"                            json:"id"`
	CartID       uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity     uint      `json:"quantity"`
	QuantityInKg float64   `json:"quantity_in_kg"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SetAmount overwrites the item's quantity in the amount's unit and zeroes the
// other unit's field, so switching units never leaves a stale value behind.
func (i *CartItem) SetAmount(a LineAmount) {
	if a.Unit == UnitWeight {
		i.Quantity = 0
		i.QuantityInKg = a.Value
		return
	}
	i.Quantity = uint(a.Value)
	i.QuantityInKg = 0
}

// Amount returns the single active quantity of the line item.
func (i *CartItem) Amount() LineAmount {
	if i.QuantityInKg > 0 {
		return LineAmount{Unit: UnitWeight, Value: i.QuantityInKg}
	}
	return LineAmount{Unit: UnitCount, Value: float64(i.Quantity)}
}

// CartTotal recomputes the denormalized cart total from current catalog
// prices. Cart totals are a live estimate, unlike the frozen order total.
func CartTotal(items []CartItem, products map[uuid.UUID]Product) float64 {
	var total float64
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		total += float64(item.Quantity)*p.Price + item.QuantityInKg*p.PricePerKg
	}
	return total
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// PaymentMethodCOD is the only supported payment method: payment is confirmed
// at delivery.
const PaymentMethodCOD = "cash_on_delivery"

// ShippingCost is the flat delivery fee added to every order total.
const ShippingCost = 100

type ShippingDetails struct {
	Name   string  `gorm:"not null" json:"name"`
	Email  string  `gorm:"not null" json:"email"`
	Phone  string  `gorm:"not null" json:"phone"`
	Street string  `gorm:"not null" json:"street"`
	City   string  `gorm:"not null" json:"city"`
	Cost   float64 `gorm:"not null" json:"cost"`
}

// Order is created once by the reconciler; only status, payment status and
// shipping contact fields mutate afterwards. Items and totals are frozen.
type Order struct {
	ID            uuid.UUID       `gorm:"primaryKey"       json:"id"`
	UserID        uuid.UUID       `gorm:"index;not null"   json:"user_id"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64         `gorm:"not null"         json:"total_amount"`
	Status        OrderStatus     `gorm:"not null"         json:"status"`
	PaymentMethod string          `gorm:"not null"         json:"payment_method"`
	PaymentStatus PaymentStatus   `gorm:"not null"         json:"payment_status"`
	Shipping      ShippingDetails `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Notes         string          `json:"notes"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem carries the price snapshotted at order time. UnitPrice and
// LineTotal must never be recomputed from the live catalog.
type OrderItem struct {
	ID           uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID      uuid.UUID `gorm:"index;not null" json:"order_id"`
	ProductID    uuid.UUID `gorm:"not null"       json:"product_id"`
	Quantity     uint      `json:"quantity"`
	QuantityInKg float64   `json:"quantity_in_kg"`
	UnitPrice    float64   `gorm:"not null"       json:"unit_price"`
	LineTotal    float64   `gorm:"not null"       json:"line_total"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"           json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"default:user"         json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OrderHistoryEntry is an append-only reference from a user to an order,
// written exactly once inside the order-creation transaction.
type OrderHistoryEntry struct {
	ID        uuid.UUID `gorm:"primaryKey"           json:"id"`
	UserID    uuid.UUID `gorm:"index;not null"       json:"user_id"`
	OrderID   uuid.UUID `gorm:"uniqueIndex;not null" json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *OrderHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (OrderHistoryEntry) TableName() string {
	return "order_history"
}
