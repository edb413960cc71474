package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
)

// Conditions the reconciliation transaction can fail on beyond plain
// record-not-found. The service layer maps these onto its own taxonomy.
var (
	// ErrStockConflict means a conditional stock decrement matched no row:
	// the stock no longer covers the requested amount.
	ErrStockConflict = errors.New("insufficient stock for decrement")
	// ErrCartConsumed means the cart vanished between being read and being
	// deleted, i.e. a concurrent order creation already consumed it.
	ErrCartConsumed = errors.New("cart already consumed")
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistoryEntry{},
	)
}
