package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repo.Migrate(db))

	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         "user",
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, r *repo.GormRepo, p models.Product) *models.Product {
	t.Helper()

	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func reloadProduct(t *testing.T, r *repo.GormRepo, p *models.Product) *models.Product {
	t.Helper()

	var out models.Product
	require.NoError(t, r.DB.Where("id = ?", p.ID).First(&out).Error)
	return &out
}
