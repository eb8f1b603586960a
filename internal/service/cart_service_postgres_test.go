//go:build postgres
// +build postgres

// Row locking only matters on Postgres. Run with:
//
//	GROCIGO_TEST_POSTGRES_DSN="host=localhost user=postgres dbname=grocigo_test sslmode=disable" \
//	  go test -tags postgres ./internal/service/...
package service

import (
	"os"
	"testing"

	"grocigo/internal/model"
	"grocigo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPostgresFixture(t *testing.T) (cartFixture, string) {
	t.Helper()
	dsn := os.Getenv("GROCIGO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GROCIGO_TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	user := "pg_" + uuid.NewString()[:8]
	var productIDs []uint
	t.Cleanup(func() {
		db.Where("user_id = ?", user).Delete(&model.CartLine{})
		db.Where("user_id = ?", user).Delete(&model.Transaction{})
		if len(productIDs) > 0 {
			db.Delete(&model.Product{}, productIDs)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var category model.Category
	require.NoError(t, db.FirstOrCreate(&category, model.Category{Name: "Groceries"}).Error)

	return cartFixture{
		store: repository.NewCartStore(db),
		seed: func(name string, price int64, qty int) model.Product {
			p := model.Product{Name: name + " " + user, CategoryID: category.ID, Price: decimal.NewFromInt(price), Quantity: qty}
			require.NoError(t, db.Create(&p).Error)
			productIDs = append(productIDs, p.ID)
			return p
		},
		quantity: func(id uint) int {
			var p model.Product
			require.NoError(t, db.First(&p, id).Error)
			return p.Quantity
		},
	}, user
}

func TestPostgresConcurrentRemovesReturnStockOnce(t *testing.T) {
	for i := 0; i < 20; i++ {
		f, user := newPostgresFixture(t)
		removeRace(t, f, user)
	}
}

func TestPostgresCheckoutRacingAddConservesStock(t *testing.T) {
	for i := 0; i < 20; i++ {
		f, user := newPostgresFixture(t)
		checkoutAddRace(t, f, user)
	}
}
