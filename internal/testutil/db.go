package testutil

import (
	"testing"

	"grocigo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:grocigo_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedProduct inserts a product (and its category when missing) and returns it.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price int64, quantity int) model.Product {
	t.Helper()
	var category model.Category
	if err := db.FirstOrCreate(&category, model.Category{Name: "Groceries"}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := model.Product{
		Name:       name,
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(price),
		Quantity:   quantity,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
