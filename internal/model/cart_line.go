package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is the quantity of one product reserved by one user. Total is
// snapshotted from the unit price at the last reservation.
type CartLine struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	UserID      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_user_product" json:"customer_id"`
	ProductID   uint            `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Cart is a user's reserved lines and their summed total.
type Cart struct {
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}
