package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the format of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a placed order. Rows are written once at checkout and never updated.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"transaction_id"`
	UserID    string          `gorm:"type:varchar(100);not null;index" json:"customer_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"transaction_amount"`
	Address   string          `gorm:"type:text" json:"address"`
	Phone     string          `gorm:"type:varchar(30)" json:"phone"`
	Payment   string          `gorm:"type:varchar(30)" json:"payment"`
	Date      string          `gorm:"type:varchar(10);not null" json:"transaction_date"`
	CreatedAt time.Time       `json:"created_at"`
}
