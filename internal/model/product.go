package model

import "github.com/shopspring/decimal"

// Product is a stocked item. Quantity is what is still available to reserve;
// units sitting in carts are already subtracted from it.
type Product struct {
	ID         uint            `gorm:"primaryKey" json:"product_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"product_name"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Quantity   int             `gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0" json:"quantity"`
	AuditFields
}

// Depleted reports whether nothing is left to reserve.
func (p *Product) Depleted() bool {
	return p.Quantity <= 0
}
