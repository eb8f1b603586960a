package model

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"category_id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"category_name"`
	AuditFields
}

// DefaultCategories are seeded on an empty catalog.
var DefaultCategories = []string{"Fruits", "Vegetables", "Beverages"}
