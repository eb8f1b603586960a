package model

import "time"

// AuditFields tracks when and by whom a row was created or last changed.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(100)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Privilege{},
		&Role{},
		&User{},
		&Category{},
		&Product{},
		&CartLine{},
		&Transaction{},
	}
}
