package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStockConflict is returned when a stock adjustment would leave a product negative.
	ErrStockConflict = errors.New("stock adjustment would go negative")
	// ErrCartConflict is returned when cart lines changed under a unit that had read them.
	ErrCartConflict = errors.New("cart lines changed concurrently")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
