// Package events carries notifications about committed stock and order changes.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeStockUpdate   = "stock_update"
	TypeOrderPlaced   = "order_placed"
	TypeStockDepleted = "stock_depleted"
)

const (
	ActionReserved = "reserved"
	ActionReleased = "released"
	ActionRestock  = "restocked"
	ActionCreated  = "product_created"
)

type ProductInfo struct {
	ID       uint   `json:"product_id"`
	Name     string `json:"product_name"`
	Quantity int    `json:"quantity"`
}

type OrderInfo struct {
	ID     uint            `json:"transaction_id"`
	UserID string          `json:"customer_id"`
	Amount decimal.Decimal `json:"transaction_amount"`
}

// Event is one notification. Exactly one of Product or Order is set.
type Event struct {
	Type       string       `json:"type"`
	Action     string       `json:"action,omitempty"`
	UserID     string       `json:"user_id,omitempty"`
	Product    *ProductInfo `json:"product,omitempty"`
	Order      *OrderInfo   `json:"order,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Notifier delivers events to one sink. Callers treat errors as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
