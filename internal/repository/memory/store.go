// Package memory is an in-process implementation of repository.CartStore.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"grocigo/internal/model"
	"grocigo/internal/repository"
)

type state struct {
	products     map[uint]model.Product
	lines        []model.CartLine
	transactions []model.Transaction

	nextProductID uint
	nextLineID    uint
	nextTxnID     uint
}

func (s state) clone() state {
	products := make(map[uint]model.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	lines := make([]model.CartLine, len(s.lines))
	copy(lines, s.lines)
	return state{
		products: products,
		lines:    lines,
		// Transactions are append-only; capping the slice makes the next append copy.
		transactions:  s.transactions[:len(s.transactions):len(s.transactions)],
		nextProductID: s.nextProductID,
		nextLineID:    s.nextLineID,
		nextTxnID:     s.nextTxnID,
	}
}

// Store keeps products, carts and transactions in memory. One mutex guards
// everything; Atomic runs against a copy and swaps it in only on success.
type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

var _ repository.CartStore = (*Store)(nil)

func New() *Store {
	return &Store{
		state: state{products: map[uint]model.Product{}},
		now:   time.Now,
	}
}

// AddProduct stores p under the next free ID and returns the stored copy.
func (s *Store) AddProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextProductID++
	p.ID = s.state.nextProductID
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.state.products[p.ID] = p
	return p
}

// Product returns a copy of the product with the given ID.
func (s *Store) Product(id uint) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.products[id]
	return p, ok
}

func (s *Store) Atomic(ctx context.Context, fn func(tx repository.CartTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&tx{state: &work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return linesFor(s.state.lines, userID), nil
}

func (s *Store) Transactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Transaction
	for _, txn := range s.state.transactions {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *Store) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, len(s.state.transactions))
	copy(out, s.state.transactions)
	return out, nil
}

func (s *Store) DepletedProducts(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, p := range s.state.products {
		if p.Depleted() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func linesFor(lines []model.CartLine, userID string) []model.CartLine {
	var out []model.CartLine
	for _, l := range lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

type tx struct {
	state *state
	now   func() time.Time
}

func (t *tx) LockProduct(id uint) (*model.Product, error) {
	p, ok := t.state.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (t *tx) AdjustStock(id uint, delta int) (int, error) {
	p, ok := t.state.products[id]
	if !ok {
		return 0, repository.ErrStockConflict
	}
	if p.Quantity+delta < 0 {
		return 0, repository.ErrStockConflict
	}
	p.Quantity += delta
	p.UpdatedAt = t.now()
	t.state.products[id] = p
	return p.Quantity, nil
}

func (t *tx) indexOf(userID string, productID uint) int {
	for i, l := range t.state.lines {
		if l.UserID == userID && l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (t *tx) FindCartLine(userID string, productID uint) (*model.CartLine, error) {
	i := t.indexOf(userID, productID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	line := t.state.lines[i]
	return &line, nil
}

func (t *tx) SaveCartLine(line *model.CartLine) error {
	now := t.now()
	line.UpdatedAt = now
	if i := t.indexOf(line.UserID, line.ProductID); i >= 0 {
		line.ID = t.state.lines[i].ID
		line.CreatedAt = t.state.lines[i].CreatedAt
		t.state.lines[i] = *line
		return nil
	}
	t.state.nextLineID++
	line.ID = t.state.nextLineID
	line.CreatedAt = now
	t.state.lines = append(t.state.lines, *line)
	return nil
}

func (t *tx) DeleteCartLine(userID string, productID uint) (bool, error) {
	i := t.indexOf(userID, productID)
	if i < 0 {
		return false, nil
	}
	t.state.lines = append(t.state.lines[:i], t.state.lines[i+1:]...)
	return true, nil
}

func (t *tx) CartLines(userID string) ([]model.CartLine, error) {
	return linesFor(t.state.lines, userID), nil
}

func (t *tx) DeleteCartLines(lines []model.CartLine) error {
	drop := make(map[uint]bool, len(lines))
	for _, l := range lines {
		drop[l.ID] = true
	}
	kept := t.state.lines[:0]
	for _, l := range t.state.lines {
		if drop[l.ID] {
			delete(drop, l.ID)
			continue
		}
		kept = append(kept, l)
	}
	t.state.lines = kept
	if len(drop) > 0 {
		return repository.ErrCartConflict
	}
	return nil
}

func (t *tx) AppendTransaction(txn *model.Transaction) error {
	t.state.nextTxnID++
	txn.ID = t.state.nextTxnID
	txn.CreatedAt = t.now()
	t.state.transactions = append(t.state.transactions, *txn)
	return nil
}
