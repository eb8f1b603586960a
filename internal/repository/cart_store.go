package repository

import (
	"context"

	"grocigo/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore is the storage the cart workflow runs on. Everything done through
// the CartTx handed to Atomic commits together or not at all.
type CartStore interface {
	Atomic(ctx context.Context, fn func(tx CartTx) error) error
	CartLines(ctx context.Context, userID string) ([]model.CartLine, error)
	Transactions(ctx context.Context, userID string) ([]model.Transaction, error)
	AllTransactions(ctx context.Context) ([]model.Transaction, error)
	DepletedProducts(ctx context.Context) ([]model.Product, error)
}

// CartTx is the view of the store inside one atomic unit.
type CartTx interface {
	// LockProduct loads a product and holds it until the unit ends.
	LockProduct(id uint) (*model.Product, error)
	// AdjustStock adds delta to the available quantity and returns the new value.
	AdjustStock(id uint, delta int) (int, error)
	// FindCartLine and CartLines hold the returned lines until the unit ends.
	FindCartLine(userID string, productID uint) (*model.CartLine, error)
	SaveCartLine(line *model.CartLine) error
	// DeleteCartLine reports whether a line was there to delete.
	DeleteCartLine(userID string, productID uint) (bool, error)
	CartLines(userID string) ([]model.CartLine, error)
	// DeleteCartLines deletes exactly the given lines, not lines added since they were read.
	DeleteCartLines(lines []model.CartLine) error
	AppendTransaction(txn *model.Transaction) error
}

type cartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) CartStore {
	return &cartStore{db: db}
}

func (s *cartStore) Atomic(ctx context.Context, fn func(tx CartTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&cartTx{db: tx, lockRows: tx.Dialector.Name() == "postgres"})
	})
}

func (s *cartStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&lines).Error
	return lines, err
}

func (s *cartStore) Transactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&txns).Error
	return txns, err
}

func (s *cartStore) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.WithContext(ctx).Order("id ASC").Find(&txns).Error
	return txns, err
}

func (s *cartStore) DepletedProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("quantity <= ?", 0).Order("id ASC").Find(&products).Error
	return products, err
}

type cartTx struct {
	db *gorm.DB
	// SQLite has no row locks; its transactions are already exclusive.
	lockRows bool
}

func (t *cartTx) locked() *gorm.DB {
	if t.lockRows {
		return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return t.db
}

func (t *cartTx) LockProduct(id uint) (*model.Product, error) {
	var product model.Product
	if err := t.locked().First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (t *cartTx) AdjustStock(id uint, delta int) (int, error) {
	q := t.db.Model(&model.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("quantity >= ?", -delta)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrStockConflict
	}

	var quantity int
	if err := t.db.Model(&model.Product{}).Select("quantity").Where("id = ?", id).Row().Scan(&quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}

func (t *cartTx) FindCartLine(userID string, productID uint) (*model.CartLine, error) {
	var line model.CartLine
	err := t.locked().Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
	if err != nil {
		return nil, translate(err)
	}
	return &line, nil
}

func (t *cartTx) SaveCartLine(line *model.CartLine) error {
	return t.db.Save(line).Error
}

func (t *cartTx) DeleteCartLine(userID string, productID uint) (bool, error) {
	res := t.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.CartLine{})
	return res.RowsAffected > 0, res.Error
}

func (t *cartTx) CartLines(userID string) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := t.locked().Where("user_id = ?", userID).Order("id ASC").Find(&lines).Error
	return lines, err
}

func (t *cartTx) DeleteCartLines(lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	res := t.db.Where("id IN ?", ids).Delete(&model.CartLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return ErrCartConflict
	}
	return nil
}

func (t *cartTx) AppendTransaction(txn *model.Transaction) error {
	return t.db.Create(txn).Error
}
