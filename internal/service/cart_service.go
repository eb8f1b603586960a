package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grocigo/internal/events"
	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/pkg/logger"
	"grocigo/pkg/metrics"

	"github.com/shopspring/decimal"
)

// Error texts are shown to clients as is.
var (
	ErrInvalidProduct    = errors.New("Invalid Product")
	ErrInsufficientStock = errors.New("Quantity not available")
	ErrEmptyCart         = errors.New("Cart is empty!")
	ErrInvalidQuantity   = errors.New("Quantity must be a positive integer")
)

// CartService keeps product stock, carts and transactions consistent.
// Units in a cart are already taken out of the product's available quantity;
// checkout turns them into a transaction and they never come back.
type CartService interface {
	AddToCart(ctx context.Context, userID string, req AddToCartInput) (*model.CartLine, error)
	RemoveFromCart(ctx context.Context, userID string, productID uint) error
	Checkout(ctx context.Context, userID string, req DeliveryInfo) (*model.Transaction, error)
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	// ListTransactions returns userID's transactions, or everyone's when all is set.
	ListTransactions(ctx context.Context, userID string, all bool) ([]model.Transaction, error)
	ListDepleted(ctx context.Context) ([]model.Product, error)
}

type AddToCartInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type RemoveFromCartInput struct {
	ProductID uint `json:"product_id" validate:"required"`
}

// DeliveryInfo is recorded on the transaction as given.
type DeliveryInfo struct {
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=30"`
	Payment string `json:"payment" validate:"max=30"`
}

type cartService struct {
	store    repository.CartStore
	notifier events.Notifier
	metrics  *metrics.CartMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewCartService wires the cart workflow. notifier, m and log may be nil.
func NewCartService(store repository.CartStore, notifier events.Notifier, m *metrics.CartMetrics, log *logger.Logger) CartService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &cartService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (s *cartService) AddToCart(ctx context.Context, userID string, req AddToCartInput) (line *model.CartLine, err error) {
	defer s.observe("add", time.Now(), &err)

	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err = validate(&req); err != nil {
		return nil, err
	}

	var product *model.Product
	err = s.store.Atomic(ctx, func(tx repository.CartTx) error {
		p, err := tx.LockProduct(req.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidProduct
		}
		if err != nil {
			return err
		}
		if p.Quantity < req.Quantity {
			return ErrInsufficientStock
		}

		left, err := tx.AdjustStock(p.ID, -req.Quantity)
		if errors.Is(err, repository.ErrStockConflict) {
			return ErrInsufficientStock
		}
		if err != nil {
			return err
		}
		p.Quantity = left

		existing, err := tx.FindCartLine(userID, p.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			existing = &model.CartLine{
				UserID:      userID,
				ProductID:   p.ID,
				ProductName: p.Name,
			}
		case err != nil:
			return err
		}
		existing.Quantity += req.Quantity
		existing.Total = p.Price.Mul(decimal.NewFromInt(int64(existing.Quantity)))
		if err := tx.SaveCartLine(existing); err != nil {
			return err
		}

		product = p
		line = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stockChanged(ctx, userID, events.ActionReserved, product)
	return line, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID string, productID uint) (err error) {
	defer s.observe("remove", time.Now(), &err)

	var product *model.Product
	err = s.store.Atomic(ctx, func(tx repository.CartTx) error {
		// Product first, then line: the same order AddToCart locks them in.
		p, err := tx.LockProduct(productID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		line, err := tx.FindCartLine(userID, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteCartLine(userID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}

		left, err := tx.AdjustStock(productID, line.Quantity)
		if err != nil {
			return fmt.Errorf("returning stock for product %d: %w", productID, err)
		}
		p.Quantity = left
		product = p
		return nil
	})
	if err != nil {
		return err
	}

	if product != nil {
		s.stockChanged(ctx, userID, events.ActionReleased, product)
	}
	return nil
}

func (s *cartService) Checkout(ctx context.Context, userID string, req DeliveryInfo) (txn *model.Transaction, err error) {
	defer s.observe("checkout", time.Now(), &err)

	if err = validate(&req); err != nil {
		return nil, err
	}

	err = s.store.Atomic(ctx, func(tx repository.CartTx) error {
		lines, err := tx.CartLines(userID)
		if err != nil {
			return err
		}
		total := sumLines(lines)
		if len(lines) == 0 || !total.IsPositive() {
			return ErrEmptyCart
		}

		txn = &model.Transaction{
			UserID:  userID,
			Amount:  total,
			Address: req.Address,
			Phone:   req.Phone,
			Payment: req.Payment,
			Date:    s.now().Format(model.DateLayout),
		}
		if err := tx.AppendTransaction(txn); err != nil {
			return err
		}
		return tx.DeleteCartLines(lines)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.Event{
		Type:   events.TypeOrderPlaced,
		UserID: userID,
		Order: &events.OrderInfo{
			ID:     txn.ID,
			UserID: txn.UserID,
			Amount: txn.Amount,
		},
		OccurredAt: s.now(),
	})
	return txn, nil
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	lines, err := s.store.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return &model.Cart{Lines: lines, Total: sumLines(lines)}, nil
}

func (s *cartService) ListTransactions(ctx context.Context, userID string, all bool) ([]model.Transaction, error) {
	var (
		txns []model.Transaction
		err  error
	)
	if all {
		txns, err = s.store.AllTransactions(ctx)
	} else {
		txns, err = s.store.Transactions(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	return txns, nil
}

func (s *cartService) ListDepleted(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.DepletedProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func sumLines(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

func (s *cartService) stockChanged(ctx context.Context, userID, action string, p *model.Product) {
	info := &events.ProductInfo{ID: p.ID, Name: p.Name, Quantity: p.Quantity}
	s.notify(ctx, events.Event{
		Type:       events.TypeStockUpdate,
		Action:     action,
		UserID:     userID,
		Product:    info,
		OccurredAt: s.now(),
	})
	if p.Depleted() {
		s.notify(ctx, events.Event{
			Type:       events.TypeStockDepleted,
			UserID:     userID,
			Product:    info,
			OccurredAt: s.now(),
		})
	}
}

func (s *cartService) notify(ctx context.Context, ev events.Event) {
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Warn(s.log.WithField(ctx, "event", ev.Type), "event notification failed", err)
	}
}

func (s *cartService) observe(op string, started time.Time, errp *error) {
	s.metrics.Observe(op, outcome(*errp), time.Since(started))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidProduct):
		return "invalid_product"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.As(err, new(*ValidationError)):
		return "invalid_request"
	default:
		return "error"
	}
}
