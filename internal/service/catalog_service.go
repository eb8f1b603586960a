package service

import (
	"context"
	"errors"
	"time"

	"grocigo/internal/events"
	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/pkg/logger"

	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound = errors.New("Specified Category does not exist!")
	ErrCategoryExists   = errors.New("Category already exists")
	ErrProductNotFound  = errors.New("Invalid Product ID!")
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryInput, actorID string) (*model.Category, error)
	ListProducts(ctx context.Context, categoryID *uint) ([]model.Product, error)
	CreateProduct(ctx context.Context, req CreateProductInput, actorID string) (*model.Product, error)
	Restock(ctx context.Context, req RestockInput, actorID string) (*model.Product, error)
}

type CreateCategoryInput struct {
	Name string `json:"category_name" validate:"required,max=100"`
}

type CreateProductInput struct {
	Name       string          `json:"product_name" validate:"required,max=255"`
	CategoryID uint            `json:"category_id" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
}

type RestockInput struct {
	ProductID   uint `json:"product_id" validate:"required"`
	AddQuantity int  `json:"add_quantity" validate:"required,gt=0"`
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	store        repository.CartStore
	notifier     events.Notifier
	log          *logger.Logger
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, store repository.CartStore, notifier events.Notifier, log *logger.Logger) CatalogService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		store:        store,
		notifier:     notifier,
		log:          log,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, req CreateCategoryInput, actorID string) (*model.Category, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	_, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err == nil {
		return nil, ErrCategoryExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	category := &model.Category{Name: req.Name}
	category.CreatedBy = actorID
	category.UpdatedBy = actorID
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID *uint) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, categoryID)
}

func (s *catalogService) CreateProduct(ctx context.Context, req CreateProductInput, actorID string) (*model.Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	product := &model.Product{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      req.Price.Round(2),
		Quantity:   req.Quantity,
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.stockChanged(ctx, actorID, events.ActionCreated, product)
	return product, nil
}

// Restock adds to a product's available quantity under the product row lock.
func (s *catalogService) Restock(ctx context.Context, req RestockInput, actorID string) (*model.Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.store.Atomic(ctx, func(tx repository.CartTx) error {
		p, err := tx.LockProduct(req.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		left, err := tx.AdjustStock(p.ID, req.AddQuantity)
		if err != nil {
			return err
		}
		p.Quantity = left
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithUserID(ctx, actorID), "product restocked")
	s.stockChanged(ctx, actorID, events.ActionRestock, product)
	return product, nil
}

func (s *catalogService) stockChanged(ctx context.Context, actorID, action string, p *model.Product) {
	ev := events.Event{
		Type:       events.TypeStockUpdate,
		Action:     action,
		UserID:     actorID,
		Product:    &events.ProductInfo{ID: p.ID, Name: p.Name, Quantity: p.Quantity},
		OccurredAt: time.Now(),
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Warn(ctx, "event notification failed", err)
	}
}
