package main

import (
	"context"
	"fmt"

	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/internal/service"
	"grocigo/pkg/config"
	"grocigo/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type sampleProduct struct {
	name     string
	category string
	price    int64
	quantity int
}

var sampleProducts = []sampleProduct{
	{"Apple", "Fruits", 120, 50},
	{"Banana", "Fruits", 40, 100},
	{"Tomato", "Vegetables", 30, 75},
	{"Cola", "Beverages", 60, 40},
}

// seed creates default privileges, roles and the admin user if they don't exist,
// and a small sample catalog on an empty database when enabled.
func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	if err := repository.NewPrivilegeRepo(db).SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding privileges: %w", err)
	}
	roleRepo := repository.NewRoleRepo(db)
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding roles: %w", err)
	}

	users := service.NewUserService(repository.NewUserRepo(db), roleRepo)
	admin, created, err := users.EnsureAdmin(ctx, service.AdminAccount{
		UserName: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
	})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		log.Info(log.WithField(ctx, "user_id", admin.ID), "admin user created")
	}

	categories := repository.NewCategoryRepo(db)
	if err := categories.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	if !cfg.App.SeedData {
		return nil
	}

	products := repository.NewProductRepo(db)
	count, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, sp := range sampleProducts {
		category, err := categories.FindByName(ctx, sp.category)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", sp.name, err)
		}
		p := &model.Product{
			Name:       sp.name,
			CategoryID: category.ID,
			Price:      decimal.NewFromInt(sp.price),
			Quantity:   sp.quantity,
		}
		p.CreatedBy = "system"
		p.UpdatedBy = "system"
		if err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("seeding %s: %w", sp.name, err)
		}
	}
	log.Info(log.WithField(ctx, "products", len(sampleProducts)), "sample catalog seeded")
	return nil
}
