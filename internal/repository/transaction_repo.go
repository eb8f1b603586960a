package repository

import (
	"context"

	"grocigo/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository serves the admin reports over products and placed orders.
type TransactionRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// DashboardStats adalah ringkasan untuk dashboard admin
type DashboardStats struct {
	TotalProducts     int64           `json:"total_products"`
	DepletedCount     int64           `json:"depleted_count"`
	TotalValuation    decimal.Decimal `json:"total_valuation"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("quantity <= ?", 0).Count(&stats.DepletedCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	// SUM comes back as text, float or int depending on the driver; decimal scans all of them.
	if err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Row().Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}
	if err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&stats.TotalRevenue); err != nil {
		return nil, err
	}

	return &stats, nil
}
