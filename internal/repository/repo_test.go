package repository

import (
	"context"
	"testing"

	"grocigo/internal/model"
	"grocigo/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "Apple", 120, 50)
	testutil.SeedProduct(t, db, "Banana", 40, 0)
	require.NoError(t, db.Create(&model.Transaction{UserID: "alice", Amount: decimal.NewFromInt(1800), Date: "2026-01-02"}).Error)
	require.NoError(t, db.Create(&model.Transaction{UserID: "bob", Amount: decimal.NewFromInt(200), Date: "2026-01-02"}).Error)

	stats, err := NewTransactionRepo(db).GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.DepletedCount)
	assert.Equal(t, int64(2), stats.TotalTransactions)
	assert.True(t, decimal.NewFromInt(6000).Equal(stats.TotalValuation), stats.TotalValuation.String())
	assert.True(t, decimal.NewFromInt(2000).Equal(stats.TotalRevenue), stats.TotalRevenue.String())
}

func TestSeedDefaultsAndFindByRole(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	require.NoError(t, NewPrivilegeRepo(db).SeedDefaults(ctx))
	roles := NewRoleRepo(db)
	require.NoError(t, roles.SeedDefaults(ctx))
	// Seeding twice is a no-op.
	require.NoError(t, roles.SeedDefaults(ctx))

	customer, err := roles.FindByCode(ctx, model.RoleCustomer)
	require.NoError(t, err)
	assert.Len(t, customer.Privileges, len(model.CustomerPrivileges))

	admin, err := roles.FindByCode(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admin.Privileges, len(model.DefaultPrivileges))

	users := NewUserRepo(db)
	for _, u := range []model.User{
		{ID: "zoe", Name: "Zoe", Password: "x", RoleID: &customer.ID},
		{ID: "mak", Name: "Admin", Password: "x", RoleID: &admin.ID},
		{ID: "amy", Name: "Amy", Password: "x", RoleID: &customer.ID},
	} {
		u := u
		require.NoError(t, users.Create(ctx, &u))
	}

	customers, err := users.FindByRole(ctx, model.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "amy", customers[0].ID)
	assert.Equal(t, "zoe", customers[1].ID)

	_, err = users.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, users.UpdatePassword(ctx, "nobody", "hash"), ErrNotFound)
}

func TestCategorySeedAndProductFilter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepo(db)
	require.NoError(t, categories.SeedDefaults(ctx))
	require.NoError(t, categories.SeedDefaults(ctx))

	all, err := categories.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(model.DefaultCategories))

	products := NewProductRepo(db)
	fruits := all[0]
	require.NoError(t, products.Create(ctx, &model.Product{Name: "Apple", CategoryID: fruits.ID, Price: decimal.NewFromInt(120), Quantity: 50}))
	require.NoError(t, products.Create(ctx, &model.Product{Name: "Cola", CategoryID: all[2].ID, Price: decimal.NewFromInt(60), Quantity: 40}))

	onlyFruits, err := products.FindAll(ctx, &fruits.ID)
	require.NoError(t, err)
	require.Len(t, onlyFruits, 1)
	assert.Equal(t, "Apple", onlyFruits[0].Name)
	require.NotNil(t, onlyFruits[0].Category)
	assert.Equal(t, fruits.Name, onlyFruits[0].Category.Name)

	count, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
