package repository

import (
	"context"
	"errors"
	"testing"

	"grocigo/internal/model"
	"grocigo/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStoreAdjustStock(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewCartStore(db)
	apple := testutil.SeedProduct(t, db, "Apple", 120, 5)

	err := store.Atomic(ctx, func(tx CartTx) error {
		left, err := tx.AdjustStock(apple.ID, -5)
		assert.Equal(t, 0, left)
		return err
	})
	require.NoError(t, err)

	err = store.Atomic(ctx, func(tx CartTx) error {
		_, err := tx.AdjustStock(apple.ID, -1)
		return err
	})
	assert.ErrorIs(t, err, ErrStockConflict)

	depleted, err := store.DepletedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, depleted, 1)
	assert.Equal(t, "Apple", depleted[0].Name)
}

func TestCartStoreRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewCartStore(db)
	apple := testutil.SeedProduct(t, db, "Apple", 120, 50)

	boom := errors.New("boom")
	err := store.Atomic(ctx, func(tx CartTx) error {
		if _, err := tx.AdjustStock(apple.ID, -10); err != nil {
			return err
		}
		if err := tx.SaveCartLine(&model.CartLine{
			UserID:      "alice",
			ProductID:   apple.ID,
			ProductName: apple.Name,
			Quantity:    10,
			Total:       decimal.NewFromInt(1200),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, apple.ID).Error)
	assert.Equal(t, 50, reloaded.Quantity)

	lines, err := store.CartLines(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartStoreLinesAndTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewCartStore(db)
	apple := testutil.SeedProduct(t, db, "Apple", 120, 50)

	require.NoError(t, store.Atomic(ctx, func(tx CartTx) error {
		_, err := tx.FindCartLine("alice", apple.ID)
		require.ErrorIs(t, err, ErrNotFound)

		line := &model.CartLine{UserID: "alice", ProductID: apple.ID, ProductName: apple.Name, Quantity: 2, Total: decimal.NewFromInt(240)}
		require.NoError(t, tx.SaveCartLine(line))

		found, err := tx.FindCartLine("alice", apple.ID)
		require.NoError(t, err)
		found.Quantity = 3
		found.Total = decimal.NewFromInt(360)
		return tx.SaveCartLine(found)
	}))

	lines, err := store.CartLines(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(360).Equal(lines[0].Total))

	require.NoError(t, store.Atomic(ctx, func(tx CartTx) error {
		if err := tx.AppendTransaction(&model.Transaction{UserID: "alice", Amount: decimal.NewFromInt(360), Date: "2026-01-02"}); err != nil {
			return err
		}
		if err := tx.AppendTransaction(&model.Transaction{UserID: "bob", Amount: decimal.NewFromInt(1), Date: "2026-01-02"}); err != nil {
			return err
		}
		read, err := tx.CartLines("alice")
		if err != nil {
			return err
		}
		return tx.DeleteCartLines(read)
	}))

	lines, err = store.CartLines(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, lines)

	mine, err := store.Transactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, decimal.NewFromInt(360).Equal(mine[0].Amount))

	all, err := store.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)
}

func TestDeleteCartLinesDetectsVanishedLines(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewCartStore(db)
	apple := testutil.SeedProduct(t, db, "Apple", 120, 50)

	var line model.CartLine
	require.NoError(t, store.Atomic(ctx, func(tx CartTx) error {
		line = model.CartLine{UserID: "alice", ProductID: apple.ID, ProductName: apple.Name, Quantity: 1, Total: decimal.NewFromInt(120)}
		return tx.SaveCartLine(&line)
	}))

	err := store.Atomic(ctx, func(tx CartTx) error {
		deleted, err := tx.DeleteCartLine("alice", apple.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		deleted, err = tx.DeleteCartLine("alice", apple.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		return tx.DeleteCartLines([]model.CartLine{line})
	})
	assert.ErrorIs(t, err, ErrCartConflict)

	// The failed unit rolled back, so the line is still there.
	lines, err := store.CartLines(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestLockProductMissing(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewCartStore(db)

	err := store.Atomic(context.Background(), func(tx CartTx) error {
		_, err := tx.LockProduct(999)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
