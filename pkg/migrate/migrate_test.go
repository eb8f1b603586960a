package migrate

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, Dir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	data, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"-- +goose Up",
		"-- +goose Down",
		"CREATE TABLE IF NOT EXISTS products",
		"CONSTRAINT chk_products_quantity CHECK (quantity >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_user_product ON cart_lines (user_id, product_id)",
		"CREATE TABLE IF NOT EXISTS transactions",
		"DROP TABLE IF EXISTS cart_lines",
	}
	for _, sub := range checks {
		assert.True(t, strings.Contains(content, sub), "missing %q", sub)
	}
}

func TestRunRequiresDB(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "up"))
}
