package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, MigrateAuto, cfg.DB.Migrate)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "mak", cfg.Admin.Username)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.AMQP.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GROCIGO_APP_PORT", "8080")
	t.Setenv("GROCIGO_DB_DRIVER", "postgres")
	t.Setenv("GROCIGO_DB_MIGRATE", "goose")
	t.Setenv("GROCIGO_RATE_LIMIT_LOGIN_WINDOW", "30s")
	t.Setenv("GROCIGO_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.LoginWindow)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":       {"GROCIGO_DB_DRIVER": "mysql"},
		"unknown migrate mode": {"GROCIGO_DB_MIGRATE": "sometimes"},
		"goose on sqlite":      {"GROCIGO_DB_DRIVER": "sqlite", "GROCIGO_DB_MIGRATE": "goose"},
		"zero ttl":             {"GROCIGO_JWT_TTL": "0s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestResolveDSN(t *testing.T) {
	explicit := DBConfig{Driver: DriverPostgres, DSN: "postgres://u:p@db/grocigo"}
	assert.Equal(t, "postgres://u:p@db/grocigo", explicit.ResolveDSN())

	pg := DBConfig{Driver: DriverPostgres, Host: "db", Port: 5433, User: "u", Password: "p", Name: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5433 sslmode=disable", pg.ResolveDSN())

	lite := DBConfig{Driver: DriverSQLite, SQLitePath: "/tmp/shop.db"}
	assert.Contains(t, lite.ResolveDSN(), "file:/tmp/shop.db?")
	assert.Contains(t, lite.ResolveDSN(), "_txlock=immediate")
}
