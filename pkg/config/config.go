package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GROCIGO"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MigrateAuto  = "auto"
	MigrateGoose = "goose"
	MigrateNone  = "none"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AMQP      AMQPConfig
}

// Load reads the configuration from the environment. Call godotenv.Load first
// if a .env file should be honoured.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	switch c.DB.Migrate {
	case MigrateAuto, MigrateGoose, MigrateNone:
	default:
		return fmt.Errorf("unsupported migrate mode %q", c.DB.Migrate)
	}
	if c.DB.Migrate == MigrateGoose && c.DB.Driver != DriverPostgres {
		return fmt.Errorf("goose migrations require the postgres driver")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"GROCIGO_APP_ENV" default:"dev"`
	Port      string `envconfig:"GROCIGO_APP_PORT" default:"3000"`
	LogLevel  string `envconfig:"GROCIGO_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"GROCIGO_LOG_FORMAT" default:"json"`
	SeedData  bool   `envconfig:"GROCIGO_SEED_DATA" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

type DBConfig struct {
	Driver     string `envconfig:"GROCIGO_DB_DRIVER" default:"sqlite"`
	DSN        string `envconfig:"GROCIGO_DB_DSN"`
	SQLitePath string `envconfig:"GROCIGO_DB_SQLITE_PATH" default:"grocigo.db"`
	Migrate    string `envconfig:"GROCIGO_DB_MIGRATE" default:"auto"`

	Host     string `envconfig:"GROCIGO_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"GROCIGO_DB_PORT" default:"5432"`
	User     string `envconfig:"GROCIGO_DB_USER" default:"postgres"`
	Password string `envconfig:"GROCIGO_DB_PASSWORD"`
	Name     string `envconfig:"GROCIGO_DB_NAME" default:"grocigo"`
	SSLMode  string `envconfig:"GROCIGO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROCIGO_DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"GROCIGO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROCIGO_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// ResolveDSN returns the explicit DSN when set, otherwise one assembled from
// the individual connection settings for the configured driver.
func (d DBConfig) ResolveDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", d.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret string        `envconfig:"GROCIGO_JWT_SECRET" default:"your-super-secret-key-change-in-production"`
	TTL    time.Duration `envconfig:"GROCIGO_JWT_TTL" default:"24h"`
}

// AdminConfig describes the distinguished admin account seeded at startup.
type AdminConfig struct {
	Username string `envconfig:"GROCIGO_ADMIN_USERNAME" default:"mak"`
	Password string `envconfig:"GROCIGO_ADMIN_PASSWORD" default:"mak123"`
	Name     string `envconfig:"GROCIGO_ADMIN_NAME" default:"Admin"`
	Email    string `envconfig:"GROCIGO_ADMIN_EMAIL" default:"admin@grocigo.local"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCIGO_REDIS_URL"`
	PoolSize     int           `envconfig:"GROCIGO_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"GROCIGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCIGO_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GROCIGO_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type RateLimitConfig struct {
	LoginLimit  int64         `envconfig:"GROCIGO_RATE_LIMIT_LOGIN_LIMIT" default:"10"`
	LoginWindow time.Duration `envconfig:"GROCIGO_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
}

type AMQPConfig struct {
	URL      string `envconfig:"GROCIGO_AMQP_URL"`
	Exchange string `envconfig:"GROCIGO_AMQP_EXCHANGE" default:"grocigo.events"`
}

func (a AMQPConfig) Enabled() bool {
	return a.URL != ""
}
