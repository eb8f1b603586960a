package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocigo/internal/events"
	"grocigo/internal/handler"
	"grocigo/internal/middleware"
	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/internal/service"
	"grocigo/internal/ws"
	"grocigo/pkg/config"
	"grocigo/pkg/database"
	"grocigo/pkg/jwt"
	"grocigo/pkg/logger"
	"grocigo/pkg/metrics"
	"grocigo/pkg/migrate"
	"grocigo/pkg/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "grocigo-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		Output:      os.Stdout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel, cfg, log); err != nil {
		log.Error(ctx, "server exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, log *logger.Logger) error {
	// 2. Setup Database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := migrateSchema(ctx, cfg.DB, db); err != nil {
		return err
	}

	// 3. Seed default privileges, roles, admin user and catalog
	if err := seed(ctx, db, cfg, log); err != nil {
		return err
	}

	// 4. Notifications: websocket hub plus an optional broker
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	notifiers := events.Multi{wsHub}
	if cfg.AMQP.Enabled() {
		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			return fmt.Errorf("amqp dial: %w", err)
		}
		defer conn.Close()
		publisher, err := events.NewPublisher(conn, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		log.Info(ctx, "amqp publisher ready")
	}

	health := []func(context.Context) error{sqlDB.PingContext}
	var limiter middleware.RateLimiter
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		limiter = client
		health = append(health, client.Ping)
		log.Info(ctx, "redis rate limiter ready")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 5. Dependency Injection (Wiring Layers)
	store := repository.NewCartStore(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	deps := handler.Deps{
		Auth:         service.NewAuthService(userRepo, roleRepo, jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)),
		Catalog:      service.NewCatalogService(repository.NewProductRepo(db), repository.NewCategoryRepo(db), store, notifiers, log),
		Cart:         service.NewCartService(store, notifiers, metrics.NewCartMetrics(registry), log),
		Users:        service.NewUserService(userRepo, roleRepo),
		Dashboard:    service.NewDashboardService(repository.NewTransactionRepo(db)),
		Roles:        roleRepo,
		Privileges:   repository.NewPrivilegeRepo(db),
		Hub:          wsHub,
		RateLimiter:  limiter,
		LoginLimit:   cfg.RateLimit.LoginLimit,
		LoginWindow:  cfg.RateLimit.LoginWindow,
		Metrics:      registry,
		Health:       pingAll(health),
		SecureCookie: !cfg.App.IsDev(),
		Log:          log,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Grocigo API",
		ErrorHandler: handler.ErrorHandler(log),
	})

	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(log.WithRequestID(c.UserContext(), c.GetRespHeader(fiber.HeaderXRequestID)))
		return c.Next()
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	handler.SetupRoutes(app, deps)

	// 8. Graceful Shutdown
	listenErr := make(chan error, 1)
	go func() {
		log.Info(log.WithField(ctx, "port", cfg.App.Port), "listening")
		listenErr <- app.Listen(":" + cfg.App.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	log.Info(ctx, "shutting down server")
	// Stopping the hub closes open sockets so their handlers return before Fiber drains.
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info(context.Background(), "server exited")
	return nil
}

func pingAll(checks []func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func migrateSchema(ctx context.Context, cfg config.DBConfig, db *gorm.DB) error {
	switch cfg.Migrate {
	case config.MigrateAuto:
		if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	case config.MigrateGoose:
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := migrate.Run(ctx, sqlDB, "up"); err != nil {
			return err
		}
	}
	return nil
}
