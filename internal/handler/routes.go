package handler

import (
	"context"
	"time"

	"grocigo/internal/middleware"
	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/internal/service"
	"grocigo/internal/ws"
	"grocigo/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer needs. Roles, Privileges, Hub,
// RateLimiter, Metrics and Health are optional.
type Deps struct {
	Auth       service.AuthService
	Catalog    service.CatalogService
	Cart       service.CartService
	Users      service.UserService
	Dashboard  service.DashboardService
	Roles      repository.RoleRepository
	Privileges repository.PrivilegeRepository

	Hub          *ws.Hub
	RateLimiter  middleware.RateLimiter
	LoginLimit   int64
	LoginWindow  time.Duration
	Metrics      prometheus.Gatherer
	Health       func(ctx context.Context) error
	SecureCookie bool
	Log          *logger.Logger
}

// SetupRoutes registers the API, health, metrics and websocket routes on app.
func SetupRoutes(app *fiber.App, d Deps) {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	authHandler := NewAuthHandler(d.Auth, log, d.SecureCookie)
	catalogHandler := NewCatalogHandler(d.Catalog, log)
	cartHandler := NewCartHandler(d.Cart, log)
	userHandler := NewUserHandler(d.Users, log)
	dashHandler := NewDashboardHandler(d.Dashboard, log)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if d.Health != nil {
			if err := d.Health(c.UserContext()); err != nil {
				log.Warn(c.UserContext(), "health check failed", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/login", middleware.LoginRateLimit(d.RateLimiter, d.LoginLimit, d.LoginWindow, log), authHandler.Login)
	api.Get("/session", authHandler.Session)
	api.Post("/create-account", authHandler.CreateAccount)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Auth, log))
	protected.Post("/logout", authHandler.Logout)

	protected.Get("/categories", middleware.RequirePrivilege(model.PrivCatalogView), catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryCreate), catalogHandler.CreateCategory)
	protected.Get("/products", middleware.RequirePrivilege(model.PrivCatalogView), catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), catalogHandler.CreateProduct)
	protected.Post("/stock/update", middleware.RequirePrivilege(model.PrivStockUpdate), catalogHandler.Restock)

	protected.Get("/cart", middleware.RequirePrivilege(model.PrivCartManage), cartHandler.GetCart)
	protected.Post("/cart/add", middleware.RequirePrivilege(model.PrivCartManage), cartHandler.AddToCart)
	protected.Post("/cart/remove", middleware.RequirePrivilege(model.PrivCartManage), cartHandler.RemoveFromCart)
	protected.Post("/order", middleware.RequirePrivilege(model.PrivOrderPlace), cartHandler.Checkout)
	protected.Get("/transactions", middleware.RequirePrivilege(model.PrivTransactionView), cartHandler.GetTransactions)

	protected.Get("/customers", middleware.RequirePrivilege(model.PrivCustomerView), userHandler.GetCustomers)
	protected.Get("/depleted", middleware.RequirePrivilege(model.PrivDepletedView), cartHandler.GetDepleted)
	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)
	if d.Roles != nil && d.Privileges != nil {
		roleHandler := NewRoleHandler(d.Roles, d.Privileges)
		protected.Get("/roles", middleware.RequirePrivilege(model.PrivCustomerView), roleHandler.GetRoles)
		protected.Get("/privileges", middleware.RequirePrivilege(model.PrivCustomerView), roleHandler.GetPrivileges)
	}

	if d.Hub != nil {
		registerWebsocket(app, d.Hub)
	}
}

func registerWebsocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Add(c) {
			return
		}
		defer hub.Remove(c)

		for {
			// Clients only listen; reads detect disconnects.
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
