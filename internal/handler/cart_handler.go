package handler

import (
	"grocigo/internal/middleware"
	"grocigo/internal/model"
	"grocigo/internal/service"
	"grocigo/pkg/logger"
	"grocigo/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service service.CartService
	log     *logger.Logger
}

func NewCartHandler(s service.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{service: s, log: log}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cart)
}

// AddToCart reserves stock for the caller.
// POST /api/cart/add
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req service.AddToCartInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	line, err := h.service.AddToCart(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"ok": true, "item": line})
}

// RemoveFromCart drops a whole line and returns its stock.
// POST /api/cart/remove
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	var req service.RemoveFromCartInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validator.Message(errs)})
	}
	if err := h.service.RemoveFromCart(c.UserContext(), middleware.UserID(c), req.ProductID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Checkout places the order.
// POST /api/order
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var req service.DeliveryInfo
	if err := parseBody(c, &req); err != nil {
		return err
	}
	txn, err := h.service.Checkout(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"ok": true, "amount": txn.Amount, "transaction": txn})
}

// GetTransactions lists the caller's transactions; ?all=1 lists everyone's.
// GET /api/transactions
func (h *CartHandler) GetTransactions(c *fiber.Ctx) error {
	all := c.Query("all") == "1"
	if all && !middleware.HasPrivilege(c, model.PrivTransactionViewAll) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + model.PrivTransactionViewAll + "' privilege",
		})
	}
	txns, err := h.service.ListTransactions(c.UserContext(), middleware.UserID(c), all)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(txns)
}

func (h *CartHandler) GetDepleted(c *fiber.Ctx) error {
	products, err := h.service.ListDepleted(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}
