package handler

import (
	"strconv"

	"grocigo/internal/middleware"
	"grocigo/internal/service"
	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(s service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: s, log: log}
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CreateCategoryInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "category": category})
}

// GetProducts lists products, filtered by ?category_id= when present.
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		v := uint(id)
		categoryID = &v
	}

	products, err := h.service.ListProducts(c.UserContext(), categoryID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "product": product})
}

// Restock adds stock to an existing product.
// POST /api/stock/update
func (h *CatalogHandler) Restock(c *fiber.Ctx) error {
	var req service.RestockInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Restock(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"ok": true, "product": product})
}
