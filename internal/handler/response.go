package handler

import (
	"errors"

	"grocigo/internal/service"
	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Statuses for domain errors. The error text is the client message.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidProduct, fiber.StatusBadRequest},
	{service.ErrInsufficientStock, fiber.StatusBadRequest},
	{service.ErrEmptyCart, fiber.StatusBadRequest},
	{service.ErrInvalidQuantity, fiber.StatusBadRequest},
	{service.ErrCategoryNotFound, fiber.StatusBadRequest},
	{service.ErrCategoryExists, fiber.StatusConflict},
	{service.ErrProductNotFound, fiber.StatusBadRequest},
	{service.ErrMissingCredentials, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrUsernameTaken, fiber.StatusBadRequest},
	{service.ErrPasswordMismatch, fiber.StatusBadRequest},
	{service.ErrUserNotFound, fiber.StatusNotFound},
}

// respondError writes err as {"error": msg}. Anything unrecognised is logged and becomes a 500.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, r := range errorStatuses {
		if errors.Is(err, r.err) {
			return c.Status(r.status).JSON(fiber.Map{"error": r.err.Error()})
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Message})
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	if log != nil {
		log.Error(c.UserContext(), "request failed", err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// ErrorHandler renders errors returned from handlers and middleware.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return respondError(c, log, err)
	}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	return nil
}
