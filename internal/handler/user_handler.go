package handler

import (
	"grocigo/internal/service"
	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	log         *logger.Logger
}

func NewUserHandler(userService service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// GetCustomers lists every customer account.
// GET /api/customers
func (h *UserHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.userService.ListCustomers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customers)
}
