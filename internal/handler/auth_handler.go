package handler

import (
	"time"

	"grocigo/internal/middleware"
	"grocigo/internal/service"
	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService  service.AuthService
	log          *logger.Logger
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, log *logger.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, log: log, secureCookie: secureCookie}
}

// Login handles user authentication
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    response.Token,
		Expires:  response.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"ok":         true,
		"token":      response.Token,
		"expires_at": response.ExpiresAt,
		"user":       response.User,
		"privileges": response.Privileges,
	})
}

// Logout ends the caller's session everywhere.
// POST /api/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// Session reports who is logged in, or null.
// GET /api/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	var loginUser interface{}
	if token := middleware.TokenFromRequest(c); token != "" {
		if userID := h.authService.Session(c.UserContext(), token); userID != "" {
			loginUser = userID
		}
	}
	return c.JSON(fiber.Map{"loginUser": loginUser})
}

// CreateAccount registers a customer.
// POST /api/create-account
func (h *AuthHandler) CreateAccount(c *fiber.Ctx) error {
	var req service.CreateAccountInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.CreateAccount(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "userName": user.ID})
}
