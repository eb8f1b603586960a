package middleware

import (
	"context"
	"strings"

	"grocigo/pkg/jwt"
	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "gg_session"

const (
	LocalUserID         = "user_id"
	LocalUserName       = "user_name"
	LocalUserPrivileges = "user_privileges"
)

// Authenticator resolves a token into the claims of a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// TokenFromRequest reads the token from "Authorization: Bearer <token>",
// falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(SessionCookie)
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(auth Authenticator, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		claims, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session"})
		}

		// Set user info in context for downstream handlers
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalUserPrivileges, claims.Privileges)
		if log != nil {
			c.SetUserContext(log.WithUserID(c.UserContext(), claims.UserID))
		}

		return c.Next()
	}
}

// HasPrivilege reports whether the authenticated user holds code.
func HasPrivilege(c *fiber.Ctx, code string) bool {
	privileges, _ := c.Locals(LocalUserPrivileges).([]string)
	for _, p := range privileges {
		if p == code {
			return true
		}
	}
	return false
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalUserPrivileges).([]string); !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}
		if HasPrivilege(c, requiredPrivilege) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
