package middleware

import (
	"context"
	"strconv"
	"time"

	"grocigo/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter counts hits for a scope inside a fixed window.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// LoginRateLimit throttles login attempts per client IP. A nil limiter turns
// it off; limiter errors let the request through.
func LoginRateLimit(limiter RateLimiter, limit int64, window time.Duration, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 || window <= 0 {
			return c.Next()
		}

		ctx := c.UserContext()
		ip := c.IP()
		allowed, count, err := limiter.FixedWindowAllow(ctx, "login:"+ip, limit, window)
		if err != nil {
			log.Warn(ctx, "login rate limiter unavailable", err)
			return c.Next()
		}
		if !allowed {
			logCtx := log.WithField(log.WithField(ctx, "ip", ip), "attempts", count)
			log.Warn(logCtx, "login rate limit exceeded", nil)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many login attempts, try again later"})
		}
		return c.Next()
	}
}
