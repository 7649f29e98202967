package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"recipeadmin/utils"
)

// RateLimiter rejects requests with 429 once the shared token bucket is empty.
// rps <= 0 disables limiting.
func RateLimiter(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			c.Set(fiber.HeaderRetryAfter, "1")
			return utils.RespondWithError(c, fiber.StatusTooManyRequests, "Rate limit exceeded")
		}
		return c.Next()
	}
}
