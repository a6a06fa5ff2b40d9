package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestDeadline bounds the request's UserContext by d. fasthttp does not
// cancel the context when a client disconnects, so this deadline is what stops
// provider calls and ledger writes for abandoned requests. A zero d disables it.
//
// Unlike fiber's timeout middleware, errors are passed through unchanged so
// provider timeouts keep their own status code.
func RequestDeadline(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
