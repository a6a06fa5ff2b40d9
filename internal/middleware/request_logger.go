package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"speakscore/internal/logger"
	"speakscore/internal/metrics"
)

// RequestLogger logs every HTTP request and records it in the request metrics.
// Metrics are labelled by route pattern, not by raw path.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Errors are rendered here so the logged status is the one the client sees.
		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()

		route := path
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return nil
	}
}
