package middleware

import (
	"time"

	"trivia-api/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records every request in m. Register it before RequestLogger so the
// status it reads already reflects the error handler.
func Metrics(m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		m.Observe(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
