package middleware

import (
	"time"

	"trivia-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RequestIDKey is the fiber Locals key the requestid middleware stores the id under
const RequestIDKey = "requestid"

// RequestID returns the id assigned to the current request, or "" when none was set.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRequestID returns the requestid middleware using generator for new ids.
// An X-Request-ID sent by the client is kept.
func NewRequestID(generator func() string) fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  generator,
		ContextKey: RequestIDKey,
	})
}

// RequestLogger logs one line per request. It must run inside the error
// handler chain so the status reflects handled errors.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()
		if err != nil {
			// let the app error handler write the response before reading the status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Get().Info("HTTP Request",
			zap.String("request_id", RequestID(c)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		)

		return nil
	}
}
