package middleware

import (
	"errors"
	"net/http"

	"trivia-api/internal/domain"
	"trivia-api/internal/dto"
	"trivia-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusMessages are the client-facing messages for each handled status.
// Details stay in the logs.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Not found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusUnprocessableEntity: "Unprocessable",
	http.StatusInternalServerError: "Internal Server Error",
}

// ErrorHandler is the fiber error handler. Every error leaves as
// {success:false, error:<status>, message}.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)

		var (
			status  int
			message string
		)

		var domainErr *domain.DomainError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &domainErr):
			status = StatusForCode(domainErr.Code)
			fields := []zap.Field{
				zap.String("code", string(domainErr.Code)),
				zap.String("detail", domainErr.Message),
				zap.Int("status", status),
			}
			if domainErr.Cause != nil {
				fields = append(fields, zap.Error(domainErr.Cause))
			}
			if len(domainErr.Context) > 0 {
				fields = append(fields, zap.Any("context", domainErr.Context))
			}
			if status >= http.StatusInternalServerError {
				log.Error("Domain error occurred", fields...)
			} else {
				log.Warn("Domain error occurred", fields...)
			}

		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
			log.Warn("Fiber error occurred", zap.Int("status", status), zap.String("detail", fiberErr.Message))

		default:
			status = http.StatusInternalServerError
			log.Error("Unknown error occurred", zap.Error(err))
		}

		if m, ok := statusMessages[status]; ok {
			message = m
		}
		if message == "" {
			message = http.StatusText(status)
		}

		return c.Status(status).JSON(dto.ErrorResponse{
			Success: false,
			Error:   status,
			Message: message,
		})
	}
}

// StatusForCode maps domain error codes to HTTP status codes
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeBadRequest:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
