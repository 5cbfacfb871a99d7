package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campusdocs/internal/http/middleware"
	"campusdocs/internal/service"
)

// Error codes exposed to clients. Statuses follow the portal's taxonomy:
// validation 400, auth 401, unknown file 404, upstream failures 500.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeUpstream     = "UPSTREAM_ERROR"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes the standardized JSON error envelope without leaking
// internal details.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError maps service-layer errors onto the taxonomy. Validation
// messages are safe to echo; upstream failures are surfaced as a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, CodeNotFound, "file not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, CodeUpstream, "upstream failure")
	}
}

// ErrorHandler returns the global Fiber error handler. Unauthorized errors
// raised by the auth gate keep their taxonomy code.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, CodeValidation, "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, CodeUnauthorized, "unauthorized")
		case fiber.StatusNotFound:
			return writeError(c, status, CodeNotFound, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, CodeUpstream, "internal server error")
		}
	}
}
