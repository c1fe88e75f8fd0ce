package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"paperhub/internal/http/middleware"
	"paperhub/internal/logging"
)

// errorPayload is the error response body. Error stays a plain string because
// the browser front end renders it directly.
type errorPayload struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "FILE_REQUIRED", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

func writeInternal(c *fiber.Ctx, err error) error {
	logging.Default().Error("request_failed", err, map[string]any{
		"request_id": middleware.GetRequestID(c),
		"method":     c.Method(),
		"path":       c.Path(),
	})
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			// Bodies over the server limit answer like a file over the upload limit.
			return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds the upload size limit")
		case fiber.StatusInternalServerError:
			return writeInternal(c, err)
		default:
			return writeError(c, status, "INTERNAL_ERROR", "Internal server error")
		}
	}
}
