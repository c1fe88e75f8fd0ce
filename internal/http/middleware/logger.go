package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"paperhub/internal/logging"
)

// Logger logs each HTTP request as one JSON line through the process logger.
// Fields: ts, level, request_id, method, path, status, latency (milliseconds).
func Logger() fiber.Handler {
	return logRequests(logging.Default())
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return logRequests(logging.New(w, loc))
}

func logRequests(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := statusOf(c, err)
		level := "info"
		if status >= fiber.StatusInternalServerError {
			level = "error"
		}

		log.Log(level, "", map[string]any{
			"request_id": GetRequestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}

// statusOf reports the status the client will see. Errors returned up the chain
// have not been written yet, so their code is derived the way the error handler does.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
