package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"cookbook/internal/logging"
)

// LoggerWithWriter logs each HTTP request as one JSON line on w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return RequestLogger(logging.New(w, loc))
}

// RequestLogger logs each HTTP request through logger.
// Fields: ts, level, request_id (from RequestID), method, path, status, latency (ms).
// Responses with status >= 500 are logged at error level.
func RequestLogger(logger *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler has not run yet at this point.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		level := "info"
		if status >= fiber.StatusInternalServerError {
			level = "error"
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		logger.Log(map[string]any{
			"level":      level,
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}
