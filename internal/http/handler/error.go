package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"cookbook/internal/http/middleware"
	"cookbook/internal/logging"
	"cookbook/internal/model"
)

// errorPayload is the error response body. Detail is a string for simple errors
// and a list of model.FieldError for validation failures.
type errorPayload struct {
	Detail any `json:"detail"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes {"detail": message} with the given status.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Detail: message})
}

// writeValidation writes a 422 with field-level detail.
func writeValidation(c *fiber.Ctx, errs model.ValidationErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{Detail: errs})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Errors that are not *fiber.Error are logged with their request and trace IDs
// and answered with a generic 500; their text never reaches the client.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ve, ok := model.AsValidationErrors(err); ok {
			return writeValidation(c, ve)
		}

		var fe *fiber.Error
		if !errors.As(err, &fe) {
			fields := map[string]any{
				"request_id": requestIDFromCtx(c),
				"method":     c.Method(),
				"path":       c.Path(),
			}
			if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
				fields["trace_id"] = sc.TraceID().String()
			}
			logger.Error("request_failed", err, fields)
			return writeError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		switch fe.Code {
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "Not Found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "Method Not Allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "Request Entity Too Large")
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "Bad Request")
		default:
			if fe.Code >= fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "Internal Server Error")
			}
			return writeError(c, fe.Code, fe.Message)
		}
	}
}
