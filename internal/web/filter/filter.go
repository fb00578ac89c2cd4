// Package filter maps provider errors onto JSON HTTP responses. It is wired
// as the fiber app's ErrorHandler.
package filter

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

// isoMillis matches ISO-8601 with millisecond precision, the shape clients
// round-trip through Date parsing.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the serialized error shape.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// New creates the fiber error handler. Provider APIErrors keep their status,
// message and code; fiber errors keep their status; anything else becomes a
// plain 500. Missing fields are defaulted, nothing is retried.
func New() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := ErrorResponse{
			StatusCode: fiber.StatusInternalServerError,
			Timestamp:  time.Now().UTC().Format(isoMillis),
			Path:       c.Path(),
		}

		var (
			apiErr   *provider.APIError
			fiberErr *fiber.Error
		)

		switch {
		case errors.As(err, &apiErr):
			if apiErr.Status != 0 {
				resp.StatusCode = apiErr.Status
			}

			resp.Message = apiErr.Message
			resp.Error = apiErr.Code
		case errors.As(err, &fiberErr):
			resp.StatusCode = fiberErr.Code
			resp.Message = fiberErr.Message
		default:
			log.Error().Err(err).Str("path", resp.Path).Msg("unhandled error")
			resp.Message = "Internal Server Error"
		}

		return c.Status(resp.StatusCode).JSON(resp)
	}
}
