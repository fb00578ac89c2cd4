// Package cors derives cross-origin handling from the provider's
// trusted-origins setting: a static list delegates to fiber's cors
// middleware, a per-request function installs a dynamic origin check.
package cors

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/bridge"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization"

	// preflight results may be cached for a day
	maxAgeSeconds = 86400
)

// Middleware builds the CORS middleware for the given trusted-origins
// setting. A nil setting yields a nil handler: no CORS headers are managed
// by this layer. An unknown variant is a startup configuration error.
func Middleware(origins provider.TrustedOrigins) (fiber.Handler, error) {
	switch o := origins.(type) {
	case nil:
		return nil, nil
	case provider.OriginList:
		return static(o), nil
	case provider.OriginFunc:
		return dynamic(o), nil
	default:
		return nil, ErrUnsupportedOrigins
	}
}

// static delegates to fiber's built-in CORS middleware with a fixed header
// set and a 24 hour preflight cache.
func static(list provider.OriginList) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(list, ", "),
		AllowMethods:     allowMethods,
		AllowHeaders:     allowHeaders,
		AllowCredentials: true,
		MaxAge:           maxAgeSeconds,
	})
}

// dynamic evaluates the origin function per request. When evaluation fails
// the request proceeds without CORS headers; preflight requests are always
// answered with 204 No Content.
func dynamic(fn provider.OriginFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)

		if origin != "" {
			list, err := fn(c.UserContext(), bridge.FromFiber(c))

			switch {
			case err != nil:
				log.Warn().Err(err).Str("origin", origin).
					Msg("trusted origins evaluation failed, skipping CORS headers")
			case contains(list, origin):
				c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
				c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
				c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
				c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
				c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
			}
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}

func contains(list []string, origin string) bool {
	for _, o := range list {
		if o == origin {
			return true
		}
	}

	return false
}
