package guard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

var (
	// ErrAuthRequired is the only error the guard raises: the route is
	// neither public nor optional and no session could be resolved.
	ErrAuthRequired = provider.NewAPIError(
		fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required",
	)
)
