package guard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/bridge"
)

const (
	// SessionLocal is the fiber Locals key the resolved session is stored under.
	SessionLocal = "auth_session"

	// UserLocal is the fiber Locals key the resolved user is stored under.
	UserLocal = "auth_user"
)

// New creates the per-request guard middleware. Public routes are allowed
// without a provider call. Every other route triggers exactly one session
// lookup; the result (possibly nil) is attached to the request. Optional
// routes are then allowed regardless, protected routes require a non-nil
// session. Provider-side errors propagate unhandled.
func New(p provider.Provider, reg *Registry) fiber.Handler {
	if p == nil {
		panic("guard: provider cannot be nil")
	}

	if reg == nil {
		panic("guard: registry cannot be nil")
	}

	counter := newDecisionCounter()

	return func(c *fiber.Ctx) error {
		access := reg.Lookup(c.Path())

		// Public routes skip the session lookup entirely; it cannot
		// affect the outcome.
		if access == AccessPublic {
			counter.WithLabelValues("public").Inc()
			return c.Next()
		}

		sess, err := p.Session(c.UserContext(), bridge.FromFiber(c))
		if err != nil {
			return err
		}

		if sess != nil {
			c.Locals(SessionLocal, sess)

			if sess.User != nil {
				c.Locals(UserLocal, sess.User)
			}
		}

		if access == AccessOptional {
			counter.WithLabelValues("optional").Inc()
			return c.Next()
		}

		if sess == nil {
			counter.WithLabelValues("denied").Inc()
			log.Debug().Str("path", c.Path()).Msg("no session for protected route")

			return ErrAuthRequired
		}

		counter.WithLabelValues("allowed").Inc()

		return c.Next()
	}
}

// SessionFrom returns the session attached by the guard, nil if absent.
func SessionFrom(c *fiber.Ctx) *provider.Session {
	sess, _ := c.Locals(SessionLocal).(*provider.Session)
	return sess
}

// UserFrom returns the user attached by the guard, nil if absent.
func UserFrom(c *fiber.Ctx) *provider.User {
	user, _ := c.Locals(UserLocal).(*provider.User)
	return user
}
