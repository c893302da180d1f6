package identity

import (
	"strings"

	"shoplist/core/reconcile"
	"shoplist/core/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	// HeaderUserID carries the authenticated user's id, set by the identity provider's gateway.
	HeaderUserID = "X-User-ID"
	// HeaderUserEmail carries the authenticated user's email.
	HeaderUserEmail = "X-User-Email"

	localsKey = "user"
)

// New returns a middleware that resolves the acting user from the identity headers
// and stores it in the request locals. Requests without a user id are rejected.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderUserID))
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user identity"})
		}
		c.Locals(localsKey, reconcile.User{
			ID:    id,
			Email: utils.NormalizeEmail(c.Get(HeaderUserEmail)),
		})
		return c.Next()
	}
}

// User returns the user resolved by the middleware.
func User(c *fiber.Ctx) (reconcile.User, bool) {
	u, ok := c.Locals(localsKey).(reconcile.User)
	return u, ok
}
