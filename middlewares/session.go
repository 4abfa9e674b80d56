package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

// SessionAuth resolves X-Session-ID to a user and stores it in locals.
func SessionAuth(accounts *services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Get("X-Session-ID")
		if sid == "" {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "SESSION_ID_REQUIRED")
		}

		user, err := accounts.ResolveSession(sid)
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_OR_EXPIRED_SESSION")
		}

		c.Locals("user", *user)
		return c.Next()
	}
}

// AdminOnly requires the session user to carry the admin role. Must run
// after SessionAuth.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
		}
		if !user.IsAdmin() {
			return helpers.JSONError(c, fiber.StatusForbidden, "ADMIN_ROLE_REQUIRED")
		}
		return c.Next()
	}
}
