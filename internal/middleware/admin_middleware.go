package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole ensures the authenticated user holds one of the given roles.
// It must run after Protected, which fills the role local.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied."})
	}
}
