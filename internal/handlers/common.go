package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/middleware"
)

// fail writes an error response with the status derived from the error.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.Status(err)).JSON(fiber.Map{"error": err.Error()})
}

// badRequest is for malformed request bodies, before any service is called.
func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}

// currentUser reads the authenticated user's ID and role from the request
// locals. Both are empty for anonymous requests.
func currentUser(c *fiber.Ctx) (string, string) {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	role, _ := c.Locals(middleware.LocalRole).(string)
	return userID, role
}
