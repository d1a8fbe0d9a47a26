package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/db"
)

// Health reports service liveness and MongoDB reachability.
func Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"mongo":  "down",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"mongo":  "up",
	})
}
