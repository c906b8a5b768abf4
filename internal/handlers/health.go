package handlers

import "github.com/gofiber/fiber/v2"

// Health is the liveness endpoint.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ConfigError serves the blocking configuration-error state: when the
// store cannot be reached at startup, every route answers with this
// instead of any view data.
func ConfigError(err error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":  "Configuration error: the installation is not connected to its store",
			"detail": err.Error(),
		})
	}
}
