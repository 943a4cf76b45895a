package middleware

import (
	"taskaura/backend/config"
	"taskaura/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Missing or invalid authorization token")
		}
		return c.Next()
	}
}
