package utils

import "github.com/gofiber/fiber/v2"

// Wire format: successes are {"message": ..., <payload>}, failures are
// {"error": ..., "message": ...}. Clients key off these two shapes.

// Message sends a success response with an optional extra payload merged in.
func Message(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Fail sends an error response.
func Fail(c *fiber.Ctx, status int, errLabel, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   errLabel,
		"message": message,
	})
}

func BadRequest(c *fiber.Ctx, errLabel, message string) error {
	return Fail(c, fiber.StatusBadRequest, errLabel, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, "Unauthorized", message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, "Task not found", message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, "Internal server error", message)
}
