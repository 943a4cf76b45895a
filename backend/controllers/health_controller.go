package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Check reports process and database health. The database state comes from
// pinging the injected handle on every call, not from a remembered flag.
func (hc *HealthController) Check(c *fiber.Ctx) error {
	database := "connected"
	sqlDB, err := hc.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		database = "disconnected"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
