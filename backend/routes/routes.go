package routes

import (
	"time"

	"taskaura/backend/config"
	"taskaura/backend/controllers"
	"taskaura/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Health probe stays outside the rate-limited API group so a throttled
	// client can still see whether the backend is up.
	healthController := controllers.NewHealthController(db)
	app.Get("/health", healthController.Check)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)
	api.Get("/auth/profile", authMiddleware, authController.GetProfile)
	api.Put("/auth/profile", authMiddleware, authController.UpdateProfile)
	api.Put("/auth/change-password", authMiddleware, authController.ChangePassword)

	// Daily task routes. Fixed paths are registered before :id routes.
	dailyController := controllers.NewDailyTaskController(db, cfg)
	daily := api.Group("/daily-tasks", authMiddleware)
	daily.Get("/stats", dailyController.Stats)
	daily.Get("/", dailyController.List)
	daily.Post("/", dailyController.Create)
	daily.Get("/:id", dailyController.Get)
	daily.Put("/:id", dailyController.Update)
	daily.Delete("/:id", dailyController.Delete)
	daily.Patch("/:id/toggle", dailyController.Toggle)

	// Weekly task routes
	weeklyController := controllers.NewWeeklyTaskController(db, cfg)
	weekly := api.Group("/weekly-tasks", authMiddleware)
	weekly.Get("/stats", weeklyController.Stats)
	weekly.Get("/", weeklyController.List)
	weekly.Post("/", weeklyController.Create)
	weekly.Get("/:id", weeklyController.Get)
	weekly.Put("/:id", weeklyController.Update)
	weekly.Delete("/:id", weeklyController.Delete)
	weekly.Patch("/:id/toggle", weeklyController.Toggle)

	// Learn task routes
	learnController := controllers.NewLearnTaskController(db, cfg)
	learn := api.Group("/learn-tasks", authMiddleware)
	learn.Get("/stats", learnController.Stats)
	learn.Get("/by-subject", learnController.BySubject)
	learn.Get("/", learnController.List)
	learn.Post("/", learnController.Create)
	learn.Get("/:id", learnController.Get)
	learn.Put("/:id", learnController.Update)
	learn.Delete("/:id", learnController.Delete)
	learn.Patch("/:id/toggle", learnController.Toggle)
}
