package controllers

import (
	"time"

	"taskaura/backend/config"
	"taskaura/backend/models"
	"taskaura/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DailyTaskController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDailyTaskController(db *gorm.DB, cfg *config.Config) *DailyTaskController {
	return &DailyTaskController{DB: db, Cfg: cfg}
}

// findOwned loads a task scoped to its owner. A task owned by someone else
// answers exactly like a missing one.
func (dc *DailyTaskController) findOwned(userID uint, id string) (*models.DailyTask, error) {
	var task models.DailyTask
	if err := dc.DB.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (dc *DailyTaskController) List(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	query := dc.DB.Where("user_id = ?", userID)
	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid date", "Date must be formatted YYYY-MM-DD")
		}
		query = query.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}

	tasks := []models.DailyTask{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not retrieve daily tasks")
	}

	return utils.Message(c, fiber.StatusOK, "Daily tasks retrieved successfully", fiber.Map{
		"tasks": tasks,
	})
}

func (dc *DailyTaskController) Create(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}
	if msg := validateTaskInput(&input); msg != "" {
		return utils.BadRequest(c, "Validation failed", msg)
	}

	date := utils.Day(time.Now())
	if input.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid date", "Date must be formatted YYYY-MM-DD")
		}
		date = parsed
	}

	task := models.DailyTask{
		TaskBase: models.TaskBase{
			UserID:      userID,
			Title:       input.Title,
			Description: input.Description,
			Priority:    input.Priority,
			Category:    input.Category,
		},
		Date: date,
	}
	if err := dc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create daily task")
	}

	return utils.Message(c, fiber.StatusCreated, "Daily task created successfully", fiber.Map{
		"task": task,
	})
}

func (dc *DailyTaskController) Get(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := dc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Daily task not found")
	}

	return utils.Message(c, fiber.StatusOK, "Daily task retrieved successfully", fiber.Map{
		"task": task,
	})
}

func (dc *DailyTaskController) Update(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}
	if msg := validateTaskInput(&input); msg != "" {
		return utils.BadRequest(c, "Validation failed", msg)
	}

	task, err := dc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Daily task not found")
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Category = input.Category
	if input.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid date", "Date must be formatted YYYY-MM-DD")
		}
		task.Date = parsed
	}
	if input.Completed != nil && *input.Completed != task.Completed {
		task.SetCompleted(*input.Completed, time.Now())
	}

	if err := dc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update daily task")
	}

	return utils.Message(c, fiber.StatusOK, "Daily task updated successfully", fiber.Map{
		"task": task,
	})
}

func (dc *DailyTaskController) Delete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	result := dc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).Delete(&models.DailyTask{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete daily task")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Daily task not found")
	}

	return utils.Message(c, fiber.StatusOK, "Daily task deleted successfully", nil)
}

func (dc *DailyTaskController) Toggle(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := dc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Daily task not found")
	}

	task.SetCompleted(!task.Completed, time.Now())
	if err := dc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not toggle daily task")
	}

	return utils.Message(c, fiber.StatusOK, "Task completion toggled successfully", fiber.Map{
		"task": task,
	})
}

func (dc *DailyTaskController) Stats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var day *time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid date", "Date must be formatted YYYY-MM-DD")
		}
		day = &parsed
	}

	// Fresh query per count; GORM chains accumulate conditions.
	base := func() *gorm.DB {
		q := dc.DB.Model(&models.DailyTask{}).Where("user_id = ?", userID)
		if day != nil {
			q = q.Where("date >= ? AND date < ?", *day, day.AddDate(0, 0, 1))
		}
		return q
	}

	var total, completed int64
	base().Count(&total)
	base().Where("completed = ?", true).Count(&completed)

	return c.Status(fiber.StatusOK).JSON(models.TaskStats{
		Total:          total,
		Completed:      completed,
		Pending:        total - completed,
		CompletionRate: completionRate(completed, total),
	})
}
