package controllers

import (
	"time"

	"taskaura/backend/config"
	"taskaura/backend/models"
	"taskaura/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WeeklyTaskController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewWeeklyTaskController(db *gorm.DB, cfg *config.Config) *WeeklyTaskController {
	return &WeeklyTaskController{DB: db, Cfg: cfg}
}

func (wc *WeeklyTaskController) findOwned(userID uint, id string) (*models.WeeklyTask, error) {
	var task models.WeeklyTask
	if err := wc.DB.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (wc *WeeklyTaskController) List(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	query := wc.DB.Where("user_id = ?", userID)
	if weekStr := c.Query("weekStart"); weekStr != "" {
		week, err := time.ParseInLocation("2006-01-02", weekStr, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid weekStart", "weekStart must be formatted YYYY-MM-DD")
		}
		query = query.Where("week_start >= ? AND week_start < ?", week, week.AddDate(0, 0, 1))
	}

	tasks := []models.WeeklyTask{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not retrieve weekly tasks")
	}

	return utils.Message(c, fiber.StatusOK, "Weekly tasks retrieved successfully", fiber.Map{
		"tasks": tasks,
	})
}

// Create stores a new weekly task bucketed into the current week. WeekStart
// is always computed server-side as the Monday on or before today.
func (wc *WeeklyTaskController) Create(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
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

	task := models.WeeklyTask{
		TaskBase: models.TaskBase{
			UserID:      userID,
			Title:       input.Title,
			Description: input.Description,
			Priority:    input.Priority,
			Category:    input.Category,
		},
		WeekStart: utils.WeekStart(time.Now()),
	}
	if err := wc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create weekly task")
	}

	return utils.Message(c, fiber.StatusCreated, "Weekly task created successfully", fiber.Map{
		"task": task,
	})
}

func (wc *WeeklyTaskController) Get(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := wc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Weekly task not found")
	}

	return utils.Message(c, fiber.StatusOK, "Weekly task retrieved successfully", fiber.Map{
		"task": task,
	})
}

func (wc *WeeklyTaskController) Update(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
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

	task, err := wc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Weekly task not found")
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Category = input.Category
	if input.Completed != nil && *input.Completed != task.Completed {
		task.SetCompleted(*input.Completed, time.Now())
	}

	if err := wc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update weekly task")
	}

	return utils.Message(c, fiber.StatusOK, "Weekly task updated successfully", fiber.Map{
		"task": task,
	})
}

func (wc *WeeklyTaskController) Delete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	result := wc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).Delete(&models.WeeklyTask{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete weekly task")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Weekly task not found")
	}

	return utils.Message(c, fiber.StatusOK, "Weekly task deleted successfully", nil)
}

func (wc *WeeklyTaskController) Toggle(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := wc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Weekly task not found")
	}

	task.SetCompleted(!task.Completed, time.Now())
	if err := wc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not toggle weekly task")
	}

	return utils.Message(c, fiber.StatusOK, "Task completion toggled successfully", fiber.Map{
		"task": task,
	})
}

func (wc *WeeklyTaskController) Stats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var week *time.Time
	if weekStr := c.Query("weekStart"); weekStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", weekStr, time.Local)
		if err != nil {
			return utils.BadRequest(c, "Invalid weekStart", "weekStart must be formatted YYYY-MM-DD")
		}
		week = &parsed
	}

	base := func() *gorm.DB {
		q := wc.DB.Model(&models.WeeklyTask{}).Where("user_id = ?", userID)
		if week != nil {
			q = q.Where("week_start >= ? AND week_start < ?", *week, week.AddDate(0, 0, 1))
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
