package controllers

import (
	"strings"
	"time"

	"taskaura/backend/config"
	"taskaura/backend/models"
	"taskaura/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LearnTaskController serves the learning-history collection. Its list and
// single-task endpoints return bare payloads rather than the {message, task}
// envelope the other collections use; clients depend on that shape.
type LearnTaskController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLearnTaskController(db *gorm.DB, cfg *config.Config) *LearnTaskController {
	return &LearnTaskController{DB: db, Cfg: cfg}
}

func (lc *LearnTaskController) findOwned(userID uint, id string) (*models.LearnTask, error) {
	var task models.LearnTask
	if err := lc.DB.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (lc *LearnTaskController) List(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	tasks := []models.LearnTask{}
	if err := lc.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not retrieve learn tasks")
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

func (lc *LearnTaskController) Create(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}
	if msg := validateLearnInput(&input); msg != "" {
		return utils.BadRequest(c, "Validation failed", msg)
	}

	task := models.LearnTask{
		TaskBase: models.TaskBase{
			UserID:      userID,
			Title:       input.Title,
			Description: input.Description,
			Priority:    input.Priority,
			Category:    input.Category,
		},
		Duration: *input.Duration,
		Subject:  input.Subject,
	}
	if err := lc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create learn task")
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (lc *LearnTaskController) Get(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := lc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Learn task not found")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (lc *LearnTaskController) Update(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}
	if msg := validateLearnInput(&input); msg != "" {
		return utils.BadRequest(c, "Validation failed", msg)
	}

	task, err := lc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Learn task not found")
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Category = input.Category
	task.Duration = *input.Duration
	task.Subject = input.Subject
	if input.Completed != nil && *input.Completed != task.Completed {
		task.SetCompleted(*input.Completed, time.Now())
	}

	if err := lc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update learn task")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (lc *LearnTaskController) Delete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	result := lc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).Delete(&models.LearnTask{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete learn task")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Learn task not found")
	}

	return utils.Message(c, fiber.StatusOK, "Task deleted successfully", nil)
}

func (lc *LearnTaskController) Toggle(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	task, err := lc.findOwned(userID, c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Learn task not found")
	}

	task.SetCompleted(!task.Completed, time.Now())
	if err := lc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not toggle learn task")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (lc *LearnTaskController) Stats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	base := func() *gorm.DB {
		return lc.DB.Model(&models.LearnTask{}).Where("user_id = ?", userID)
	}

	var total, completed int64
	base().Count(&total)
	base().Where("completed = ?", true).Count(&completed)

	var totalDuration int64
	base().Where("completed = ?", true).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&totalDuration)

	return c.Status(fiber.StatusOK).JSON(models.LearnTaskStats{
		TaskStats: models.TaskStats{
			Total:          total,
			Completed:      completed,
			Pending:        total - completed,
			CompletionRate: completionRate(completed, total),
		},
		TotalDuration: totalDuration,
	})
}

// BySubject filters the history with a case-insensitive contains match.
func (lc *LearnTaskController) BySubject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	query := lc.DB.Where("user_id = ?", userID)
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("LOWER(subject) LIKE ?", "%"+strings.ToLower(subject)+"%")
	}

	tasks := []models.LearnTask{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not retrieve learn tasks")
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}
