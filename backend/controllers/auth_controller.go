package controllers

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"taskaura/backend/config"
	"taskaura/backend/models"
	"taskaura/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	}
}

// Register creates a new account and returns a token for it.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}

	// First failing field wins.
	if strings.TrimSpace(input.Name) == "" {
		return utils.BadRequest(c, "Missing required fields", "Name is required and cannot be empty")
	}
	if strings.TrimSpace(input.Email) == "" {
		return utils.BadRequest(c, "Missing required fields", "Email is required and cannot be empty")
	}
	if !emailPattern.MatchString(input.Email) {
		return utils.BadRequest(c, "Invalid email format", "Please enter a valid email address")
	}
	if len(input.Password) < 6 {
		return utils.BadRequest(c, "Password too weak", "Password must be at least 6 characters long")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "User already exists", "A user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Message(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user":  userPayload(&user),
		"token": token,
	})
}

// Login authenticates by email and password. Unknown email and wrong
// password answer identically.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}

	if strings.TrimSpace(input.Email) == "" {
		return utils.BadRequest(c, "Missing required fields", "Email is required and cannot be empty")
	}
	if input.Password == "" {
		return utils.BadRequest(c, "Missing required fields", "Password is required and cannot be empty")
	}
	if !emailPattern.MatchString(input.Email) {
		return utils.BadRequest(c, "Invalid email format", "Please enter a valid email address")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.touchActivity(user.ID)

	return utils.Message(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  userPayload(&user),
		"token": token,
	})
}

// touchActivity maintains the login streak: another login within 48 hours
// extends it, anything later starts over at 1.
func (ac *AuthController) touchActivity(userID uint) {
	var activity models.UserActivity
	if err := ac.DB.Where("user_id = ?", userID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ac.DB.Create(&models.UserActivity{
				UserID:     userID,
				LastActive: time.Now(),
				StreakDays: 1,
			})
		}
		return
	}

	if time.Since(activity.LastActive) < 48*time.Hour {
		activity.StreakDays++
	} else {
		activity.StreakDays = 1
	}
	activity.LastActive = time.Now()
	ac.DB.Save(&activity)
}

func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found", "User not found")
	}

	var activity models.UserActivity
	ac.DB.Where("user_id = ?", userID).First(&activity)

	payload := userPayload(&user)
	payload["streakDays"] = activity.StreakDays

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": payload})
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found", "User not found")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if input.Email != "" {
		if !emailPattern.MatchString(input.Email) {
			return utils.BadRequest(c, "Invalid email format", "Please enter a valid email address")
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != user.Email {
			var existing models.User
			if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
				return utils.BadRequest(c, "User already exists", "A user with this email already exists")
			}
			user.Email = email
		}
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Message(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"user": userPayload(&user),
	})
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Missing or invalid authorization token")
	}

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", "Cannot parse JSON")
	}

	if input.CurrentPassword == "" || input.NewPassword == "" {
		return utils.BadRequest(c, "Missing required fields", "Current password and new password are required")
	}
	if len(input.NewPassword) < 6 {
		return utils.BadRequest(c, "Password too weak", "Password must be at least 6 characters long")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found", "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid current password", "Current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}
	user.PasswordHash = string(hashedPassword)

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update password")
	}

	return utils.Message(c, fiber.StatusOK, "Password changed successfully", nil)
}
