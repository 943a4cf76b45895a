package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskaura/backend/config"
	"taskaura/backend/models"
	"taskaura/backend/routes"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp builds a fully routed app over an in-memory database. Each test
// gets its own database so tests stay independent.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserActivity{},
		&models.DailyTask{},
		&models.WeeklyTask{},
		&models.LearnTask{},
	))

	cfg := &config.Config{JWTSecret: "testsecret"}
	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app
}

// doJSON sends one request and decodes the response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	status, raw := doRaw(t, app, method, path, token, body)

	result := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return status, result
}

// doRaw is doJSON without interpreting the body, for bare-array endpoints.
func doRaw(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

var userSeq int

// registerUser creates a fresh account and returns its token.
func registerUser(t *testing.T, app *fiber.App) string {
	t.Helper()

	userSeq++
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     fmt.Sprintf("User %d", userSeq),
		"email":    fmt.Sprintf("user%d@example.com", userSeq),
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := result["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

// taskOf pulls the "task" object out of an enveloped response.
func taskOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	task, ok := result["task"].(map[string]interface{})
	require.True(t, ok, "response has no task object: %v", result)
	return task
}

// idOf formats a task id for use in a path.
func idOf(t *testing.T, task map[string]interface{}) string {
	t.Helper()
	id, ok := task["id"].(float64)
	require.True(t, ok, "task has no numeric id: %v", task)
	return fmt.Sprintf("%.0f", id)
}
