package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLearnTask(t *testing.T, app *fiber.App, token, title, subject string, duration int) map[string]interface{} {
	t.Helper()
	status, task := doJSON(t, app, "POST", "/api/learn-tasks", token, map[string]interface{}{
		"title":    title,
		"subject":  subject,
		"duration": duration,
	})
	require.Equal(t, http.StatusCreated, status)
	return task
}

func TestCreateLearnTask(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	// Learn endpoints answer with the bare task, no envelope.
	task := createLearnTask(t, app, token, "Go generics", "golang", 45)
	assert.Equal(t, "Go generics", task["title"])
	assert.Equal(t, "golang", task["subject"])
	assert.Equal(t, float64(45), task["duration"])
	assert.Nil(t, task["task"])
	assert.Nil(t, task["message"])
}

func TestCreateLearnTaskValidation(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	cases := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{"missing subject", map[string]interface{}{"title": "x", "duration": 30}, "Subject is required"},
		{"missing duration", map[string]interface{}{"title": "x", "subject": "go"}, "Duration must be at least 1 minute"},
		{"zero duration", map[string]interface{}{"title": "x", "subject": "go", "duration": 0}, "Duration must be at least 1 minute"},
		{"title checked before subject", map[string]interface{}{"subject": "go", "duration": 30}, "Title is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, result := doJSON(t, app, "POST", "/api/learn-tasks", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.message, result["message"])
		})
	}
}

func TestListLearnTasks(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	// The list is a bare array even when empty.
	status, raw := doRaw(t, app, "GET", "/api/learn-tasks", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(raw))

	createLearnTask(t, app, token, "One", "go", 30)
	createLearnTask(t, app, token, "Two", "sql", 60)

	status, raw = doRaw(t, app, "GET", "/api/learn-tasks", token, nil)
	assert.Equal(t, http.StatusOK, status)

	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 2)
}

func TestLearnTaskStats(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	done := createLearnTask(t, app, token, "Done", "go", 45)
	createLearnTask(t, app, token, "Pending", "go", 30)
	alsoDone := createLearnTask(t, app, token, "Also done", "sql", 15)

	for _, task := range []map[string]interface{}{done, alsoDone} {
		status, _ := doJSON(t, app, "PATCH", "/api/learn-tasks/"+idOf(t, task)+"/toggle", token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, stats := doJSON(t, app, "GET", "/api/learn-tasks/stats", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(2), stats["completed"])
	assert.Equal(t, float64(1), stats["pending"])
	assert.Equal(t, float64(67), stats["completionRate"])
	// Only completed sessions count toward the duration total.
	assert.Equal(t, float64(60), stats["totalDuration"])
}

func TestLearnTasksBySubject(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	createLearnTask(t, app, token, "One", "Golang Basics", 30)
	createLearnTask(t, app, token, "Two", "SQL Joins", 30)
	createLearnTask(t, app, token, "Three", "Advanced golang", 30)

	// Case-insensitive substring match.
	status, raw := doRaw(t, app, "GET", "/api/learn-tasks/by-subject?subject=GOLANG", token, nil)
	assert.Equal(t, http.StatusOK, status)

	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 2)

	// No filter returns everything.
	status, raw = doRaw(t, app, "GET", "/api/learn-tasks/by-subject", token, nil)
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 3)
}

func TestToggleLearnTask(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	task := createLearnTask(t, app, token, "Flip", "go", 20)
	id := idOf(t, task)

	status, toggled := doJSON(t, app, "PATCH", "/api/learn-tasks/"+id+"/toggle", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, toggled["completed"])
	assert.NotEmpty(t, toggled["completedAt"])
}

func TestDeleteLearnTask(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	task := createLearnTask(t, app, token, "Gone", "go", 20)
	id := idOf(t, task)

	status, result := doJSON(t, app, "DELETE", "/api/learn-tasks/"+id, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Task deleted successfully", result["message"])

	status, _ = doJSON(t, app, "GET", "/api/learn-tasks/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
