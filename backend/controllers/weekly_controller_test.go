package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"taskaura/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWeeklyTask(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	status, result := doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{
		"title":    "Plan sprint",
		"priority": "high",
	})
	assert.Equal(t, http.StatusCreated, status)

	task := taskOf(t, result)
	assert.Equal(t, "Plan sprint", task["title"])
	assert.Equal(t, "high", task["priority"])

	// weekStart is always the Monday of the creation week, never
	// client-supplied.
	raw, ok := task["weekStart"].(string)
	require.True(t, ok)
	weekStart, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, weekStart.Weekday())
	assert.Equal(t,
		utils.WeekStart(time.Now()).Format("2006-01-02"),
		weekStart.Format("2006-01-02"))
}

func TestListWeeklyTasks(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{"title": "One"})
	doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{"title": "Two"})

	status, result := doJSON(t, app, "GET", "/api/weekly-tasks", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Weekly tasks retrieved successfully", result["message"])
	assert.Len(t, result["tasks"], 2)

	// Filtering on the current week keeps them; a past week drops them.
	thisWeek := utils.WeekStart(time.Now()).Format("2006-01-02")
	status, result = doJSON(t, app, "GET", "/api/weekly-tasks?weekStart="+thisWeek, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, result["tasks"], 2)

	status, result = doJSON(t, app, "GET", "/api/weekly-tasks?weekStart=2020-01-06", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, result["tasks"], 0)
}

func TestUpdateWeeklyTask(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	_, created := doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{"title": "Draft"})
	id := idOf(t, taskOf(t, created))

	status, result := doJSON(t, app, "PUT", "/api/weekly-tasks/"+id, token, map[string]interface{}{
		"title":     "Final",
		"completed": true,
	})
	assert.Equal(t, http.StatusOK, status)

	task := taskOf(t, result)
	assert.Equal(t, "Final", task["title"])
	assert.Equal(t, true, task["completed"])
	assert.NotEmpty(t, task["completedAt"])
}

func TestWeeklyTaskStats(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	_, created := doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{"title": "a"})
	doJSON(t, app, "POST", "/api/weekly-tasks", token, map[string]interface{}{"title": "b"})

	id := idOf(t, taskOf(t, created))
	doJSON(t, app, "PATCH", "/api/weekly-tasks/"+id+"/toggle", token, nil)

	status, stats := doJSON(t, app, "GET", "/api/weekly-tasks/stats", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["completed"])
	assert.Equal(t, float64(1), stats["pending"])
	assert.Equal(t, float64(50), stats["completionRate"])
}
