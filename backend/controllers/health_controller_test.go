package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	// No token needed: the probe sits outside the authenticated API group.
	status, result := doJSON(t, app, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", result["status"])
	assert.Equal(t, "connected", result["database"])
	assert.NotEmpty(t, result["timestamp"])
}
