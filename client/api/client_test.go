package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, nil), server
}

func TestUnauthorizedClearsToken(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client.Tokens.SetToken("stale-token")

	_, err := client.Profile(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
	// The stale credential is gone so the next call starts unauthenticated.
	assert.Empty(t, client.Tokens.Token())
}

func TestRateLimitedRequestRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":1,"name":"Alice","email":"alice@example.com"}}`))
	}))
	defer server.Close()

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRateLimitedTwiceGivesUp(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := client.Profile(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestErrorPayloadDecoding(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Validation failed","message":"Title is required"}`))
	}))
	defer server.Close()

	_, err := client.CreateDailyTask(context.Background(), Task{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Label)
	assert.Equal(t, "Title is required", apiErr.Message)
}

func TestRegisterStoresToken(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User registered successfully","user":{"id":7,"name":"Eve","email":"eve@example.com"},"token":"fresh-token"}`))
	}))
	defer server.Close()

	user, err := client.Register(context.Background(), "Eve", "eve@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, TaskID("7"), user.ID)
	assert.Equal(t, "fresh-token", client.Tokens.Token())
}

func TestRequestSendsBearerToken(t *testing.T) {
	var got string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","database":"connected"}`))
	}))
	defer server.Close()

	client.Tokens.SetToken("abc123")
	health, err := client.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", got)
	assert.Equal(t, "OK", health.Status)
	assert.Equal(t, "connected", health.Database)
}

func TestCheckHealthUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)

	_, err := client.CheckHealth(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAuthRequired))
}

func TestTaskIDAcceptsNumberAndString(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"title":"numeric"}`), &task))
	assert.Equal(t, TaskID("42"), task.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"local-abc","title":"offline"}`), &task))
	assert.Equal(t, TaskID("local-abc"), task.ID)
}
