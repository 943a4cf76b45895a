package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrAuthRequired is returned when the backend rejects the stored credential.
// The token has already been cleared by the time callers see it; they must
// send the user back through login.
var ErrAuthRequired = errors.New("authentication required")

// APIError is a non-401 error response decoded from the {error, message}
// wire shape.
type APIError struct {
	Status  int
	Label   string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s (%d)", e.Label, e.Status)
}

// TokenStore holds the bearer credential between calls.
type TokenStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryTokenStore) Clear() { s.SetToken("") }

const healthTimeout = 3 * time.Second

// Client talks to the TaskAura backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenStore
}

func NewClient(baseURL string, tokens TokenStore) *Client {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Tokens:  tokens,
	}
}

// request performs one API call. A 401 clears the stored token and returns
// ErrAuthRequired; a 429 waits out the Retry-After hint and retries once.
func (c *Client) request(ctx context.Context, method, path string, body, out interface{}) error {
	retried := false
	for {
		resp, err := c.do(ctx, method, path, body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && !retried {
			delay := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			retried = true
			continue
		}

		return c.finish(resp, out)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.HTTP.Do(req)
}

func (c *Client) finish(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.Tokens.Clear()
		return ErrAuthRequired
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || (apiErr.Label == "" && apiErr.Message == "") {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}

// CheckHealth probes the backend with a short timeout so a dead server never
// stalls the caller.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var health Health
	err := c.request(ctx, http.MethodGet, "/health", nil, &health)
	return health, err
}

// --- Auth ---

type authResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (User, error) {
	var resp authResponse
	err := c.request(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	c.Tokens.SetToken(resp.Token)
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp authResponse
	err := c.request(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	c.Tokens.SetToken(resp.Token)
	return resp.User, nil
}

func (c *Client) Profile(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.request(ctx, http.MethodGet, "/api/auth/profile", nil, &resp)
	return resp.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, name, email string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.request(ctx, http.MethodPut, "/api/auth/profile", map[string]string{
		"name": name, "email": email,
	}, &resp)
	return resp.User, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.request(ctx, http.MethodPut, "/api/auth/change-password", map[string]string{
		"currentPassword": current, "newPassword": next,
	}, nil)
}

// --- Task collections ---
//
// List payloads are returned raw: the reconciler owns shape normalization
// (wrapped object, bare array, or date-keyed map).

type taskEnvelope struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

func (c *Client) ListDailyTasks(ctx context.Context, date string) (json.RawMessage, error) {
	path := "/api/daily-tasks"
	if date != "" {
		path += "?date=" + date
	}
	var raw json.RawMessage
	err := c.request(ctx, http.MethodGet, path, nil, &raw)
	return raw, err
}

func (c *Client) CreateDailyTask(ctx context.Context, task Task) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPost, "/api/daily-tasks", task, &resp)
	return resp.Task, err
}

func (c *Client) UpdateDailyTask(ctx context.Context, id TaskID, task Task) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPut, "/api/daily-tasks/"+id.String(), task, &resp)
	return resp.Task, err
}

func (c *Client) DeleteDailyTask(ctx context.Context, id TaskID) error {
	return c.request(ctx, http.MethodDelete, "/api/daily-tasks/"+id.String(), nil, nil)
}

func (c *Client) ToggleDailyTask(ctx context.Context, id TaskID) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPatch, "/api/daily-tasks/"+id.String()+"/toggle", nil, &resp)
	return resp.Task, err
}

func (c *Client) DailyTaskStats(ctx context.Context, date string) (Stats, error) {
	path := "/api/daily-tasks/stats"
	if date != "" {
		path += "?date=" + date
	}
	var stats Stats
	err := c.request(ctx, http.MethodGet, path, nil, &stats)
	return stats, err
}

func (c *Client) ListWeeklyTasks(ctx context.Context, weekStart string) (json.RawMessage, error) {
	path := "/api/weekly-tasks"
	if weekStart != "" {
		path += "?weekStart=" + weekStart
	}
	var raw json.RawMessage
	err := c.request(ctx, http.MethodGet, path, nil, &raw)
	return raw, err
}

func (c *Client) CreateWeeklyTask(ctx context.Context, task Task) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPost, "/api/weekly-tasks", task, &resp)
	return resp.Task, err
}

func (c *Client) UpdateWeeklyTask(ctx context.Context, id TaskID, task Task) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPut, "/api/weekly-tasks/"+id.String(), task, &resp)
	return resp.Task, err
}

func (c *Client) DeleteWeeklyTask(ctx context.Context, id TaskID) error {
	return c.request(ctx, http.MethodDelete, "/api/weekly-tasks/"+id.String(), nil, nil)
}

func (c *Client) ToggleWeeklyTask(ctx context.Context, id TaskID) (Task, error) {
	var resp taskEnvelope
	err := c.request(ctx, http.MethodPatch, "/api/weekly-tasks/"+id.String()+"/toggle", nil, &resp)
	return resp.Task, err
}

func (c *Client) WeeklyTaskStats(ctx context.Context, weekStart string) (Stats, error) {
	path := "/api/weekly-tasks/stats"
	if weekStart != "" {
		path += "?weekStart=" + weekStart
	}
	var stats Stats
	err := c.request(ctx, http.MethodGet, path, nil, &stats)
	return stats, err
}

// Learn endpoints exchange bare payloads, not the {message, task} envelope.

func (c *Client) ListLearnTasks(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.request(ctx, http.MethodGet, "/api/learn-tasks", nil, &raw)
	return raw, err
}

func (c *Client) CreateLearnTask(ctx context.Context, task Task) (Task, error) {
	var created Task
	err := c.request(ctx, http.MethodPost, "/api/learn-tasks", task, &created)
	return created, err
}

func (c *Client) UpdateLearnTask(ctx context.Context, id TaskID, task Task) (Task, error) {
	var updated Task
	err := c.request(ctx, http.MethodPut, "/api/learn-tasks/"+id.String(), task, &updated)
	return updated, err
}

func (c *Client) DeleteLearnTask(ctx context.Context, id TaskID) error {
	return c.request(ctx, http.MethodDelete, "/api/learn-tasks/"+id.String(), nil, nil)
}

func (c *Client) ToggleLearnTask(ctx context.Context, id TaskID) (Task, error) {
	var toggled Task
	err := c.request(ctx, http.MethodPatch, "/api/learn-tasks/"+id.String()+"/toggle", nil, &toggled)
	return toggled, err
}

func (c *Client) LearnTaskStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.request(ctx, http.MethodGet, "/api/learn-tasks/stats", nil, &stats)
	return stats, err
}

func (c *Client) LearnTasksBySubject(ctx context.Context, subject string) (json.RawMessage, error) {
	path := "/api/learn-tasks/by-subject"
	if subject != "" {
		path += "?subject=" + url.QueryEscape(subject)
	}
	var raw json.RawMessage
	err := c.request(ctx, http.MethodGet, path, nil, &raw)
	return raw, err
}
