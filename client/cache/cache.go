// Package cache is the local durable mirror of the task collections: the
// offline source of truth the reconciler falls back to when the backend is
// unreachable.
package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// Stable cache keys. These must not change between releases: the stored data
// under them is the only copy a disconnected client has.
const (
	WeeklyTasksKey   = "weeklyTasks"
	LearnHistoryKey  = "learnHistory"
	DailyProgressKey = "dailyProgress"

	dailyPrefix = "dailyTasks-"
)

// DailyTasksKey returns the per-day key for daily tasks, e.g.
// "dailyTasks-2026-08-28".
func DailyTasksKey(t time.Time) string {
	return dailyPrefix + t.Format("2006-01-02")
}

// IsDailyTasksKey reports whether key names a per-day daily task entry.
func IsDailyTasksKey(key string) bool {
	return len(key) > len(dailyPrefix) && key[:len(dailyPrefix)] == dailyPrefix
}

// DayKey normalizes a time to the calendar-day form used across keys,
// progress samples, and the reconciler's today filter.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Store is a flat key to JSON-document mapping. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get unmarshals the value under key into v. ok is false when the key
	// has never been written.
	Get(key string, v interface{}) (ok bool, err error)
	Set(key string, v interface{}) error
	Delete(key string) error
	Keys() ([]string, error)
	Clear() error
}

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string, v interface{}) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *Memory) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.data = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}
