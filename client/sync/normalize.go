package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"taskaura/client/api"
)

// NormalizeTasks turns any of the historic list payload shapes into a flat
// task slice: a bare array, an object wrapping the array under "tasks", or a
// date-keyed map of arrays (old daily-task exports).
func NormalizeTasks(raw json.RawMessage) ([]api.Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []api.Task{}, nil
	}

	if raw[0] == '[' {
		var tasks []api.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return nil, fmt.Errorf("normalize task array: %w", err)
		}
		return tasks, nil
	}

	if raw[0] != '{' {
		return nil, fmt.Errorf("normalize tasks: unexpected payload %q", previewOf(raw))
	}

	var wrapped struct {
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Tasks) > 0 {
		return NormalizeTasks(wrapped.Tasks)
	}

	// Date-keyed map. Non-array values (e.g. a "message" field) are skipped.
	var byDay map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byDay); err != nil {
		return nil, fmt.Errorf("normalize task map: %w", err)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := []api.Task{}
	for _, day := range days {
		var tasks []api.Task
		if err := json.Unmarshal(byDay[day], &tasks); err != nil {
			continue
		}
		dayKey := strings.TrimPrefix(day, "dailyTasks-")
		for i := range tasks {
			if tasks[i].Date == "" {
				tasks[i].Date = dayKey
			}
		}
		out = append(out, tasks...)
	}
	return out, nil
}

func previewOf(raw []byte) string {
	if len(raw) > 32 {
		raw = raw[:32]
	}
	return string(raw)
}

// taskDay extracts the calendar-day key of a task, preferring its explicit
// date, then completion time, then creation time.
func taskDay(t api.Task) string {
	for _, raw := range []string{t.Date, t.CompletedAt, t.CreatedAt} {
		if day := dayOf(raw); day != "" {
			return day
		}
	}
	return ""
}

// dayOf reduces a date-like string (YYYY-MM-DD or an RFC 3339 timestamp) to
// its day prefix.
func dayOf(raw string) string {
	if len(raw) < 10 {
		return ""
	}
	day := raw[:10]
	for i, r := range day {
		if i == 4 || i == 7 {
			if r != '-' {
				return ""
			}
		} else if r < '0' || r > '9' {
			return ""
		}
	}
	return day
}

func filterDay(tasks []api.Task, day string) []api.Task {
	out := []api.Task{}
	for _, t := range tasks {
		if taskDay(t) == day {
			out = append(out, t)
		}
	}
	return out
}
