package api

import "encoding/json"

// TaskID carries either a server-assigned numeric id or a locally generated
// string id for tasks created while offline. The server encodes ids as JSON
// numbers; local ids are strings.
type TaskID string

func (id TaskID) String() string { return string(id) }

func (id *TaskID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = TaskID(n.String())
	return nil
}

// Task is the client-side view of a task from any of the three collections.
// Unused variant fields stay zero.
type Task struct {
	ID          TaskID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`      // daily
	WeekStart   string `json:"weekStart,omitempty"` // weekly
	Duration    int    `json:"duration,omitempty"`  // learn
	Subject     string `json:"subject,omitempty"`   // learn
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type User struct {
	ID         TaskID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	CreatedAt  string `json:"createdAt,omitempty"`
	StreakDays int    `json:"streakDays,omitempty"`
}

type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completionRate"`
	TotalDuration  int `json:"totalDuration,omitempty"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
