package models

import "time"

// TaskBase holds the columns shared by the three task collections. The
// collection a task belongs to is fixed by its table, so the type of a task
// can never change after creation.
type TaskBase struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Priority    string     `gorm:"size:10;default:medium" json:"priority"` // low, medium, high
	Category    string     `gorm:"size:50" json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetCompleted keeps the completed flag and CompletedAt in lockstep:
// CompletedAt is present iff Completed is true.
func (t *TaskBase) SetCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

type DailyTask struct {
	TaskBase
	Date time.Time `gorm:"index" json:"date"`
}

type WeeklyTask struct {
	TaskBase
	// Always the Monday of the task's creation week.
	WeekStart time.Time `gorm:"index" json:"weekStart"`
}

type LearnTask struct {
	TaskBase
	Duration int    `gorm:"not null" json:"duration"` // minutes
	Subject  string `gorm:"size:100;not null" json:"subject"`
}

type TaskStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	CompletionRate int   `json:"completionRate"`
}

type LearnTaskStats struct {
	TaskStats
	TotalDuration int64 `json:"totalDuration"` // minutes over completed tasks
}
