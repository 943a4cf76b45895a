package controllers

import (
	"math"
	"strings"
)

// taskInput is the shared request body for task create/update across the
// three collections; the variant-specific fields are simply ignored where
// they do not apply.
type taskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Completed   *bool  `json:"completed"`
	Date        string `json:"date"`     // daily, YYYY-MM-DD
	Duration    *int   `json:"duration"` // learn, minutes
	Subject     string `json:"subject"`  // learn
}

// validateTaskInput returns the first validation problem, or "" when the
// input is acceptable. Defaults are applied in place.
func validateTaskInput(in *taskInput) string {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "Title is required"
	}
	if len(in.Title) > 200 {
		return "Title cannot exceed 200 characters"
	}
	if len(in.Description) > 1000 {
		return "Description cannot exceed 1000 characters"
	}
	switch in.Priority {
	case "":
		in.Priority = "medium"
	case "low", "medium", "high":
	default:
		return "Priority must be low, medium, or high"
	}
	if len(in.Category) > 50 {
		return "Category cannot exceed 50 characters"
	}
	if in.Category == "" {
		in.Category = "general"
	}
	return ""
}

func validateLearnInput(in *taskInput) string {
	if msg := validateTaskInput(in); msg != "" {
		return msg
	}
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		return "Subject is required"
	}
	if len(in.Subject) > 100 {
		return "Subject cannot exceed 100 characters"
	}
	if in.Duration == nil || *in.Duration < 1 {
		return "Duration must be at least 1 minute"
	}
	return ""
}

func completionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
