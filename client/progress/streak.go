package progress

import (
	"time"

	"taskaura/client/api"
	"taskaura/client/cache"
)

// Streak counts consecutive calendar days of learning activity ending today.
// Each entry contributes the first date-like field it carries (date, then
// completedAt, then createdAt), normalized to a day key and deduplicated.
// The count walks backward from today and stops at the first missing day, so
// a gap yesterday caps the streak at 1 no matter how long the earlier run
// was.
func Streak(entries []api.Task, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	days := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if day := entryDay(entry); day != "" {
			days[day] = true
		}
	}
	if len(days) == 0 {
		return 0
	}

	streak := 0
	cursor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for days[cache.DayKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func entryDay(entry api.Task) string {
	for _, raw := range []string{entry.Date, entry.CompletedAt, entry.CreatedAt} {
		if len(raw) >= 10 {
			if _, err := time.Parse("2006-01-02", raw[:10]); err == nil {
				return raw[:10]
			}
		}
	}
	return ""
}
