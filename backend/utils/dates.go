package utils

import "time"

// WeekStart returns midnight on the Monday on or before t. Sunday counts as
// day 7 of its week, so a Sunday maps to the preceding Monday rather than the
// next one.
func WeekStart(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	t = t.AddDate(0, 0, -(day - 1))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
