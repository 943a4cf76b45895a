package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Monday maps to itself", "2026-08-24", "2026-08-24"},
		{"Wednesday maps back to Monday", "2026-08-26", "2026-08-24"},
		{"Saturday maps back to Monday", "2026-08-29", "2026-08-24"},
		{"Sunday belongs to the preceding Monday", "2026-08-30", "2026-08-24"},
		{"next Monday starts a new week", "2026-08-31", "2026-08-31"},
		{"month boundary", "2026-09-01", "2026-08-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := time.ParseInLocation("2006-01-02", tc.in, time.Local)
			assert.NoError(t, err)

			got := WeekStart(in)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestWeekStartTruncatesTime(t *testing.T) {
	in := time.Date(2026, 8, 26, 17, 45, 12, 0, time.Local)
	got := WeekStart(in)

	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, 0, got.Second())
}

func TestDay(t *testing.T) {
	in := time.Date(2026, 8, 26, 23, 59, 59, 0, time.Local)
	got := Day(in)

	assert.Equal(t, "2026-08-26", got.Format("2006-01-02"))
	assert.Equal(t, 0, got.Hour())
}
