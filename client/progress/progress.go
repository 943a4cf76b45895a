// Package progress derives completion percentages, trend series, and streaks
// from the task snapshot and the locally stored daily samples.
package progress

import (
	"math"
	"sort"
	"time"

	"taskaura/client/cache"
)

// Sample is one day's derived progress record. Samples are not
// authoritative: the day's one is recomputed whenever that day's task set
// changes.
type Sample struct {
	Date       string `json:"date"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

type Stats struct {
	Average int `json:"average"`
	Best    int `json:"best"`
	// Streak counts stored samples with percentage > 0, newest first. This
	// is a different qualifying condition from the learning Streak and the
	// two must not be conflated.
	Streak int `json:"streak"`
}

// Compute builds the sample for one day.
func Compute(date string, completed, total int) Sample {
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return Sample{
		Date:       date,
		Completed:  completed,
		Total:      total,
		Percentage: percentage,
		Message:    message(completed, total),
	}
}

// message tiers are part of the UI contract; the thresholds are exact.
func message(completed, total int) string {
	if total == 0 {
		return "No tasks today"
	}

	percentage := float64(completed) / float64(total) * 100
	switch {
	case percentage == 100:
		return "Perfect day! All tasks completed!"
	case percentage >= 80:
		return "Excellent progress! Almost there!"
	case percentage >= 60:
		return "Good work! Keep going!"
	case percentage >= 40:
		return "Making progress! Stay focused!"
	case percentage >= 20:
		return "Getting started! Every step counts!"
	default:
		return "New day, new opportunities!"
	}
}

// All returns the stored samples, newest first.
func All(store cache.Store) []Sample {
	samples := []Sample{}
	store.Get(cache.DailyProgressKey, &samples)
	return samples
}

// Save upserts a sample by date, keeping the stored list sorted newest
// first.
func Save(store cache.Store, sample Sample) error {
	samples := All(store)

	replaced := false
	for i := range samples {
		if samples[i].Date == sample.Date {
			samples[i] = sample
			replaced = true
			break
		}
	}
	if !replaced {
		samples = append(samples, sample)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date > samples[j].Date
	})

	return store.Set(cache.DailyProgressKey, samples)
}

// Last7Days returns exactly seven samples, oldest to newest ending today.
// Days without a stored sample yield a zero-filled placeholder so chart
// consumers always see a fixed-length series.
func Last7Days(store cache.Store, now time.Time) []Sample {
	stored := All(store)
	byDate := make(map[string]Sample, len(stored))
	for _, s := range stored {
		byDate[s.Date] = s
	}

	out := make([]Sample, 0, 7)
	for i := 6; i >= 0; i-- {
		date := cache.DayKey(now.AddDate(0, 0, -i))
		if s, ok := byDate[date]; ok {
			out = append(out, s)
		} else {
			out = append(out, Sample{Date: date, Message: "No tasks"})
		}
	}
	return out
}

// ComputeStats summarizes the most recent 30 stored samples: average and
// best percentage, plus the percentage>0 streak.
func ComputeStats(store cache.Store) Stats {
	samples := All(store)
	recent := samples
	if len(recent) > 30 {
		recent = recent[:30]
	}
	if len(recent) == 0 {
		return Stats{}
	}

	sum, best := 0, 0
	for _, s := range recent {
		sum += s.Percentage
		if s.Percentage > best {
			best = s.Percentage
		}
	}

	streak := 0
	for _, s := range samples {
		if s.Percentage <= 0 {
			break
		}
		streak++
	}

	return Stats{
		Average: int(math.Round(float64(sum) / float64(len(recent)))),
		Best:    best,
		Streak:  streak,
	}
}
