package stats

import (
	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/level"
	"github.com/rnwolfe/habits/internal/streak"
)

// Aggregate is the per-habit summary that gets persisted after every change.
type Aggregate struct {
	UniqueDays      int           `json:"unique_days"`
	CompletionLevel int           `json:"completion_level"`
	TotalHours      float64       `json:"total_hours"`
	HoursLevel      int           `json:"hours_level"`
	CurrentStreak   int           `json:"current_streak"`
	LongestStreak   int           `json:"longest_streak"`
	LastDate        *calendar.Day `json:"last_date,omitempty"`
}

// Calculator carries the level configuration the computations run against.
// The zero value is not usable; build one with New or Default.
type Calculator struct {
	Tables level.Tables
	Titles level.TitleTable
}

// New returns a Calculator over the given tables and titles.
func New(tables level.Tables, titles level.TitleTable) *Calculator {
	return &Calculator{Tables: tables, Titles: titles}
}

// Default returns a Calculator over the default tier and title tables.
func Default() *Calculator {
	return New(level.DefaultTables(), level.DefaultTitles())
}

// HabitStats recomputes the full aggregate from a habit's records.
// Only completed records contribute minutes, recovered skips included.
func (c *Calculator) HabitStats(records []Record, today calendar.Day) Aggregate {
	valid := ValidDates(records)

	minutes := 0
	for _, r := range records {
		if r.Status == StatusCompleted && r.DurationMinutes > 0 {
			minutes += r.DurationMinutes
		}
	}
	hours := float64(minutes) / 60

	info := streak.Compute(valid, today)

	return Aggregate{
		UniqueDays:      len(valid),
		CompletionLevel: c.Tables.Completion.Level(float64(len(valid))),
		TotalHours:      hours,
		HoursLevel:      c.Tables.Hours.Level(hours),
		CurrentStreak:   info.Current,
		LongestStreak:   info.Longest,
		LastDate:        info.LastActivity,
	}
}
