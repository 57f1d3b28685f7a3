package stats

import (
	"fmt"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/level"
	"github.com/rnwolfe/habits/internal/streak"
)

// MetricInfo is the progress toward the next level for one metric.
type MetricInfo struct {
	Level           int         `json:"level"`
	Current         float64     `json:"current"`
	Next            float64     `json:"next"`
	ProgressPercent int         `json:"progress_percent"`
	Title           level.Title `json:"title"`
}

// StreakBlock is the streak section of the habit view.
type StreakBlock struct {
	Current               int           `json:"current"`
	Longest               int           `json:"longest"`
	Previous              int           `json:"previous"`
	Yesterday             int           `json:"yesterday"`
	Selected              int           `json:"selected"`
	SelectedDate          calendar.Day  `json:"selected_date"`
	LastActivity          *calendar.Day `json:"last_activity,omitempty"`
	DaysSinceLastActivity *int          `json:"days_since_last_activity,omitempty"`
	Message               string        `json:"message"`
}

// LevelInfo is everything the habit view shows about progress.
type LevelInfo struct {
	Completion MetricInfo  `json:"completion"`
	Hours      MetricInfo  `json:"hours"`
	Streak     StreakBlock `json:"streak"`
}

// LevelInfo builds the view model from a persisted aggregate and the record
// history. Levels come from the aggregate; streaks are recomputed against
// today so they stay correct when the aggregate was written on an earlier day.
// selected may be nil, in which case the selected streak is today's.
func (c *Calculator) LevelInfo(agg Aggregate, records []Record, selected *calendar.Day, today calendar.Day) LevelInfo {
	valid := ValidDates(records)
	info := streak.Compute(valid, today)

	block := StreakBlock{
		Current:               info.Current,
		Longest:               info.Longest,
		Previous:              info.Previous,
		Yesterday:             streak.AsOf(valid, today.AddDays(-1)),
		Selected:              info.Current,
		SelectedDate:          today,
		LastActivity:          info.LastActivity,
		DaysSinceLastActivity: info.DaysSinceLastActivity,
		Message:               Motivation(info),
	}
	if selected != nil {
		block.Selected = streak.AsOf(valid, *selected)
		block.SelectedDate = *selected
	}

	return LevelInfo{
		Completion: c.metric(level.Completion, agg.CompletionLevel, float64(agg.UniqueDays)),
		Hours:      c.metric(level.Hours, agg.HoursLevel, agg.TotalHours),
		Streak:     block,
	}
}

func (c *Calculator) metric(m level.Metric, lvl int, current float64) MetricInfo {
	if lvl < level.MinLevel {
		lvl = level.MinLevel
	}
	next := level.NextLevelRequirement(c.Tables, lvl, m)
	pct := level.ProgressPercent(current, next)
	if lvl >= level.MaxLevel {
		pct = 100
	}
	return MetricInfo{
		Level:           lvl,
		Current:         current,
		Next:            next,
		ProgressPercent: pct,
		Title:           c.Titles.Lookup(lvl),
	}
}

// Motivation returns the encouragement line for a streak state.
func Motivation(info streak.Info) string {
	switch {
	case info.LastActivity == nil:
		return "Every streak starts with day one. Today is a good day."
	case info.Current == 0 && info.Previous > 1:
		return fmt.Sprintf("You had a %d-day streak going. Pick it back up today.", info.Previous)
	case info.Current == 0 && info.DaysSinceLastActivity != nil && *info.DaysSinceLastActivity == 1:
		return "Yesterday counted. Keep the chain going today."
	case info.Current == 0:
		return "A fresh start is one check-in away."
	case info.Current == 1:
		return "Day one done. Come back tomorrow to make it a streak."
	case info.Current >= info.Longest && info.Current >= 7:
		return fmt.Sprintf("%d days in a row, your best yet!", info.Current)
	case info.Current >= 30:
		return fmt.Sprintf("%d days strong. This is a habit now.", info.Current)
	case info.Current >= info.Longest:
		return fmt.Sprintf("%d days in a row. Keep it going!", info.Current)
	default:
		return fmt.Sprintf("%d-day streak. %d more to beat your best of %d.",
			info.Current, info.Longest-info.Current+1, info.Longest)
	}
}
