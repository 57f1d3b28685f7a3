package stats

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/habits/internal/calendar"
)

// View is the calendar granularity a completion rate is computed over.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView parses a view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q (expected day, week or month)", s)
}

// Range is an inclusive span of days.
type Range struct {
	Start     calendar.Day `json:"start"`
	End       calendar.Day `json:"end"`
	TotalDays int          `json:"total_days"`
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d calendar.Day) bool {
	return r.TotalDays > 0 && !d.Before(r.Start) && !d.After(r.End)
}

// TargetDateRange resolves a view into a concrete span around selected.
// Weeks start on Monday. For the month view, currentMonth (any day in the
// month being browsed) takes precedence over selected. The end is clamped to
// today so unelapsed days never count; a span entirely in the future has
// TotalDays 0.
func TargetDateRange(selected calendar.Day, view View, currentMonth *calendar.Day, today calendar.Day) Range {
	var start, end calendar.Day
	switch view {
	case ViewWeek:
		start = selected.StartOfWeek()
		end = start.AddDays(6)
	case ViewMonth:
		anchor := selected
		if currentMonth != nil {
			anchor = *currentMonth
		}
		start = anchor.StartOfMonth()
		end = anchor.EndOfMonth()
	default:
		start, end = selected, selected
	}

	if end.After(today) {
		end = today
	}
	total := end.Sub(start) + 1
	if total < 0 {
		total = 0
	}
	return Range{Start: start, End: end, TotalDays: total}
}

// Completion is a completion rate over a range.
type Completion struct {
	Range         Range   `json:"range"`
	Rate          float64 `json:"rate"` // percent, 0-100
	CompletedDays int     `json:"completed_days"`
	TotalDays     int     `json:"total_days"`
}

// CompletionRate counts valid activity days inside the resolved range and
// divides by the range length. Recovery is checked against the full history,
// so a skip inside the range made up outside it still counts.
func CompletionRate(records []Record, selected calendar.Day, view View, currentMonth *calendar.Day, today calendar.Day) Completion {
	r := TargetDateRange(selected, view, currentMonth, today)
	c := Completion{Range: r, TotalDays: r.TotalDays}
	if r.TotalDays == 0 {
		return c
	}

	for _, d := range ValidDates(records) {
		if r.Contains(d) {
			c.CompletedDays++
		}
	}
	c.Rate = float64(c.CompletedDays) / float64(r.TotalDays) * 100
	return c
}
