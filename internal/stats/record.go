// Package stats derives levels, streaks and completion rates from a habit's
// record history. Everything here is a pure function of its arguments; the
// persistence layer recomputes and stores the results.
package stats

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/habits/internal/calendar"
)

// Status is the state of a habit on a given day.
type Status string

const (
	StatusActive    Status = "active" // planned, not done yet
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusActive, StatusCompleted, StatusSkipped}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusCompleted, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q (expected active, completed or skipped)", s)
}

// Record is one habit day.
type Record struct {
	Date            calendar.Day  `json:"date"`
	Status          Status        `json:"status"`
	DurationMinutes int           `json:"duration_minutes"`
	RecoveryDate    *calendar.Day `json:"recovery_date,omitempty"` // skipped records only
}

// completedDates indexes the dates of completed records.
func completedDates(records []Record) calendar.Set {
	set := make(calendar.Set, len(records))
	for _, r := range records {
		if r.Status == StatusCompleted {
			set.Add(r.Date)
		}
	}
	return set
}

// Recovered reports whether r is a skip that was made up: its recovery day
// has a completed record in completed.
func Recovered(r Record, completed calendar.Set) bool {
	return r.Status == StatusSkipped && r.RecoveryDate != nil && completed.Has(*r.RecoveryDate)
}

// ValidDates returns the unique ascending days that count as activity:
// completed days plus the own dates of recovered skips.
func ValidDates(records []Record) []calendar.Day {
	completed := completedDates(records)
	valid := make(calendar.Set, len(completed))
	for d := range completed {
		valid.Add(d)
	}
	for _, r := range records {
		if Recovered(r, completed) {
			valid.Add(r.Date)
		}
	}
	return valid.Sorted()
}
