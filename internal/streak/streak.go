// Package streak computes consecutive-day runs over habit activity dates.
package streak

import "github.com/rnwolfe/habits/internal/calendar"

// Info holds the streak state as of a reference day.
type Info struct {
	Current int
	Longest int
	// Previous is the run that ended at the last activity before a gap.
	// Only set when Current is 0.
	Previous              int
	LastActivity          *calendar.Day
	DaysSinceLastActivity *int
}

// Compute derives streak state from activity dates relative to today.
//
// Dates may be unsorted and contain duplicates. A streak is consecutive
// calendar days with activity; the current streak counts back from today
// itself, so a day without activity today means a current streak of 0.
func Compute(dates []calendar.Day, today calendar.Day) Info {
	days := calendar.Unique(dates)
	if len(days) == 0 {
		return Info{}
	}

	info := Info{
		Current: currentRun(calendar.NewSet(days...), today),
		Longest: longest(days),
	}

	// Recovered skips can date activity after today; the last run ends at or before today.
	past := days
	for len(past) > 0 && past[len(past)-1].After(today) {
		past = past[:len(past)-1]
	}
	if len(past) == 0 {
		return info
	}
	last := past[len(past)-1]
	since := today.Sub(last)
	info.LastActivity = &last
	info.DaysSinceLastActivity = &since

	if info.Current == 0 {
		info.Previous = previous(past)
	}
	return info
}

// Current returns the number of consecutive days with activity ending at today.
func Current(dates []calendar.Day, today calendar.Day) int {
	return currentRun(calendar.NewSet(dates...), today)
}

// AsOf returns what the current streak was on target, ignoring later activity.
func AsOf(dates []calendar.Day, target calendar.Day) int {
	set := make(calendar.Set, len(dates))
	for _, d := range dates {
		if !d.After(target) {
			set.Add(d)
		}
	}
	return currentRun(set, target)
}

func currentRun(set calendar.Set, today calendar.Day) int {
	run := 0
	for set.Has(today.AddDays(-run)) {
		run++
	}
	return run
}

// longest scans ascending unique days for the longest consecutive run.
func longest(asc []calendar.Day) int {
	best := 1
	run := 1
	for i := 1; i < len(asc); i++ {
		if asc[i].Sub(asc[i-1]) == 1 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

// previous returns the length of the run ending at the most recent day.
// A lone day in the history has no previous streak; with two or more days the
// run ending at the last one counts even if it is a single isolated day.
func previous(asc []calendar.Day) int {
	if len(asc) <= 1 {
		return 0
	}
	run := 1
	for i := len(asc) - 1; i > 0; i-- {
		if asc[i].Sub(asc[i-1]) != 1 {
			break
		}
		run++
	}
	return run
}
