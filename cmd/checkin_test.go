package cmd

import (
	"math"
	"strings"
	"testing"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/stats"
)

func TestDone_UpdatesLevels(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	checkinDate = "yesterday"
	run(t, runDone, "read")
	checkinDate = ""
	out := run(t, runDone, "read")
	if !strings.Contains(out, "Read done for today") {
		t.Errorf("unexpected output: %q", out)
	}

	a := mustOpen(t)
	h, _ := a.habits.Get("read")
	agg, err := a.habits.Level(h.ID)
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	if agg.UniqueDays != 2 || agg.CurrentStreak != 2 {
		t.Errorf("aggregate = %+v, want 2 days on a 2-day streak", agg)
	}
}

func TestDone_AlreadyDone(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")
	run(t, runDone, "read")

	out := run(t, runDone, "read")
	if !strings.Contains(out, "already done") {
		t.Errorf("expected already-done notice, got %q", out)
	}
}

func TestDone_MinutesAccumulate(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Guitar")

	doneMinutes = 30
	run(t, runDone, "guitar")
	run(t, runDone, "guitar")

	a := mustOpen(t)
	h, _ := a.habits.Get("guitar")
	agg, _ := a.habits.Level(h.ID)
	if math.Abs(agg.TotalHours-1.0) > 1e-9 {
		t.Errorf("TotalHours = %v, want 1.0", agg.TotalHours)
	}
	if agg.UniqueDays != 1 {
		t.Errorf("UniqueDays = %d, want 1", agg.UniqueDays)
	}
}

func TestDone_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		minutes int
		want    string
	}{
		{"future", "2025-03-11", 0, "in the future"},
		{"malformed", "10/03/2025", 0, "invalid date"},
		{"negative minutes", "", -5, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configTestEnv(t)
			run(t, runAdd, "Read")
			checkinDate, doneMinutes = tt.date, tt.minutes

			err := runDone(nil, []string{"read"})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDone_UsesLastHabit(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")
	run(t, runAdd, "Walk")

	// add remembers the newest habit
	out := run(t, runDone)
	if !strings.Contains(out, "Walk done") {
		t.Errorf("expected last habit to be used, got %q", out)
	}
}

func TestDone_NoHabitNonInteractive(t *testing.T) {
	configTestEnv(t)
	err := runDone(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "which habit") {
		t.Fatalf("expected which-habit error, got %v", err)
	}
}

func TestSkip_RecoveredCounts(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	checkinDate, skipRecover = "2025-03-09", "2025-03-10"
	out := run(t, runSkip, "read")
	if !strings.Contains(out, "making it up on today") {
		t.Errorf("unexpected skip output: %q", out)
	}

	a := mustOpen(t)
	h, _ := a.habits.Get("read")
	agg, _ := a.habits.Level(h.ID)
	if agg.UniqueDays != 0 {
		t.Fatalf("unrecovered skip counted: %+v", agg)
	}

	checkinDate, skipRecover = "", ""
	run(t, runDone, "read")
	agg, _ = a.habits.Level(h.ID)
	if agg.UniqueDays != 2 || agg.CurrentStreak != 2 {
		t.Errorf("after recovery = %+v, want 2 days on a 2-day streak", agg)
	}
}

func TestSkip_RecoverSameDay(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	checkinDate, skipRecover = "2025-03-09", "2025-03-09"
	err := runSkip(nil, []string{"read"})
	if err == nil || !strings.Contains(err.Error(), "can't skip") {
		t.Fatalf("expected invalid record error, got %v", err)
	}
}

func TestPlan(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	checkinDate = "tomorrow"
	out := run(t, runPlan, "read")
	if !strings.Contains(out, "planned for tomorrow") {
		t.Errorf("unexpected plan output: %q", out)
	}

	a := mustOpen(t)
	h, _ := a.habits.Get("read")
	records, err := a.habits.Records(h.ID, habit.RecordFilter{})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 || records[0].Status != stats.StatusActive || !records[0].Date.Equal(calendar.MustParse("2025-03-11")) {
		t.Errorf("records = %+v", records)
	}
}

func TestUndo(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	if err := runUndo(nil, []string{"read"}); err == nil || !strings.Contains(err.Error(), "nothing recorded") {
		t.Fatalf("expected nothing-recorded error, got %v", err)
	}

	run(t, runDone, "read")
	run(t, runUndo, "read")

	a := mustOpen(t)
	h, _ := a.habits.Get("read")
	agg, _ := a.habits.Level(h.ID)
	if agg.UniqueDays != 0 {
		t.Errorf("undo left %d days", agg.UniqueDays)
	}
}

func TestParseDay(t *testing.T) {
	configTestEnv(t)
	a := mustOpen(t)

	tests := []struct {
		in          string
		allowFuture bool
		want        string
		wantErr     bool
	}{
		{"", false, "2025-03-10", false},
		{"today", false, "2025-03-10", false},
		{"Yesterday", false, "2025-03-09", false},
		{"tomorrow", true, "2025-03-11", false},
		{"tomorrow", false, "", true},
		{"2024-02-29", false, "2024-02-29", false},
		{"2025-02-30", false, "", true},
		{"soon", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := a.parseDay(tt.in, tt.allowFuture)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDayLabel(t *testing.T) {
	today := calendar.MustParse("2025-03-10")
	tests := map[string]string{
		"2025-03-10": "today",
		"2025-03-09": "yesterday",
		"2025-03-11": "tomorrow",
		"2025-03-01": "Sat Mar 1",
	}
	for in, want := range tests {
		if got := dayLabel(calendar.MustParse(in), today); got != want {
			t.Errorf("dayLabel(%s) = %q, want %q", in, got, want)
		}
	}
}
