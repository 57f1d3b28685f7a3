package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/config"
	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/level"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/store"
	"github.com/rnwolfe/habits/internal/tui"
	"github.com/rnwolfe/habits/internal/ui"
)

// now is the command layer's clock. Tests pin it.
var now = time.Now

// lastHabitKey remembers the habit used most recently, so the habit argument
// can be left out of follow-up commands.
const lastHabitKey = "last_habit"

var noFilter = habit.RecordFilter{}

// app bundles what most commands need: config, database and habit store.
type app struct {
	cfg    *config.Config
	db     *store.DB
	habits *habit.Store
	calc   *stats.Calculator
	loc    *time.Location
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	calc := stats.New(tables, level.DefaultTitles())
	hs := habit.NewStore(db.Conn(), calc, loc)
	hs.SetClock(now)
	return &app{cfg: cfg, db: db, habits: hs, calc: calc, loc: loc}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) today() calendar.Day {
	return calendar.Today(now(), a.loc)
}

// resolveHabit finds the habit a command acts on: the argument when given,
// then the last habit used, then an interactive picker.
func (a *app) resolveHabit(args []string) (*habit.Habit, error) {
	var (
		h   *habit.Habit
		err error
	)
	switch {
	case len(args) > 0:
		h, err = a.habits.Get(args[0])
	default:
		h, err = a.lastOrPick()
	}
	if err != nil {
		return nil, err
	}
	if err := a.db.SetState(lastHabitKey, h.ID); err != nil {
		logger.Warn("remembering last habit", "err", err)
	}
	return h, nil
}

func (a *app) lastOrPick() (*habit.Habit, error) {
	if id, err := a.db.GetState(lastHabitKey); err == nil && id != "" {
		h, err := a.habits.Get(id)
		if err == nil && !h.Archived {
			return h, nil
		}
		if err != nil && !errors.Is(err, habit.ErrNotFound) {
			return nil, err
		}
	}

	if !tui.IsTTY() {
		return nil, fmt.Errorf("which habit? pass a name, e.g. %s", ui.Accent.Render(`habits done "read"`))
	}

	habits, err := a.habits.List(false)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, fmt.Errorf("no habits yet, add one with %s", ui.Accent.Render(`habits add "read"`))
	}
	choices := make([]tui.Choice, len(habits))
	for i, h := range habits {
		choices[i] = tui.Choice{ID: h.ID, Label: h.Name, Detail: h.Description}
	}
	picked, err := tui.Pick("Which habit?", choices)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, errors.New("no habit selected")
	}
	return a.habits.Get(picked.ID)
}

// parseDay reads a --date value. Empty means today; "yesterday" and
// "tomorrow" are accepted along with YYYY-MM-DD.
func (a *app) parseDay(s string, allowFuture bool) (calendar.Day, error) {
	today := a.today()
	var d calendar.Day
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		d = today
	case "yesterday":
		d = today.AddDays(-1)
	case "tomorrow":
		d = today.AddDays(1)
	default:
		var err error
		if d, err = calendar.Parse(s); err != nil {
			return calendar.Day{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
		}
	}
	if !allowFuture && d.After(today) {
		return calendar.Day{}, fmt.Errorf("%s is in the future", d)
	}
	return d, nil
}

// statusOn returns the status recorded on day, or "" when there is none.
func statusOn(records []stats.Record, day calendar.Day) stats.Status {
	for _, r := range records {
		if r.Date.Equal(day) {
			return r.Status
		}
	}
	return ""
}

func statusIcon(s stats.Status) string {
	switch s {
	case stats.StatusCompleted:
		return ui.Success.Render(ui.IconDone)
	case stats.StatusSkipped:
		return ui.Warning.Render(ui.IconSkip)
	case stats.StatusActive:
		return ui.Info.Render(ui.IconPlan)
	}
	return ui.Muted.Render(ui.IconDot)
}

// habitName renders a habit name in its own color, padded to width.
func habitName(name, color string, width int) string {
	style := lipgloss.NewStyle().Bold(true)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style.Width(width).Render(name)
}

func levelBadge(prefix string, m stats.MetricInfo) string {
	style := lipgloss.NewStyle()
	if m.Title.Color != "" {
		style = style.Foreground(lipgloss.Color(m.Title.Color))
	}
	return style.Render(fmt.Sprintf("%s %s%d", m.Title.Icon, prefix, m.Level))
}

// levelUps reports which levels rose between two aggregates.
func levelUps(before, after stats.Aggregate) []string {
	var ups []string
	if after.CompletionLevel > before.CompletionLevel {
		ups = append(ups, fmt.Sprintf("completion level %d", after.CompletionLevel))
	}
	if after.HoursLevel > before.HoursLevel {
		ups = append(ups, fmt.Sprintf("hours level %d", after.HoursLevel))
	}
	return ups
}

// recordSummary prints what a check-in changed.
func (a *app) recordSummary(h *habit.Habit, before, after stats.Aggregate) {
	for _, up := range levelUps(before, after) {
		fmt.Printf("  %s %s reached %s!\n", ui.IconStar, h.Name, ui.Accent.Render(up))
	}
	ui.Kv(ui.IconFire+"Streak", fmt.Sprintf("%d days (best %d)", after.CurrentStreak, after.LongestStreak))
	ui.Kv("Levels", fmt.Sprintf("Lv %d · %.1fh (hours Lv %d)", after.CompletionLevel, after.TotalHours, after.HoursLevel))
}
