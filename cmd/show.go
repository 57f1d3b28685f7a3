package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/level"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	showDate string
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [habit]",
	Short: "Levels, streaks and this month's calendar for a habit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showDate, "date", "", "Show the streak as of this day and its month")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the level info as JSON")
}

func runShow(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	today := a.today()
	var selected *calendar.Day
	if showDate != "" {
		d, err := a.parseDay(showDate, true)
		if err != nil {
			return err
		}
		selected = &d
	}

	agg, err := a.habits.Level(h.ID)
	if err != nil {
		return err
	}
	records, err := a.habits.Records(h.ID, noFilter)
	if err != nil {
		return err
	}
	info := a.calc.LevelInfo(agg, records, selected, today)

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Habit string          `json:"habit"`
			Info  stats.LevelInfo `json:"info"`
		}{h.Name, info})
	}

	ui.Header(h.Name)
	if h.Description != "" {
		fmt.Println(ui.Notes(h.Description))
	}
	fmt.Println()

	printMetric("Completion", info.Completion, level.Completion)
	printMetric("Hours", info.Hours, level.Hours)
	fmt.Println()

	s := info.Streak
	ui.Kv(ui.IconFire+"Streak", fmt.Sprintf("%d days", s.Current))
	ui.Kv("Longest", fmt.Sprintf("%d days", s.Longest))
	if s.Current == 0 && s.Previous > 0 {
		ui.Kv("Previous", fmt.Sprintf("%d days", s.Previous))
	}
	if selected != nil && !selected.Equal(today) {
		ui.Kv("On "+s.SelectedDate.String(), fmt.Sprintf("%d days", s.Selected))
	}
	if s.LastActivity != nil && s.DaysSinceLastActivity != nil {
		ui.Kv("Last done", fmt.Sprintf("%s (%s)", s.LastActivity, daysAgo(*s.DaysSinceLastActivity)))
	}
	fmt.Println()
	fmt.Println(ui.Accent.Render("  " + s.Message))
	fmt.Println()

	month := today
	if selected != nil {
		month = *selected
	}
	done, skipped := daySets(records)
	fmt.Println(ui.Heatmap(month, done, skipped, today))
	fmt.Println()
	return nil
}

func printMetric(name string, m stats.MetricInfo, metric level.Metric) {
	title := fmt.Sprintf("Lv %d  %s %s", m.Level, m.Title.Icon, m.Title.Name)
	ui.Kv(name, levelBadgeText(title, m))

	var progress string
	switch {
	case m.Level >= level.MaxLevel:
		progress = "max level"
	case metric == level.Hours:
		progress = fmt.Sprintf("%.1f / %.1f hours", m.Current, m.Next)
	default:
		progress = fmt.Sprintf("%.0f / %.0f days", m.Current, m.Next)
	}
	ui.Kv("", ui.ProgressBar(m.ProgressPercent, 24)+"  "+ui.Muted.Render(progress))
}

func levelBadgeText(text string, m stats.MetricInfo) string {
	if m.Title.Color == "" {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.Title.Color)).Render(text)
}

// daySets splits records into days that count as done and skips that were
// not made up.
func daySets(records []stats.Record) (done, skipped calendar.Set) {
	done = calendar.NewSet(stats.ValidDates(records)...)
	skipped = calendar.NewSet()
	for _, r := range records {
		if r.Status == stats.StatusSkipped && !done.Has(r.Date) {
			skipped.Add(r.Date)
		}
	}
	return done, skipped
}

func daysAgo(n int) string {
	switch {
	case n <= 0:
		return "today"
	case n == 1:
		return "yesterday"
	}
	return fmt.Sprintf("%d days ago", n)
}
