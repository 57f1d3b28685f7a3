package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	rateView  string
	rateDate  string
	rateMonth string
)

var rateCmd = &cobra.Command{
	Use:   "rate [habit]",
	Short: "Completion rate for a day, week or month",
	Long: `Completion rate over a day, a Monday-to-Sunday week or a calendar month.

Days after today are not counted, so the current week or month is rated
only over the days that have passed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.Flags().StringVar(&rateView, "view", "week", "day, week or month")
	rateCmd.Flags().StringVar(&rateDate, "date", "", "Any day inside the period (default today)")
	rateCmd.Flags().StringVar(&rateMonth, "month", "", "Month to rate (YYYY-MM); implies --view month and conflicts with other views")
}

func runRate(cmd *cobra.Command, args []string) error {
	view, err := stats.ParseView(rateView)
	if err != nil {
		return err
	}
	var month *calendar.Day
	if rateMonth != "" {
		m, err := parseMonth(rateMonth)
		if err != nil {
			return err
		}
		month = &m
		switch {
		case cmd == nil || !cmd.Flags().Changed("view"):
			view = stats.ViewMonth
		case view != stats.ViewMonth:
			return fmt.Errorf("--month only applies to --view month, not %q", rateView)
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	selected, err := a.parseDay(rateDate, true)
	if err != nil {
		return err
	}
	records, err := a.habits.Records(h.ID, noFilter)
	if err != nil {
		return err
	}

	c := stats.CompletionRate(records, selected, view, month, a.today())
	ui.Header(fmt.Sprintf("%s · %s", h.Name, periodLabel(view, c.Range, selected, month)))
	fmt.Println()
	if c.TotalDays == 0 {
		fmt.Println(ui.Muted.Render("  This period hasn't started yet."))
		fmt.Println()
		return nil
	}

	ui.Kv("Range", fmt.Sprintf("%s %s %s", c.Range.Start, ui.IconArrow, c.Range.End))
	ui.Kv("Done", fmt.Sprintf("%d of %d days", c.CompletedDays, c.TotalDays))
	ui.Kv("Rate", ui.ProgressBar(int(math.Round(c.Rate)), 24))
	fmt.Println()
	return nil
}

func parseMonth(s string) (calendar.Day, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return calendar.Day{}, fmt.Errorf("invalid month %q, use YYYY-MM", s)
	}
	return calendar.New(t.Year(), t.Month(), 1), nil
}

func periodLabel(view stats.View, r stats.Range, selected calendar.Day, month *calendar.Day) string {
	switch view {
	case stats.ViewMonth:
		anchor := selected
		if month != nil {
			anchor = *month
		}
		return anchor.Format("January 2006")
	case stats.ViewWeek:
		return "week of " + r.Start.Format("Mon Jan 2")
	}
	return selected.Format("Mon Jan 2, 2006")
}
