package cmd

import (
	"errors"
	"fmt"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	checkinDate string
	doneMinutes int
	skipRecover string
)

var doneCmd = &cobra.Command{
	Use:   "done [habit]",
	Short: "Mark a habit done",
	Long: `Mark a habit done for today, or for --date.

With --minutes the time is added to whatever was already logged that day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

var skipCmd = &cobra.Command{
	Use:   "skip [habit]",
	Short: "Skip a day, optionally making it up on another",
	Long: `Skip a habit for today, or for --date.

A skipped day with --recover-on counts toward streaks and levels once the
habit is done on the recovery date.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSkip,
}

var planCmd = &cobra.Command{
	Use:   "plan [habit]",
	Short: "Plan a habit for a day without completing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

var undoCmd = &cobra.Command{
	Use:   "undo [habit]",
	Short: "Remove the record for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUndo,
}

func init() {
	rootCmd.AddCommand(doneCmd, skipCmd, planCmd, undoCmd)

	for _, c := range []*cobra.Command{doneCmd, skipCmd, planCmd, undoCmd} {
		c.Flags().StringVar(&checkinDate, "date", "", "Day to record (YYYY-MM-DD, today, yesterday)")
	}
	doneCmd.Flags().IntVarP(&doneMinutes, "minutes", "m", 0, "Minutes spent")
	skipCmd.Flags().StringVar(&skipRecover, "recover-on", "", "Day the skip is made up (YYYY-MM-DD)")
}

func runDone(_ *cobra.Command, args []string) error {
	if doneMinutes < 0 {
		return fmt.Errorf("--minutes must not be negative")
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
	day, err := a.parseDay(checkinDate, false)
	if err != nil {
		return err
	}
	before, err := a.habits.Level(h.ID)
	if err != nil {
		return err
	}

	var after stats.Aggregate
	if doneMinutes > 0 {
		after, err = a.habits.AddMinutes(h.ID, day, doneMinutes)
	} else {
		records, rerr := a.habits.Records(h.ID, habit.RecordFilter{From: day, To: day})
		if rerr != nil {
			return rerr
		}
		if statusOn(records, day) == stats.StatusCompleted {
			ui.Inf(fmt.Sprintf("%s is already done for %s.", h.Name, dayLabel(day, a.today())))
			return nil
		}
		after, err = a.habits.Log(h.ID, stats.Record{Date: day, Status: stats.StatusCompleted})
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%s done for %s", h.Name, dayLabel(day, a.today()))
	if doneMinutes > 0 {
		msg += fmt.Sprintf(" (+%d min)", doneMinutes)
	}
	ui.Ok(msg)
	a.recordSummary(h, before, after)
	return nil
}

func runSkip(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	day, err := a.parseDay(checkinDate, true)
	if err != nil {
		return err
	}
	rec := stats.Record{Date: day, Status: stats.StatusSkipped}
	if skipRecover != "" {
		rd, err := a.parseDay(skipRecover, true)
		if err != nil {
			return fmt.Errorf("--recover-on: %w", err)
		}
		rec.RecoveryDate = &rd
	}

	before, err := a.habits.Level(h.ID)
	if err != nil {
		return err
	}
	after, err := a.habits.Log(h.ID, rec)
	if errors.Is(err, habit.ErrInvalidRecord) {
		return fmt.Errorf("can't skip %s: %w", day, err)
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%s skipped for %s", h.Name, dayLabel(day, a.today()))
	if rec.RecoveryDate != nil {
		msg += fmt.Sprintf(", making it up on %s", dayLabel(*rec.RecoveryDate, a.today()))
	}
	ui.Ok(msg)
	a.recordSummary(h, before, after)
	return nil
}

func runPlan(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	day, err := a.parseDay(checkinDate, true)
	if err != nil {
		return err
	}
	if _, err := a.habits.Log(h.ID, stats.Record{Date: day, Status: stats.StatusActive}); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s planned for %s", h.Name, dayLabel(day, a.today())))
	return nil
}

func runUndo(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	day, err := a.parseDay(checkinDate, true)
	if err != nil {
		return err
	}
	before, err := a.habits.Level(h.ID)
	if err != nil {
		return err
	}
	after, err := a.habits.Unlog(h.ID, day)
	if errors.Is(err, habit.ErrNotFound) {
		return fmt.Errorf("nothing recorded for %s on %s", h.Name, day)
	}
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Removed %s's record for %s", h.Name, dayLabel(day, a.today())))
	if after.CompletionLevel < before.CompletionLevel {
		ui.Warn(fmt.Sprintf("Completion level dropped to %d", after.CompletionLevel))
	}
	return nil
}

func dayLabel(d, today calendar.Day) string {
	switch today.Sub(d) {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	case -1:
		return "tomorrow"
	}
	return d.Format("Mon Jan 2")
}
