package cmd

import (
	"context"
	"fmt"

	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [habit]",
	Short: "Rebuild cached levels and streaks from the records",
	Long: `Rebuild cached levels and streaks from the raw records.

Without a habit every habit is rebuilt, archived ones included. Run this
after changing the [levels] tables in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecompute,
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		h, err := a.habits.Get(args[0])
		if err != nil {
			return err
		}
		agg, err := a.habits.Recompute(h.ID)
		if err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("%s: %d days, Lv %d, %.1fh (hours Lv %d)",
			h.Name, agg.UniqueDays, agg.CompletionLevel, agg.TotalHours, agg.HoursLevel))
		return nil
	}

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	n, err := a.habits.RecomputeAll(ctx)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Recomputed %d habit(s)", n))
	return nil
}
