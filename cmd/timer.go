package cmd

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/tui"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	timerStopwatch bool
	timerSimple    bool
)

var timerCmd = &cobra.Command{
	Use:   "timer [habit] [duration]",
	Short: "Time a session and log it",
	Long: `Run a pomodoro countdown (default timer.pomodoro, 25m) or, with
--stopwatch, count up until you stop. The time spent is added to today's
record and marks the habit done.

Sessions shorter than timer.min_log are not logged.

In an interactive terminal a full-screen timer is shown; --simple keeps
the output inline.

Keyboard shortcuts (full-screen mode):
  space / p    Pause or resume
  q / Ctrl+C   End the session`,
	Args: cobra.MaximumNArgs(2),
	RunE: runTimer,
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.Flags().BoolVar(&timerStopwatch, "stopwatch", false, "Count up instead of down")
	timerCmd.Flags().BoolVar(&timerSimple, "simple", false, "Inline output instead of the full-screen timer")
}

func runTimer(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	habitArgs, duration, err := splitTimerArgs(args, a.cfg.Timer.Pomodoro.Duration)
	if err != nil {
		return err
	}
	if timerStopwatch {
		duration = 0
	}
	h, err := a.resolveHabit(habitArgs)
	if err != nil {
		return err
	}

	label := "stopwatch"
	if duration > 0 {
		label = duration.String()
	}

	var result tui.TimerResult
	if tui.IsTTY() && !timerSimple {
		result, err = tui.RunTimer(duration, h.Name+" · "+label)
	} else {
		result = simpleTimer(h.Name, duration, label)
	}
	if err != nil {
		return err
	}
	fmt.Println()
	return a.logSession(h, result)
}

// splitTimerArgs tells the habit argument from the duration argument. A lone
// argument that parses as a duration is the duration.
func splitTimerArgs(args []string, fallback time.Duration) ([]string, time.Duration, error) {
	switch len(args) {
	case 0:
		return nil, fallback, nil
	case 1:
		if d, err := time.ParseDuration(args[0]); err == nil {
			if d <= 0 {
				return nil, 0, fmt.Errorf("duration must be positive, got %s", args[0])
			}
			return nil, d, nil
		}
		return args, fallback, nil
	}
	d, err := time.ParseDuration(args[1])
	if err != nil || d <= 0 {
		return nil, 0, fmt.Errorf("invalid duration %q, try 25m, 45m or 1h", args[1])
	}
	return args[:1], d, nil
}

// logSession records a finished session against today.
func (a *app) logSession(h *habit.Habit, r tui.TimerResult) error {
	elapsed := r.Elapsed.Round(time.Second)
	minLog := a.cfg.Timer.MinLog.Duration
	if elapsed <= 0 || elapsed < minLog {
		fmt.Printf("  %s Session ended after %s\n", ui.IconTimer, elapsed)
		fmt.Println(ui.Muted.Render(fmt.Sprintf("  Shorter than %s, not logged.", minLog)))
		return nil
	}

	minutes := max(int(math.Round(elapsed.Minutes())), 1)
	before, err := a.habits.Level(h.ID)
	if err != nil {
		return err
	}
	after, err := a.habits.AddMinutes(h.ID, a.today(), minutes)
	if err != nil {
		return err
	}
	logger.Info("session logged", "habit", h.Name, "minutes", minutes, "completed", r.Completed)

	if r.Completed {
		ui.Ok(fmt.Sprintf("%s of %s. Nice.", ui.Accent.Render(elapsed.String()), h.Name))
	} else {
		ui.Ok(fmt.Sprintf("Ended early after %s. Still counts, %d min logged.", elapsed, minutes))
	}
	a.recordSummary(h, before, after)
	return nil
}

// simpleTimer prints an inline countdown (or count-up) until it finishes or
// the process is interrupted.
func simpleTimer(name string, duration time.Duration, label string) tui.TimerResult {
	fmt.Println()
	fmt.Printf("  %s %s: %s\n", ui.IconTimer, name, ui.Accent.Render(label))
	fmt.Println(ui.Muted.Render("  Ctrl+C to stop."))
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	start := time.Now()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return tui.TimerResult{Elapsed: time.Since(start), Canceled: true}
		case <-ticker.C:
			elapsed := time.Since(start)
			if duration > 0 && elapsed >= duration {
				fmt.Printf("\r  %s          \n", ui.Success.Render("Done!"))
				return tui.TimerResult{Elapsed: duration, Completed: true}
			}
			shown := elapsed
			if duration > 0 {
				shown = duration - elapsed
			}
			fmt.Printf("\r  %s  ", tui.Clock(shown))
		}
	}
}
