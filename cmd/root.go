package cmd

import (
	"fmt"
	"os"

	"github.com/rnwolfe/habits/internal/config"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/tips"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Track habits, build streaks, level up",
	Long: `habits keeps a daily record of the things you want to do regularly.

Check in with "habits done", skip a day and make it up later with
"habits skip --recover-on", and watch streaks and levels grow.`,
	RunE:              runDashboard,
	PersistentPreRunE: setup,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug output to stderr")
}

// setup runs before every command: color profile first, then logging.
// A broken config file must not stop `habits config` from fixing it, so
// load errors only lose the log.debug setting here.
func setup(_ *cobra.Command, _ []string) error {
	ui.ConfigureColor(flagNoColor)

	debug := flagDebug
	if cfg, err := config.Load(); err == nil && cfg.Log.Debug {
		debug = true
	}
	if err := logger.Init(logger.Config{Debug: debug, LogDir: config.GetPaths().LogDir}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

// runDashboard shows every active habit at a glance when you just type `habits`.
func runDashboard(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println(ui.Greet(a.cfg.User.Name))
	fmt.Println()

	habits, err := a.habits.List(false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("  Nothing tracked yet.")
		ui.Tip(fmt.Sprintf("%s to start your first habit.", ui.Accent.Render(`habits add "read"`)))
		fmt.Println()
		return nil
	}

	today := a.today()
	ui.Kv("📅 Today", today.Format("Monday, January 2"))
	fmt.Println()

	pending := 0
	for _, h := range habits {
		records, err := a.habits.Records(h.ID, noFilter)
		if err != nil {
			return err
		}
		agg, err := a.habits.Level(h.ID)
		if err != nil {
			return err
		}
		info := a.calc.LevelInfo(agg, records, nil, today)
		status := statusOn(records, today)
		if status != stats.StatusCompleted {
			pending++
		}

		fmt.Printf("  %s %s  %s  %s  %s\n",
			statusIcon(status),
			habitName(h.Name, h.Color, 18),
			ui.Muted.Render(fmt.Sprintf("%s%-4d", ui.IconFire, info.Streak.Current)),
			levelBadge("Lv", info.Completion),
			levelBadge("h", info.Hours),
		)
		fmt.Println(ui.Muted.Render("      " + info.Streak.Message))
	}

	switch {
	case pending == 0:
		ui.Ok("Everything is done for today.")
		ui.Tip(tips.Daily(today))
	case pending == 1:
		ui.Tip(fmt.Sprintf("one habit left today. %s when it's done.", ui.Accent.Render("habits done <habit>")))
	default:
		ui.Tip(fmt.Sprintf("%d habits left today. %s when one is done.", pending, ui.Accent.Render("habits done <habit>")))
	}
	fmt.Println()
	return nil
}
