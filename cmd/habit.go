package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/tui"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addColor       string
	listAll        bool
	deleteYes      bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Start tracking a habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <habit>",
	Short: "Hide a habit from the dashboard, keeping its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <habit>",
	Short: "Bring an archived habit back",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnarchive,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <habit>",
	Aliases: []string{"rm"},
	Short:   "Delete a habit and its whole history",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var renameCmd = &cobra.Command{
	Use:   "rename <habit> <new-name>",
	Short: "Rename a habit",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

var colorCmd = &cobra.Command{
	Use:   "color <habit> <color>",
	Short: `Set the display color of a habit ("#50C878", "212", or "" to reset)`,
	Args:  cobra.ExactArgs(2),
	RunE:  runColor,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, archiveCmd, unarchiveCmd, deleteCmd, renameCmd, colorCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Notes about the habit (markdown)")
	addCmd.Flags().StringVar(&addColor, "color", "", "Display color")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include archived habits")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func runAdd(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.habits.Add(args[0], addDescription)
	if errors.Is(err, habit.ErrDuplicate) {
		return fmt.Errorf("you already track %q", strings.TrimSpace(args[0]))
	}
	if err != nil {
		return err
	}
	if addColor != "" {
		if h, err = a.habits.SetColor(h.ID, addColor); err != nil {
			return err
		}
	}
	if err := a.db.SetState(lastHabitKey, h.ID); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Now tracking %s", habitName(h.Name, h.Color, 0)))
	ui.Tip(fmt.Sprintf("%s when you've done it today.", ui.Accent.Render("habits done")))
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	habits, err := a.habits.List(listAll)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		return nil
	}

	fmt.Println()
	for _, h := range habits {
		agg, err := a.habits.Level(h.ID)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %s  %s  %s",
			ui.Muted.Render(h.ID[:8]),
			habitName(h.Name, h.Color, 20),
			ui.Muted.Render(fmt.Sprintf("%d days · Lv %d · %.1fh", agg.UniqueDays, agg.CompletionLevel, agg.TotalHours)),
		)
		if h.Archived {
			line += " " + ui.Muted.Render(ui.IconArchive+" archived")
		}
		fmt.Println(line)
	}
	fmt.Println()
	ui.Puts(ui.Muted.Render(fmt.Sprintf("  %d habit(s)", len(habits))))
	return nil
}

func runArchive(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.habits.Archive(args[0])
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Archived %s. Its history is kept.", h.Name))
	return nil
}

func runUnarchive(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.habits.Unarchive(args[0])
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s is back on the dashboard", h.Name))
	return nil
}

func runDelete(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.habits.Get(args[0])
	if err != nil {
		return err
	}
	if !deleteYes {
		if !tui.IsTTY() {
			return fmt.Errorf("refusing to delete %q without --yes", h.Name)
		}
		if !confirm(fmt.Sprintf("Delete %q and all of its records?", h.Name)) {
			ui.Inf("Kept it.")
			return nil
		}
	}

	if _, err := a.habits.Delete(h.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s", h.Name))
	return nil
}

func runRename(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	old, err := a.habits.Get(args[0])
	if err != nil {
		return err
	}
	h, err := a.habits.Rename(old.ID, args[1])
	if errors.Is(err, habit.ErrDuplicate) {
		return fmt.Errorf("you already track %q", strings.TrimSpace(args[1]))
	}
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s %s %s", old.Name, ui.IconArrow, h.Name))
	return nil
}

func runColor(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.habits.SetColor(args[0], args[1])
	if err != nil {
		return err
	}
	if h.Color == "" {
		ui.Ok(fmt.Sprintf("%s uses the default color", h.Name))
		return nil
	}
	ui.Ok(fmt.Sprintf("%s is now %s", h.Name, habitName(h.Color, h.Color, 0)))
	return nil
}

// confirm asks a yes/no question on stdin. Anything but y/yes is a no.
func confirm(question string) bool {
	fmt.Printf("  %s %s ", question, ui.Muted.Render("[y/N]"))
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
