package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/rnwolfe/habits/internal/backup"
	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passphraseEnv supplies the backup passphrase without a prompt.
const passphraseEnv = "HABITS_PASSPHRASE"

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Encrypted export and import of all habits",
	Long: `Export every habit and record to a single age-encrypted file, or
restore from one.

The passphrase is read from HABITS_PASSPHRASE when set, otherwise you are
prompted for it.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore habits and records from a backup",
	Long: `Restore habits and records from a backup.

Habits are matched by ID and records by day; anything not in the backup
is left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
}

func runBackupExport(_ *cobra.Command, args []string) error {
	passphrase, err := readPassphrase(true)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := backup.Build(a.habits, now())
	if err != nil {
		return err
	}
	if err := backup.WriteFile(args[0], snap, passphrase); err != nil {
		return err
	}

	records := 0
	for _, h := range snap.Habits {
		records += len(h.Records)
	}
	ui.Ok(fmt.Sprintf("Backed up %d habit(s), %d record(s) to %s", len(snap.Habits), records, args[0]))
	return nil
}

func runBackupImport(_ *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	snap, err := backup.ReadFile(args[0], passphrase)
	if errors.Is(err, backup.ErrWrongPassphrase) {
		return fmt.Errorf("wrong passphrase for %s", args[0])
	}
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := backup.Apply(a.habits, snap)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Restored %d habit(s) from %s", n, args[0]))
	ui.Inf(fmt.Sprintf("Exported %s", snap.ExportedAt.Local().Format("Jan 2, 2006 15:04")))
	return nil
}

// readPassphrase returns the backup passphrase from the environment or an
// interactive prompt. confirm asks for it twice.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("backup passphrase required, set %s or run interactively", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  "+ui.IconKey+" Passphrase: "))
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	passphrase := strings.TrimSpace(string(first))
	if passphrase == "" {
		return "", errors.New("passphrase can't be empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirm passphrase: "))
		second, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if strings.TrimSpace(string(second)) != passphrase {
			return "", errors.New("passphrases do not match")
		}
	}
	return passphrase, nil
}
