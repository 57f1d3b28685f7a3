package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnwolfe/habits/internal/habit"
)

func TestBackupExportImport(t *testing.T) {
	configTestEnv(t)
	t.Setenv(passphraseEnv, "correct horse battery staple")

	seedStreak(t, "Read", "2025-03-09", "2025-03-10")
	run(t, runAdd, "Walk")
	file := filepath.Join(t.TempDir(), "habits.age")

	out := run(t, runBackupExport, file)
	if !strings.Contains(out, "2 habit(s), 2 record(s)") {
		t.Errorf("export output: %q", out)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if strings.Contains(string(raw), "Read") {
		t.Fatal("backup contains plaintext habit name")
	}

	deleteYes = true
	run(t, runDelete, "read")

	out = run(t, runBackupImport, file)
	if !strings.Contains(out, "Restored 2 habit(s)") {
		t.Errorf("import output: %q", out)
	}

	a := mustOpen(t)
	h, err := a.habits.Get("read")
	if err != nil {
		t.Fatalf("restored habit: %v", err)
	}
	records, _ := a.habits.Records(h.ID, habit.RecordFilter{})
	if len(records) != 2 {
		t.Errorf("restored %d records, want 2", len(records))
	}
	agg, _ := a.habits.Level(h.ID)
	if agg.UniqueDays != 2 || agg.CurrentStreak != 2 {
		t.Errorf("restored aggregate = %+v", agg)
	}
}

func TestBackupImport_WrongPassphrase(t *testing.T) {
	configTestEnv(t)
	t.Setenv(passphraseEnv, "first")
	run(t, runAdd, "Read")
	file := filepath.Join(t.TempDir(), "habits.age")
	run(t, runBackupExport, file)

	t.Setenv(passphraseEnv, "second")
	err := runBackupImport(nil, []string{file})
	if err == nil || !strings.Contains(err.Error(), "wrong passphrase") {
		t.Fatalf("expected wrong passphrase error, got %v", err)
	}
}

func TestBackup_NoPassphraseNonInteractive(t *testing.T) {
	configTestEnv(t)
	file := filepath.Join(t.TempDir(), "habits.age")

	err := runBackupExport(nil, []string{file})
	if err == nil || !strings.Contains(err.Error(), passphraseEnv) {
		t.Fatalf("expected passphrase error, got %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("export without passphrase wrote a file")
	}
}

func TestBackupImport_MissingFile(t *testing.T) {
	configTestEnv(t)
	t.Setenv(passphraseEnv, "x")
	if err := runBackupImport(nil, []string{filepath.Join(t.TempDir(), "nope.age")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
