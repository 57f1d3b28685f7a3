package backup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/stats"
	"github.com/rnwolfe/habits/internal/store"
)

const testPassphrase = "test-passphrase-12345"

func init() {
	workFactor = 10 // keep scrypt fast in tests
}

func newTestStore(t *testing.T) *habit.Store {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return habit.NewStore(db.Conn(), stats.Default(), time.UTC)
}

func seed(t *testing.T, s *habit.Store) *habit.Habit {
	t.Helper()
	h, err := s.Add("Read", "before bed")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Archive("read"); err != nil {
		t.Fatal(err)
	}
	recovery := calendar.MustParse("2025-01-03")
	for _, r := range []stats.Record{
		{Date: calendar.MustParse("2025-01-01"), Status: stats.StatusCompleted, DurationMinutes: 45},
		{Date: calendar.MustParse("2025-01-02"), Status: stats.StatusSkipped, RecoveryDate: &recovery},
		{Date: calendar.MustParse("2025-01-03"), Status: stats.StatusCompleted, DurationMinutes: 15},
	} {
		if _, err := s.Log(h.ID, r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Add("Run", ""); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	read := seed(t, src)

	snap, err := Build(src, time.Date(2025, 1, 4, 8, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Habits) != 2 || snap.Version != Version {
		t.Fatalf("snapshot = %+v", snap)
	}

	path := filepath.Join(t.TempDir(), "out", "habits.age")
	if err := WriteFile(path, snap, testPassphrase); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := ReadFile(path, testPassphrase)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	dst := newTestStore(t)
	n, err := Apply(dst, loaded)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 2 {
		t.Errorf("restored %d habits, want 2", n)
	}

	got, err := dst.Get(read.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Read" || got.Description != "before bed" || !got.Archived {
		t.Errorf("restored habit = %+v", got)
	}
	records, _ := dst.Records(read.ID, habit.RecordFilter{})
	if len(records) != 3 || records[1].RecoveryDate == nil || records[1].RecoveryDate.String() != "2025-01-03" {
		t.Errorf("restored records = %+v", records)
	}
	agg, _ := dst.Level(read.ID)
	if agg.UniqueDays != 3 || agg.TotalHours != 1 {
		t.Errorf("restored aggregate = %+v", agg)
	}

	// Importing twice changes nothing.
	if _, err := Apply(dst, loaded); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if all, _ := dst.List(true); len(all) != 2 {
		t.Errorf("habits after second import = %d", len(all))
	}
}

func TestWrongPassphrase(t *testing.T) {
	raw, err := Encrypt(&Snapshot{Version: Version}, testPassphrase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(raw, "wrong-passphrase"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("error = %v, want ErrWrongPassphrase", err)
	}
}

func TestCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.age")
	if err := os.WriteFile(path, []byte("this is not a valid age file"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path, testPassphrase); !errors.Is(err, ErrCorrupted) {
		t.Errorf("error = %v, want ErrCorrupted", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	raw, err := Encrypt(&Snapshot{Version: Version + 1}, testPassphrase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(raw, testPassphrase); !errors.Is(err, ErrCorrupted) {
		t.Errorf("error = %v, want ErrCorrupted", err)
	}
}

func TestEmptyPassphraseRejected(t *testing.T) {
	if _, err := Encrypt(&Snapshot{Version: Version}, ""); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}

func TestPlaintextNotOnDisk(t *testing.T) {
	src := newTestStore(t)
	seed(t, src)
	snap, err := Build(src, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "habits.age")
	if err := WriteFile(path, snap, testPassphrase); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("before bed")) {
		t.Error("plaintext found in backup file")
	}
	if !bytes.HasPrefix(raw, []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
		t.Error("backup is not ASCII-armored")
	}
	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habits.age")
	for i := 0; i < 3; i++ {
		if err := atomicWrite(path, []byte("data")); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}
