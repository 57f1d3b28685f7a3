package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rnwolfe/habits/internal/ui"
	"github.com/spf13/cobra"
)

// fixedNow is 21:00 on Monday 2025-03-10 in the default Asia/Tokyo zone.
var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// configTestEnv isolates XDG dirs, pins the clock, clears flag state and
// detaches stdin from any terminal.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("HABITS_PASSPHRASE", "")

	oldNow := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = oldNow })

	ui.ConfigureColor(true)
	resetFlags()
	t.Cleanup(resetFlags)

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("open %s: %v", os.DevNull, err)
	}
	oldStdin := os.Stdin
	os.Stdin = devNull
	t.Cleanup(func() {
		os.Stdin = oldStdin
		devNull.Close()
	})
}

func resetFlags() {
	addDescription, addColor = "", ""
	listAll, deleteYes = false, false
	checkinDate, doneMinutes, skipRecover = "", 0, ""
	showDate, showJSON = "", false
	rateView, rateDate, rateMonth = "week", "", ""
	timerStopwatch, timerSimple = false, false
	versionShort = false
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	fn()

	w.Close()
	return string(<-done)
}

// run calls a command's RunE with captured stdout and fails the test on error.
func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var err error
	out := captureStdout(t, func() { err = fn(nil, args) })
	if err != nil {
		t.Fatalf("command %v: %v\noutput:\n%s", args, err, out)
	}
	return out
}

// mustOpen opens the app for assertions against the store.
func mustOpen(t *testing.T) *app {
	t.Helper()
	a, err := openApp()
	if err != nil {
		t.Fatalf("openApp: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}
