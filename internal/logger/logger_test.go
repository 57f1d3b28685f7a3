package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{LogDir: logDir}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(logDir); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Warn("disk almost full", "free", 12)
	data, err := os.ReadFile(filepath.Join(logDir, "habits.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "disk almost full") {
		t.Errorf("log file missing warning: %q", data)
	}
}

func TestInitDebugMirrorsToStderr(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Debug: true, LogDir: t.TempDir(), Stderr: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("recompute", "habit", "read")
	if !strings.Contains(buf.String(), "recompute") {
		t.Errorf("stderr copy missing debug entry: %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
