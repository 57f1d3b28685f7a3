package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rnwolfe/habits/internal/level"
)

func setupXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

func TestGetPaths(t *testing.T) {
	paths := GetPaths()

	if paths.ConfigDir == "" {
		t.Fatal("ConfigDir should not be empty")
	}
	if paths.DataDir == "" {
		t.Fatal("DataDir should not be empty")
	}
	if paths.ConfigFile == "" {
		t.Fatal("ConfigFile should not be empty")
	}
	if paths.DBFile == "" {
		t.Fatal("DBFile should not be empty")
	}
}

func TestGetPathsRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/testxdg/config")
	t.Setenv("XDG_DATA_HOME", "/tmp/testxdg/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/testxdg/state")

	paths := GetPaths()

	if paths.ConfigDir != "/tmp/testxdg/config/habits" {
		t.Fatalf("expected /tmp/testxdg/config/habits, got %s", paths.ConfigDir)
	}
	if paths.DataDir != "/tmp/testxdg/data/habits" {
		t.Fatalf("expected /tmp/testxdg/data/habits, got %s", paths.DataDir)
	}
	if paths.DBFile != "/tmp/testxdg/data/habits/habits.db" {
		t.Fatalf("unexpected DBFile %s", paths.DBFile)
	}
	if paths.LogDir != "/tmp/testxdg/state/habits/logs" {
		t.Fatalf("unexpected LogDir %s", paths.LogDir)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Calendar.Timezone != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %q", cfg.Calendar.Timezone)
	}
	if cfg.Timer.Pomodoro.Duration != 25*time.Minute {
		t.Fatalf("expected 25m pomodoro, got %s", cfg.Timer.Pomodoro)
	}
	if cfg.Timer.MinLog.Duration != time.Minute {
		t.Fatalf("expected 1m min_log, got %s", cfg.Timer.MinLog)
	}
}

func TestEnsureDirs(t *testing.T) {
	setupXDG(t)

	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("dir %s not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	setupXDG(t)

	if Initialized() {
		t.Fatal("expected no config file yet")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Calendar.Timezone != "Asia/Tokyo" {
		t.Fatalf("expected default timezone, got %q", cfg.Calendar.Timezone)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	setupXDG(t)

	cfg := defaultConfig()
	cfg.User.Name = "Ada"
	cfg.Calendar.Timezone = "Europe/Berlin"
	cfg.Timer.Pomodoro = Duration{50 * time.Minute}
	cfg.Log.Debug = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Initialized() {
		t.Fatal("expected config file after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.User.Name != "Ada" || got.Calendar.Timezone != "Europe/Berlin" {
		t.Errorf("loaded %+v", got)
	}
	if got.Timer.Pomodoro.Duration != 50*time.Minute {
		t.Errorf("pomodoro = %s, want 50m", got.Timer.Pomodoro)
	}
	if got.Timer.MinLog.Duration != time.Minute {
		t.Errorf("min_log = %s, want 1m", got.Timer.MinLog)
	}
	if !got.Log.Debug {
		t.Error("expected debug true")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	setupXDG(t)
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("[user]\nname = \"Kim\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.Name != "Kim" {
		t.Errorf("name = %q", cfg.User.Name)
	}
	if cfg.Timer.Pomodoro.Duration != 25*time.Minute {
		t.Errorf("pomodoro = %s, want default", cfg.Timer.Pomodoro)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setupXDG(t)
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("[timer]\npomodoro = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLocation(t *testing.T) {
	cfg := defaultConfig()
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("location = %s", loc)
	}

	cfg.Calendar.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestTables(t *testing.T) {
	cfg := defaultConfig()
	tables, err := cfg.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if tables.Completion.Ceiling() != level.MaxDays {
		t.Errorf("default completion ceiling = %v", tables.Completion.Ceiling())
	}

	cfg.Levels.Completion = level.Tiers{{Level: level.MaxLevel, Amount: 9990, Rate: 10}}
	tables, err = cfg.Tables()
	if err != nil {
		t.Fatalf("Tables with override: %v", err)
	}
	if tables.Completion.Ceiling() != 9990 {
		t.Errorf("override ceiling = %v", tables.Completion.Ceiling())
	}

	cfg.Levels.Hours = level.Tiers{{Level: 10, Amount: 5, Rate: 1}}
	if _, err := cfg.Tables(); !errors.Is(err, level.ErrInvalidTiers) {
		t.Errorf("expected ErrInvalidTiers, got %v", err)
	}
}
