package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/level"
)

// Config holds the top-level habits configuration.
type Config struct {
	User     UserConfig     `toml:"user"`
	Calendar CalendarConfig `toml:"calendar"`
	Timer    TimerConfig    `toml:"timer"`
	Log      LogConfig      `toml:"log"`
	Levels   LevelsConfig   `toml:"levels"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// CalendarConfig controls how "today" is determined.
type CalendarConfig struct {
	// Timezone is an IANA zone name. Empty means calendar.DefaultZone.
	Timezone string `toml:"timezone"`
}

// TimerConfig controls `habits timer`.
type TimerConfig struct {
	Pomodoro Duration `toml:"pomodoro"`
	// MinLog is the shortest session that gets logged.
	MinLog Duration `toml:"min_log"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// LevelsConfig optionally overrides the level tier tables.
// An empty table keeps the built-in default for that metric.
type LevelsConfig struct {
	Completion level.Tiers `toml:"completion,omitempty"`
	Hours      level.Tiers `toml:"hours,omitempty"`
}

// Duration is a time.Duration that reads and writes as "25m" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Calendar.Timezone)
}

// Tables returns the level tables, applying any overrides after validating them.
func (c *Config) Tables() (level.Tables, error) {
	tables := level.DefaultTables()
	if len(c.Levels.Completion) > 0 {
		tables.Completion = c.Levels.Completion
	}
	if len(c.Levels.Hours) > 0 {
		tables.Hours = c.Levels.Hours
	}
	if err := tables.Validate(); err != nil {
		return level.Tables{}, fmt.Errorf("levels config: %w", err)
	}
	return tables, nil
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	LogDir     string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	habitsConfig := filepath.Join(configDir, "habits")
	habitsData := filepath.Join(dataDir, "habits")
	habitsState := filepath.Join(stateDir, "habits")

	return Paths{
		ConfigDir:  habitsConfig,
		DataDir:    habitsData,
		CacheDir:   filepath.Join(cacheDir, "habits"),
		StateDir:   habitsState,
		LogDir:     filepath.Join(habitsState, "logs"),
		ConfigFile: filepath.Join(habitsConfig, "config.toml"),
		DBFile:     filepath.Join(habitsData, "habits.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
// Keys missing from the file keep their default values.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", paths.ConfigFile, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if a config file has been written.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Timezone: calendar.DefaultZone,
		},
		Timer: TimerConfig{
			Pomodoro: Duration{25 * time.Minute},
			MinLog:   Duration{time.Minute},
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
