package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rnwolfe/habits/internal/calendar"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString   KeyType = "string"
	KeyTypeBool     KeyType = "bool"
	KeyTypeDuration KeyType = "duration"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type.
	Type KeyType
	// Desc is a human-readable description shown in `habits config set --help`.
	Desc string
	// DefaultStr is the string representation of the default value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"calendar.timezone": {
		Type:       KeyTypeString,
		Desc:       "IANA time zone that decides what \"today\" is",
		DefaultStr: calendar.DefaultZone,
		get:        func(cfg *Config) string { return cfg.Calendar.Timezone },
		set: func(cfg *Config, v string) error {
			if _, err := calendar.LoadLocation(v); err != nil {
				return err
			}
			cfg.Calendar.Timezone = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Calendar.Timezone = calendar.DefaultZone },
	},
	"timer.pomodoro": {
		Type:       KeyTypeDuration,
		Desc:       "Default pomodoro length (e.g. 25m)",
		DefaultStr: "25m0s",
		get:        func(cfg *Config) string { return cfg.Timer.Pomodoro.String() },
		set: func(cfg *Config, v string) error {
			d, err := parsePositiveDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for timer.pomodoro: %w", v, err)
			}
			cfg.Timer.Pomodoro = Duration{d}
			return nil
		},
		unset: func(cfg *Config) { cfg.Timer.Pomodoro = Duration{25 * time.Minute} },
	},
	"timer.min_log": {
		Type:       KeyTypeDuration,
		Desc:       "Shortest timer session that gets logged (e.g. 1m)",
		DefaultStr: "1m0s",
		get:        func(cfg *Config) string { return cfg.Timer.MinLog.String() },
		set: func(cfg *Config, v string) error {
			d, err := parsePositiveDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for timer.min_log: %w", v, err)
			}
			cfg.Timer.MinLog = Duration{d}
			return nil
		},
		unset: func(cfg *Config) { cfg.Timer.MinLog = Duration{time.Minute} },
	},
	"log.debug": {
		Type:       KeyTypeBool,
		Desc:       "Write debug logs (and mirror them to stderr)",
		DefaultStr: "false",
		get:        func(cfg *Config) string { return fmt.Sprintf("%t", cfg.Log.Debug) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for log.debug: %w", v, err)
			}
			cfg.Log.Debug = b
			return nil
		},
		unset: func(cfg *Config) { cfg.Log.Debug = false },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
