package config

import (
	"sort"
	"testing"
)

func TestValidKeyNames_Sorted(t *testing.T) {
	names := ValidKeyNames()
	if len(names) == 0 {
		t.Fatal("expected non-empty key list")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("expected sorted key names, got %v", names)
	}
}

func TestValidKeyNames_ContainsKnownKeys(t *testing.T) {
	expected := []string{"user.name", "calendar.timezone", "timer.pomodoro", "timer.min_log", "log.debug"}
	nameSet := make(map[string]bool)
	for _, n := range ValidKeyNames() {
		nameSet[n] = true
	}
	for _, want := range expected {
		if !nameSet[want] {
			t.Errorf("ValidKeyNames missing expected key %q", want)
		}
	}
}

func TestLookupKey_Unknown(t *testing.T) {
	if _, ok := LookupKey("not.a.real.key"); ok {
		t.Fatal("expected unknown key to return false")
	}
}

func TestParseBoolValue(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "on", "TRUE", "On"} {
		if b, err := ParseBoolValue(v); err != nil || !b {
			t.Errorf("ParseBoolValue(%q) = %v, %v; want true", v, b, err)
		}
	}
	for _, v := range []string{"false", "0", "no", "off", "NO", "Off"} {
		if b, err := ParseBoolValue(v); err != nil || b {
			t.Errorf("ParseBoolValue(%q) = %v, %v; want false", v, b, err)
		}
	}
	for _, v := range []string{"maybe", "", "2", "tru"} {
		if _, err := ParseBoolValue(v); err == nil {
			t.Errorf("ParseBoolValue(%q): expected error", v)
		}
	}
}

func TestSetGetUnset(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		unset   string
		wantErr bool
	}{
		{key: "user.name", value: "Alice", want: "Alice", unset: ""},
		{key: "calendar.timezone", value: "America/New_York", want: "America/New_York", unset: "Asia/Tokyo"},
		{key: "calendar.timezone", value: "Mars/Olympus", wantErr: true},
		{key: "timer.pomodoro", value: "50m", want: "50m0s", unset: "25m0s"},
		{key: "timer.pomodoro", value: "-5m", wantErr: true},
		{key: "timer.pomodoro", value: "half an hour", wantErr: true},
		{key: "timer.min_log", value: "90s", want: "1m30s", unset: "1m0s"},
		{key: "log.debug", value: "yes", want: "true", unset: "false"},
		{key: "log.debug", value: "notabool", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := defaultConfig()
			entry, ok := LookupKey(tt.key)
			if !ok {
				t.Fatalf("%s not found in registry", tt.key)
			}
			err := entry.Set(cfg, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got := entry.Get(cfg); got != tt.want {
				t.Fatalf("Get = %q, want %q", got, tt.want)
			}
			entry.Unset(cfg)
			if got := entry.Get(cfg); got != tt.unset {
				t.Fatalf("after Unset = %q, want %q", got, tt.unset)
			}
		})
	}
}

func TestAllSchemaKeys(t *testing.T) {
	cfg := defaultConfig()
	for key, entry := range SchemaKeys {
		if entry.Desc == "" {
			t.Errorf("key %q has empty Desc", key)
		}
		switch entry.Type {
		case KeyTypeString, KeyTypeBool, KeyTypeDuration:
		default:
			t.Errorf("key %q has invalid Type %q", key, entry.Type)
		}
		if got := entry.Get(cfg); got != entry.DefaultStr {
			t.Errorf("key %q: default config has %q, DefaultStr is %q", key, got, entry.DefaultStr)
		}
		entry.Unset(cfg)
		if err := entry.Set(cfg, entry.DefaultStr); err != nil && entry.DefaultStr != "" {
			t.Errorf("key %q: Set(DefaultStr) failed: %v", key, err)
		}
	}
}

func TestRoundTrip_Timezone(t *testing.T) {
	setupXDG(t)

	entry, _ := LookupKey("calendar.timezone")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := entry.Set(cfg, "UTC"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if got := entry.Get(loaded); got != "UTC" {
		t.Fatalf("round-trip failed: got %q", got)
	}
}
