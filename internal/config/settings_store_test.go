package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestSettingsSaveLoadAndPath(t *testing.T) {
	root := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", root)
	} else {
		t.Setenv("XDG_CONFIG_HOME", root)
	}

	path, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath() error = %v", err)
	}
	wantPath := filepath.Join(root, "podpilot", "settings.json")
	if path != wantPath {
		t.Fatalf("SettingsPath() = %q, want %q", path, wantPath)
	}

	in := Settings{
		StateFile:               "/tmp/pod-state.json",
		TimeZone:                "Europe/Berlin",
		Debug:                   true,
		ExpirationReminderHours: 4,
		LowReservoirUnits:       10,
		ConfirmationBeeps:       true,
	}
	if err := SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	out, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out != in {
		t.Fatalf("loaded settings = %#v, want %#v", out, in)
	}
}

func TestMergeOptionsWithSettings_PrefersCLI(t *testing.T) {
	merged := MergeOptionsWithSettings(
		Options{
			StateFile: "/tmp/cli-state.json",
			TimeZone:  "",
			Debug:     false,
		},
		Settings{
			StateFile: "/tmp/saved-state.json",
			TimeZone:  "America/New_York",
			Debug:     true,
		},
	)

	if merged.StateFile != "/tmp/cli-state.json" {
		t.Fatalf("StateFile = %q", merged.StateFile)
	}
	if merged.TimeZone != "America/New_York" {
		t.Fatalf("TimeZone = %q", merged.TimeZone)
	}
	if !merged.Debug {
		t.Fatalf("Debug should merge from saved when CLI false")
	}
}
