package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

type Settings struct {
	StateFile               string  `json:"state_file"`
	TimeZone                string  `json:"time_zone"`
	Debug                   bool    `json:"debug"`
	ExpirationReminderHours int     `json:"expiration_reminder_hours"`
	LowReservoirUnits       float64 `json:"low_reservoir_units"`
	ConfirmationBeeps       bool    `json:"confirmation_beeps"`
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "podpilot", "settings.json"), nil
}

func LoadSettings() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func SaveSettings(settings Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func MergeOptionsWithSettings(cli Options, saved Settings) Options {
	if strings.TrimSpace(cli.StateFile) == "" {
		cli.StateFile = saved.StateFile
	}
	if strings.TrimSpace(cli.TimeZone) == "" {
		cli.TimeZone = saved.TimeZone
	}
	if !cli.Debug {
		cli.Debug = saved.Debug
	}
	return cli
}

func SettingsFromOptions(opts Options) Settings {
	return Settings{
		StateFile: strings.TrimSpace(opts.StateFile),
		TimeZone:  strings.TrimSpace(opts.TimeZone),
		Debug:     opts.Debug,
	}
}
