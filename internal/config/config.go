package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type Options struct {
	StateFile string `long:"state-file" env:"PODPILOT_STATE_FILE" description:"Pod state file maintained by the pump bridge"`
	TimeZone  string `long:"time-zone" env:"PODPILOT_TIME_ZONE" description:"IANA time zone for pod schedule display (e.g. Europe/Berlin)"`
	Debug     bool   `long:"debug" env:"PODPILOT_DEBUG" description:"Enable verbose debug output"`
}

func ParseOptions(defaultStateFileFn func() string) (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	if _, err := flags.Parse(&opts); err != nil {
		return Options{}, err
	}
	if opts.StateFile == "" && defaultStateFileFn != nil {
		opts.StateFile = defaultStateFileFn()
	}
	return opts, nil
}

func ValidateRequired(opts Options) error {
	if strings.TrimSpace(opts.StateFile) == "" {
		return errors.New("state file path is required")
	}
	return nil
}

// DefaultStateFile is where the pump bridge drops pod state when no
// explicit path is configured.
func DefaultStateFile() string {
	root, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(root, "podpilot", "pod-state.json")
}

// ResolveTimeZone maps the configured zone name to a location. An empty
// name means the host's local zone.
func ResolveTimeZone(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %s: %w", trimmed, err)
	}
	return loc, nil
}
