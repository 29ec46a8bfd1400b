package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired(Options{StateFile: "/tmp/pod-state.json"}); err != nil {
		t.Fatalf("ValidateRequired() error = %v", err)
	}
	if err := ValidateRequired(Options{StateFile: "   "}); err == nil {
		t.Fatalf("expected error for blank state file")
	}
}

func TestDefaultStateFileSuffix(t *testing.T) {
	path := DefaultStateFile()
	if path == "" {
		t.Skip("no user config dir on this host")
	}
	want := filepath.Join("podpilot", "pod-state.json")
	if !strings.HasSuffix(path, want) {
		t.Fatalf("DefaultStateFile() = %q, want suffix %q", path, want)
	}
}

func TestResolveTimeZone(t *testing.T) {
	loc, err := ResolveTimeZone("")
	if err != nil {
		t.Fatalf("ResolveTimeZone(empty) error = %v", err)
	}
	if loc != time.Local {
		t.Fatalf("empty zone should resolve to local")
	}

	loc, err = ResolveTimeZone("UTC")
	if err != nil {
		t.Fatalf("ResolveTimeZone(UTC) error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Fatalf("ResolveTimeZone(UTC) = %q", loc.String())
	}

	_, err = ResolveTimeZone("Mars/Olympus")
	if err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	if !strings.Contains(err.Error(), "Mars/Olympus") {
		t.Fatalf("error %q does not name the zone", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("error %q does not wrap the lookup failure", err)
	}
}
