package podlink

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"podpilot/internal/logging"
)

var (
	// ErrNoPod is returned when no state file exists at the configured path.
	ErrNoPod = errors.New("no pod paired at state path")
	// ErrCorruptState is returned when the state file cannot be decoded.
	ErrCorruptState = errors.New("pod state file is corrupt")
)

// Link reads and mutates the pod state file. All writes are atomic
// (temp file + rename) so the watcher never observes a partial state.
type Link struct {
	path   string
	logger *logging.Logger
}

func New(path string, logger *logging.Logger) (*Link, error) {
	if logger == nil {
		panic("podlink.New: logger must not be nil")
	}
	path = filepath.Clean(path)
	if path == "" || path == "." {
		return nil, errors.New("pod state file path is required")
	}
	return &Link{path: path, logger: logger}, nil
}

func (l *Link) Path() string { return l.path }

// Read decodes the current pod state. A missing file means no pod is paired.
func (l *Link) Read() (PodState, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return PodState{}, ErrNoPod
		}
		return PodState{}, fmt.Errorf("read pod state: %w", err)
	}
	var state PodState
	if err := json.Unmarshal(data, &state); err != nil {
		return PodState{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := state.validate(); err != nil {
		return PodState{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return state, nil
}

// Apply performs an atomic read-modify-write of the pod state. The mutate
// callback sees the decoded state and edits it in place; a callback error
// aborts the write.
func (l *Link) Apply(mutate func(*PodState) error) (PodState, error) {
	state, err := l.Read()
	if err != nil {
		return PodState{}, err
	}
	if err := mutate(&state); err != nil {
		return PodState{}, err
	}
	if err := l.write(state); err != nil {
		return PodState{}, err
	}
	return state, nil
}

// Store writes a complete pod state, creating the file if needed. Used by
// pairing/activation and by test fixtures.
func (l *Link) Store(state PodState) error {
	if err := state.validate(); err != nil {
		return err
	}
	return l.write(state)
}

// Remove discards the pod state file, returning the link to the no-pod state.
func (l *Link) Remove() error {
	err := os.Remove(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pod state: %w", err)
	}
	return nil
}

func (l *Link) write(state PodState) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create pod state directory: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pod state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".podstate-*.tmp")
	if err != nil {
		return fmt.Errorf("stage pod state: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("stage pod state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("stage pod state: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("commit pod state: %w", err)
	}
	return nil
}
