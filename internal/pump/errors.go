package pump

import "errors"

var (
	// ErrNoActivePod is returned by commands that require a paired, active pod.
	ErrNoActivePod = errors.New("no active pod")
	// ErrPodFaulted is returned when a delivery command reaches a faulted pod.
	ErrPodFaulted = errors.New("pod is faulted")
	// ErrInvalidThreshold is returned for out-of-range reminder thresholds.
	ErrInvalidThreshold = errors.New("threshold out of range")
)

// CommandError wraps a failed pod command with the operation that issued it.
type CommandError struct {
	Op  string
	Err error
}

func (e *CommandError) Error() string {
	return "pump: " + e.Op + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
