package pump

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"podpilot/internal/logging"
	"podpilot/internal/pod"
	"podpilot/internal/podlink"
)

const (
	commandRetryDelay    = 250 * time.Millisecond
	commandRetryMaxDelay = 2 * time.Second
	commandMaxTries      = 4

	maxLowReservoirUnits = 50.0
)

// SetTime writes the host clock into the pod and switches the manager's
// display time zone.
func (m *Manager) SetTime(tz *time.Location, completion func(error)) {
	if tz == nil {
		tz = time.Local
	}
	m.runCommand("set time", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		state.PodClock = m.now()
		return nil
	}, func() {
		m.mu.Lock()
		m.tz = tz
		m.mu.Unlock()
	})
}

// SuspendDelivery halts basal delivery for the given duration. When reminder
// is set the pod beeps when the suspension lapses.
func (m *Manager) SuspendDelivery(duration time.Duration, reminder bool, completion func(error)) {
	m.runCommand("suspend delivery", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		state.SetBasalDeliveryState(pod.BasalSuspended)
		until := m.now().Add(duration)
		state.SuspendedUntil = &until
		state.SuspendReminder = reminder
		return nil
	}, nil)
}

// ResumeDelivery restarts the scheduled basal program.
func (m *Manager) ResumeDelivery(completion func(error)) {
	m.runCommand("resume delivery", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		state.SetBasalDeliveryState(pod.BasalActive)
		state.SuspendedUntil = nil
		state.SuspendReminder = false
		return nil
	}, nil)
}

// UpdateExpirationReminder schedules the pod's expiry reminder offsetHours
// before expiration.
func (m *Manager) UpdateExpirationReminder(offsetHours int, completion func(error)) {
	m.runCommand("update expiration reminder", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		if offsetHours < 0 {
			return fmt.Errorf("%w: %d hours", ErrInvalidThreshold, offsetHours)
		}
		state.ExpirationReminder = offsetHours
		return nil
	}, nil)
}

// UpdateLowReservoirReminder sets the units threshold for the pod's
// low-reservoir alert.
func (m *Manager) UpdateLowReservoirReminder(units float64, completion func(error)) {
	m.runCommand("update low reservoir reminder", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		if units <= 0 || units > maxLowReservoirUnits {
			return fmt.Errorf("%w: %.1f units", ErrInvalidThreshold, units)
		}
		state.LowReservoirAlert = units
		return nil
	}, nil)
}

// SetConfirmationBeeps toggles audible command confirmation on the pod.
func (m *Manager) SetConfirmationBeeps(enabled bool, completion func(error)) {
	m.runCommand("set confirmation beeps", completion, func(state *podlink.PodState) error {
		if err := requireActivePod(*state); err != nil {
			return err
		}
		state.ConfirmationBeeps = enabled
		return nil
	}, nil)
}

// NotifyDeactivation marks the pod as shutting down before removal. Allowed
// on a faulted pod; deactivation is how a fault is cleared.
func (m *Manager) NotifyDeactivation(completion func(error)) {
	m.runCommand("notify deactivation", completion, func(state *podlink.PodState) error {
		if state.Phase == podlink.PhaseDeactivated {
			return ErrNoActivePod
		}
		state.Phase = podlink.PhaseDeactivating
		return nil
	}, nil)
}

// RefreshStatus re-reads the pod state file into the snapshot. A missing
// file is a successful no-pod refresh, not an error.
func (m *Manager) RefreshStatus(completion func(error)) {
	go func() {
		retry := backoff.NewExponentialBackOff()
		retry.InitialInterval = commandRetryDelay
		retry.MaxInterval = commandRetryMaxDelay

		state, err := backoff.Retry(context.Background(), func() (podlink.PodState, error) {
			next, readErr := m.link.Read()
			if readErr != nil {
				return podlink.PodState{}, classifyCommandError(readErr)
			}
			return next, nil
		},
			backoff.WithBackOff(retry),
			backoff.WithMaxTries(commandMaxTries),
		)
		switch {
		case err == nil:
			m.setSnapshot(state, true)
			m.complete(completion, nil)
		case isNoPod(err):
			m.setSnapshot(podlink.PodState{}, false)
			m.complete(completion, nil)
		default:
			m.logger.Warn("pod status refresh failed", logging.Field("error", err))
			m.complete(completion, &CommandError{Op: "refresh status", Err: err})
		}
	}()
}

// runCommand applies a mutation to the pod state file on a worker goroutine,
// retrying transient I/O failures. onSuccess runs before the completion
// callback. The completion is invoked exactly once.
func (m *Manager) runCommand(op string, completion func(error), mutate func(*podlink.PodState) error, onSuccess func()) {
	go func() {
		retry := backoff.NewExponentialBackOff()
		retry.InitialInterval = commandRetryDelay
		retry.MaxInterval = commandRetryMaxDelay

		state, err := backoff.Retry(context.Background(), func() (podlink.PodState, error) {
			next, applyErr := m.link.Apply(mutate)
			if applyErr != nil {
				return podlink.PodState{}, classifyCommandError(applyErr)
			}
			return next, nil
		},
			backoff.WithBackOff(retry),
			backoff.WithMaxTries(commandMaxTries),
			backoff.WithNotify(func(err error, next time.Duration) {
				m.logger.Debug("retrying pod command",
					logging.Field("op", op),
					logging.Field("error", err),
					logging.Field("next_retry", next.String()))
			}),
		)
		if err != nil {
			m.logger.Warn("pod command failed",
				logging.Field("op", op),
				logging.Field("error", err))
			m.complete(completion, &CommandError{Op: op, Err: err})
			return
		}
		m.logger.Debug("pod command applied", logging.Field("op", op))
		m.setSnapshot(state, true)
		if onSuccess != nil {
			onSuccess()
		}
		m.complete(completion, nil)
	}()
}

func (m *Manager) complete(completion func(error), err error) {
	if completion != nil {
		completion(err)
	}
}

// classifyCommandError marks errors that retrying cannot fix as permanent so
// backoff gives up immediately.
func classifyCommandError(err error) error {
	if errors.Is(err, podlink.ErrNoPod) ||
		errors.Is(err, podlink.ErrCorruptState) ||
		errors.Is(err, ErrNoActivePod) ||
		errors.Is(err, ErrPodFaulted) ||
		errors.Is(err, ErrInvalidThreshold) {
		return backoff.Permanent(err)
	}
	return err
}

// requireActivePod gates delivery and settings commands. Faults block
// everything except deactivation.
func requireActivePod(state podlink.PodState) error {
	if state.Phase != podlink.PhaseActive {
		return ErrNoActivePod
	}
	if state.Fault() != nil {
		return ErrPodFaulted
	}
	return nil
}

func isNoPod(err error) bool {
	return errors.Is(err, podlink.ErrNoPod)
}
