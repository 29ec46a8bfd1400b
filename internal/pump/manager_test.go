package pump

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"podpilot/internal/logging"
	"podpilot/internal/pod"
	"podpilot/internal/podlink"
)

func newTestManager(t *testing.T, state *podlink.PodState) *Manager {
	t.Helper()
	logger := logging.New(false)
	logger.SetTerminalOutputEnabled(false)
	link, err := podlink.New(filepath.Join(t.TempDir(), "pod-state.json"), logger)
	if err != nil {
		t.Fatalf("podlink.New() error = %v", err)
	}
	if state != nil {
		if storeErr := link.Store(*state); storeErr != nil {
			t.Fatalf("Store() error = %v", storeErr)
		}
	}
	m := NewManager(link, logger, time.UTC)
	m.reload()
	return m
}

func activePodState(expiresIn time.Duration) podlink.PodState {
	now := time.Now()
	return podlink.PodState{
		Phase:       podlink.PhaseActive,
		ActivatedAt: now.Add(-time.Hour),
		ExpiresAt:   now.Add(expiresIn),
		BasalState:  "active",
	}
}

func awaitCommand(t *testing.T, run func(func(error))) error {
	t.Helper()
	done := make(chan error, 1)
	run(func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("command did not complete")
		return nil
	}
}

func TestCommStateDerivation(t *testing.T) {
	fault := byte(pod.Occluded)
	tests := []struct {
		name  string
		state *podlink.PodState
		want  pod.CommState
	}{
		{name: "no state file", state: nil, want: pod.CommNoPod},
		{name: "activating", state: &podlink.PodState{Phase: podlink.PhaseActivating}, want: pod.CommActivating},
		{name: "active", state: &podlink.PodState{Phase: podlink.PhaseActive, BasalState: "active"}, want: pod.CommActive},
		{name: "deactivating", state: &podlink.PodState{Phase: podlink.PhaseDeactivating}, want: pod.CommDeactivating},
		{name: "deactivated reads as no pod", state: &podlink.PodState{Phase: podlink.PhaseDeactivated}, want: pod.CommNoPod},
		{name: "fault dominates phase", state: &podlink.PodState{Phase: podlink.PhaseActive, FaultCode: &fault}, want: pod.CommFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.state)
			if got := m.CommState(); got != tt.want {
				t.Fatalf("CommState() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifeStateDerivation(t *testing.T) {
	t.Run("time remaining from expiry", func(t *testing.T) {
		state := activePodState(26*time.Hour + 30*time.Minute)
		m := newTestManager(t, &state)
		life := m.LifeState()
		if life.Kind != pod.LifeTimeRemaining {
			t.Fatalf("LifeState() kind = %v", life.Kind)
		}
		if got := life.String(); got != "26h 30m remaining" {
			t.Fatalf("LifeState() = %q", got)
		}
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		state := activePodState(-time.Minute)
		m := newTestManager(t, &state)
		if got := m.LifeState().Kind; got != pod.LifeExpired {
			t.Fatalf("LifeState() kind = %v, want expired", got)
		}
	})

	t.Run("pod life fault forces expired despite future expiry", func(t *testing.T) {
		state := activePodState(24 * time.Hour)
		code := byte(pod.ExceededMaximumPodLife80Hrs)
		state.FaultCode = &code
		m := newTestManager(t, &state)
		if got := m.LifeState().Kind; got != pod.LifeExpired {
			t.Fatalf("LifeState() kind = %v, want expired", got)
		}
	})

	t.Run("activating", func(t *testing.T) {
		m := newTestManager(t, &podlink.PodState{Phase: podlink.PhaseActivating})
		if got := m.LifeState().Kind; got != pod.LifeActivating {
			t.Fatalf("LifeState() kind = %v, want activating", got)
		}
	})

	t.Run("no pod", func(t *testing.T) {
		m := newTestManager(t, nil)
		if got := m.LifeState().Kind; got != pod.LifeNoPod {
			t.Fatalf("LifeState() kind = %v, want no pod", got)
		}
	})
}

func TestReservoirHighlight(t *testing.T) {
	units := func(v float64) *float64 { return &v }
	emptyFault := byte(pod.ReservoirEmpty)

	tests := []struct {
		name  string
		state podlink.PodState
		want  pod.ReservoirHighlight
	}{
		{
			name:  "above threshold reads normal",
			state: activePodState(24 * time.Hour),
			want:  pod.HighlightNormal,
		},
		{
			name: "exact above configured threshold",
			state: func() podlink.PodState {
				s := activePodState(24 * time.Hour)
				s.ReservoirUnits = units(12)
				s.LowReservoirAlert = 10
				return s
			}(),
			want: pod.HighlightNormal,
		},
		{
			name: "at configured threshold warns",
			state: func() podlink.PodState {
				s := activePodState(24 * time.Hour)
				s.ReservoirUnits = units(10)
				s.LowReservoirAlert = 10
				return s
			}(),
			want: pod.HighlightWarning,
		},
		{
			name: "five units or less is critical",
			state: func() podlink.PodState {
				s := activePodState(24 * time.Hour)
				s.ReservoirUnits = units(4)
				s.LowReservoirAlert = 10
				return s
			}(),
			want: pod.HighlightCritical,
		},
		{
			name: "no insulin fault is critical regardless of reading",
			state: func() podlink.PodState {
				s := activePodState(24 * time.Hour)
				s.ReservoirUnits = units(20)
				s.FaultCode = &emptyFault
				return s
			}(),
			want: pod.HighlightCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, &tt.state)
			if got := m.ReservoirHighlight(); got != tt.want {
				t.Fatalf("ReservoirHighlight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuspendAndResumeDelivery(t *testing.T) {
	state := activePodState(24 * time.Hour)
	m := newTestManager(t, &state)

	if err := awaitCommand(t, func(done func(error)) {
		m.SuspendDelivery(30*time.Minute, true, done)
	}); err != nil {
		t.Fatalf("SuspendDelivery() error = %v", err)
	}
	basal, ok := m.BasalDeliveryState()
	if !ok || basal != pod.BasalSuspended {
		t.Fatalf("BasalDeliveryState() = %v, %v after suspend", basal, ok)
	}
	if _, ok := m.SuspendedUntil(); !ok {
		t.Fatalf("SuspendedUntil() not set after suspend")
	}

	if err := awaitCommand(t, m.ResumeDelivery); err != nil {
		t.Fatalf("ResumeDelivery() error = %v", err)
	}
	basal, ok = m.BasalDeliveryState()
	if !ok || basal != pod.BasalActive {
		t.Fatalf("BasalDeliveryState() = %v, %v after resume", basal, ok)
	}
	if _, ok := m.SuspendedUntil(); ok {
		t.Fatalf("SuspendedUntil() should clear on resume")
	}
}

func TestCommandsRejectUnusablePod(t *testing.T) {
	t.Run("no state file", func(t *testing.T) {
		m := newTestManager(t, nil)
		err := awaitCommand(t, func(done func(error)) {
			m.SuspendDelivery(30*time.Minute, false, done)
		})
		if !errors.Is(err, podlink.ErrNoPod) {
			t.Fatalf("SuspendDelivery() error = %v, want ErrNoPod", err)
		}
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Op != "suspend delivery" {
			t.Fatalf("expected CommandError with op, got %#v", err)
		}
	})

	t.Run("faulted pod", func(t *testing.T) {
		state := activePodState(24 * time.Hour)
		code := byte(pod.Occluded)
		state.FaultCode = &code
		m := newTestManager(t, &state)
		err := awaitCommand(t, m.ResumeDelivery)
		if !errors.Is(err, ErrPodFaulted) {
			t.Fatalf("ResumeDelivery() error = %v, want ErrPodFaulted", err)
		}
	})

	t.Run("deactivation allowed on faulted pod", func(t *testing.T) {
		state := activePodState(24 * time.Hour)
		code := byte(pod.Occluded)
		state.FaultCode = &code
		m := newTestManager(t, &state)
		if err := awaitCommand(t, m.NotifyDeactivation); err != nil {
			t.Fatalf("NotifyDeactivation() error = %v", err)
		}
		if got := m.CommState(); got != pod.CommFault {
			t.Fatalf("CommState() = %v, fault should persist until removal", got)
		}
	})
}

func TestReminderCommands(t *testing.T) {
	state := activePodState(24 * time.Hour)
	m := newTestManager(t, &state)

	if err := awaitCommand(t, func(done func(error)) {
		m.UpdateExpirationReminder(6, done)
	}); err != nil {
		t.Fatalf("UpdateExpirationReminder() error = %v", err)
	}
	if got := m.ExpirationReminderHours(); got != 6 {
		t.Fatalf("ExpirationReminderHours() = %d, want 6", got)
	}

	if err := awaitCommand(t, func(done func(error)) {
		m.UpdateLowReservoirReminder(15, done)
	}); err != nil {
		t.Fatalf("UpdateLowReservoirReminder() error = %v", err)
	}
	if got := m.LowReservoirThreshold(); got != 15 {
		t.Fatalf("LowReservoirThreshold() = %v, want 15", got)
	}

	err := awaitCommand(t, func(done func(error)) {
		m.UpdateLowReservoirReminder(0, done)
	})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("UpdateLowReservoirReminder(0) error = %v, want ErrInvalidThreshold", err)
	}
}

func TestDefaultsWhenUnconfigured(t *testing.T) {
	state := activePodState(24 * time.Hour)
	m := newTestManager(t, &state)

	if got := m.ExpirationReminderHours(); got != DefaultExpirationReminderHours {
		t.Fatalf("ExpirationReminderHours() = %d, want default", got)
	}
	if got := m.LowReservoirThreshold(); got != DefaultLowReservoirUnits {
		t.Fatalf("LowReservoirThreshold() = %v, want default", got)
	}
	if m.ConfirmationBeeps() {
		t.Fatalf("ConfirmationBeeps() should default off")
	}
}

func TestRefreshStatusClearsSnapshotWhenFileRemoved(t *testing.T) {
	state := activePodState(24 * time.Hour)
	m := newTestManager(t, &state)

	if err := m.link.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := awaitCommand(t, m.RefreshStatus); err != nil {
		t.Fatalf("RefreshStatus() error = %v", err)
	}
	if got := m.CommState(); got != pod.CommNoPod {
		t.Fatalf("CommState() = %v after pod removal", got)
	}
}

func TestIsClockOffset(t *testing.T) {
	base := time.Now()
	tests := []struct {
		name  string
		clock time.Time
		want  bool
	}{
		{name: "unreported clock", clock: time.Time{}, want: false},
		{name: "within tolerance", clock: base.Add(-30 * time.Second), want: false},
		{name: "behind host", clock: base.Add(-2 * time.Minute), want: true},
		{name: "ahead of host", clock: base.Add(2 * time.Minute), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := activePodState(24 * time.Hour)
			state.PodClock = tt.clock
			m := newTestManager(t, &state)
			m.now = func() time.Time { return base }
			if got := m.IsClockOffset(); got != tt.want {
				t.Fatalf("IsClockOffset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscribeAndNotify(t *testing.T) {
	state := activePodState(24 * time.Hour)
	m := newTestManager(t, &state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.notifyLoop(ctx)

	fired := make(chan struct{}, 4)
	unsubscribe := m.Subscribe(func() { fired <- struct{}{} })

	m.notifyChanged()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatalf("observer not notified")
	}

	unsubscribe()
	m.notifyChanged()
	select {
	case <-fired:
		t.Fatalf("observer fired after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSetTimeUpdatesClockAndZone(t *testing.T) {
	state := activePodState(24 * time.Hour)
	state.PodClock = time.Now().Add(-10 * time.Minute)
	m := newTestManager(t, &state)

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}
	if err := awaitCommand(t, func(done func(error)) {
		m.SetTime(berlin, done)
	}); err != nil {
		t.Fatalf("SetTime() error = %v", err)
	}
	if m.IsClockOffset() {
		t.Fatalf("IsClockOffset() should clear after time sync")
	}
	if got := m.TimeZone(); got != berlin {
		t.Fatalf("TimeZone() = %v", got)
	}
}
