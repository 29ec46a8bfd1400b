// Package pump is the pump manager: it owns the authoritative pod snapshot,
// derives the presentation states the UI reads, and executes pod commands
// asynchronously against the pod link.
package pump

import (
	"context"
	"sync"
	"time"

	"podpilot/internal/logging"
	"podpilot/internal/pod"
	"podpilot/internal/podlink"
	"podpilot/internal/runctx"
)

const (
	// DefaultExpirationReminderHours is the reminder offset used until the
	// user schedules one.
	DefaultExpirationReminderHours = 4
	// DefaultLowReservoirUnits is the low-reservoir alert threshold used
	// until the user configures one.
	DefaultLowReservoirUnits = 10.0

	criticalReservoirUnits = 5.0
	clockOffsetTolerance   = time.Minute
)

// Manager mediates between the UI and the pod link. Reads are served from an
// in-memory snapshot; commands mutate the state file and refresh the snapshot
// on success. Observers are notified after every snapshot change.
type Manager struct {
	link   *podlink.Link
	logger *logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	state   podlink.PodState
	present bool
	tz      *time.Location

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]func()

	// notifyCh coalesces change signals for the notifier goroutine.
	notifyCh chan struct{}
}

func NewManager(link *podlink.Link, logger *logging.Logger, tz *time.Location) *Manager {
	if link == nil {
		panic("pump.NewManager: link must not be nil")
	}
	if logger == nil {
		panic("pump.NewManager: logger must not be nil")
	}
	if tz == nil {
		tz = time.Local
	}
	return &Manager{
		link:      link,
		logger:    logger,
		now:       time.Now,
		tz:        tz,
		observers: map[int]func(){},
		notifyCh:  make(chan struct{}, 1),
	}
}

// RunContext loads the initial snapshot, then watches the pod state file and
// fans out observer notifications until the context is canceled.
func (m *Manager) RunContext(ctx context.Context) error {
	m.reload()

	go m.notifyLoop(ctx)

	watcher := podlink.NewWatcher(m.link, m.logger, m.reload)
	return watcher.RunContext(ctx)
}

// Subscribe registers an observer invoked after every snapshot change. The
// returned function unsubscribes. Callbacks run on the manager's notifier
// goroutine; callers marshal onto their own loop.
func (m *Manager) Subscribe(fn func()) func() {
	if fn == nil {
		panic("pump.Manager.Subscribe: callback must not be nil")
	}
	m.obsMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	m.obsMu.Unlock()
	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

func (m *Manager) notifyLoop(ctx context.Context) {
	for {
		if _, ok := runctx.RecvOrDone(ctx, "pump notifier", m.logger, m.notifyCh); !ok {
			return
		}
		m.obsMu.Lock()
		callbacks := make([]func(), 0, len(m.observers))
		for _, cb := range m.observers {
			callbacks = append(callbacks, cb)
		}
		m.obsMu.Unlock()
		for _, cb := range callbacks {
			cb()
		}
	}
}

func (m *Manager) notifyChanged() {
	select {
	case m.notifyCh <- struct{}{}:
	default:
	}
}

// reload re-reads the pod state file into the snapshot. A missing file clears
// the snapshot; a corrupt file keeps the previous snapshot and logs.
func (m *Manager) reload() {
	state, err := m.link.Read()
	switch {
	case err == nil:
		m.setSnapshot(state, true)
	case isNoPod(err):
		m.setSnapshot(podlink.PodState{}, false)
	default:
		m.logger.Warn("pod state reload failed", logging.Field("error", err))
	}
}

func (m *Manager) setSnapshot(state podlink.PodState, present bool) {
	m.mu.Lock()
	m.state = state
	m.present = present
	m.mu.Unlock()
	m.notifyChanged()
}

func (m *Manager) snapshot() (podlink.PodState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.present
}

// CommState derives the communication phase from the snapshot. Deactivated
// pods read as no pod; any recorded fault dominates the phase.
func (m *Manager) CommState() pod.CommState {
	state, present := m.snapshot()
	if !present || state.Phase == podlink.PhaseDeactivated {
		return pod.CommNoPod
	}
	if state.Fault() != nil {
		return pod.CommFault
	}
	switch state.Phase {
	case podlink.PhaseActivating:
		return pod.CommActivating
	case podlink.PhaseDeactivating:
		return pod.CommDeactivating
	default:
		return pod.CommActive
	}
}

// FaultStatus returns the active fault, or nil when the pod is healthy.
func (m *Manager) FaultStatus() *pod.FaultStatus {
	state, present := m.snapshot()
	if !present {
		return nil
	}
	return state.Fault()
}

// BasalDeliveryState reports the pod's delivery phase; false when no pod is
// paired or the pod has not reported one.
func (m *Manager) BasalDeliveryState() (pod.BasalDeliveryState, bool) {
	state, present := m.snapshot()
	if !present {
		return 0, false
	}
	return state.BasalDeliveryState()
}

// LifeState derives the lifecycle presentation. A pod-life fault forces
// Expired regardless of the expiration timestamp.
func (m *Manager) LifeState() pod.LifeState {
	state, present := m.snapshot()
	switch m.CommState() {
	case pod.CommNoPod:
		return pod.NoPodLifeState()
	case pod.CommActivating:
		return pod.ActivatingLifeState()
	case pod.CommDeactivating:
		return pod.DeactivatingLifeState()
	}
	if fault := state.Fault(); fault != nil && fault.Code == pod.ExceededMaximumPodLife80Hrs {
		return pod.ExpiredLifeState()
	}
	if !present || state.ExpiresAt.IsZero() {
		return pod.NoPodLifeState()
	}
	return pod.TimeRemainingLifeState(state.ExpiresAt.Sub(m.now()))
}

func (m *Manager) ActivatedAt() (time.Time, bool) {
	state, present := m.snapshot()
	if !present || state.ActivatedAt.IsZero() {
		return time.Time{}, false
	}
	return state.ActivatedAt, true
}

func (m *Manager) ExpiresAt() (time.Time, bool) {
	state, present := m.snapshot()
	if !present || state.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return state.ExpiresAt, true
}

// ReservoirLevel reports the remaining insulin; false when no pod is paired.
// A pod that has not dropped below its measurable ceiling reads as above
// threshold.
func (m *Manager) ReservoirLevel() (pod.ReservoirLevel, bool) {
	state, present := m.snapshot()
	if !present {
		return pod.ReservoirLevel{}, false
	}
	if state.ReservoirUnits == nil {
		return pod.ReservoirAboveThreshold(), true
	}
	return pod.ReservoirValid(*state.ReservoirUnits), true
}

// ReservoirHighlight classifies the level for UI emphasis. A no-insulin
// fault is critical regardless of the reported quantity.
func (m *Manager) ReservoirHighlight() pod.ReservoirHighlight {
	state, present := m.snapshot()
	if !present {
		return pod.HighlightNormal
	}
	if fault := state.Fault(); fault != nil && fault.Code == pod.ReservoirEmpty {
		return pod.HighlightCritical
	}
	level, ok := m.ReservoirLevel()
	if !ok {
		return pod.HighlightNormal
	}
	units, exact := level.Units()
	if !exact {
		return pod.HighlightNormal
	}
	switch {
	case units <= criticalReservoirUnits:
		return pod.HighlightCritical
	case units <= m.LowReservoirThreshold():
		return pod.HighlightWarning
	default:
		return pod.HighlightNormal
	}
}

// ExpirationReminderHours returns the configured reminder offset before
// expiry, falling back to the default when unset.
func (m *Manager) ExpirationReminderHours() int {
	state, present := m.snapshot()
	if !present || state.ExpirationReminder <= 0 {
		return DefaultExpirationReminderHours
	}
	return state.ExpirationReminder
}

func (m *Manager) LowReservoirThreshold() float64 {
	state, present := m.snapshot()
	if !present || state.LowReservoirAlert <= 0 {
		return DefaultLowReservoirUnits
	}
	return state.LowReservoirAlert
}

func (m *Manager) ConfirmationBeeps() bool {
	state, present := m.snapshot()
	return present && state.ConfirmationBeeps
}

// IsClockOffset reports whether the pod clock has drifted more than a minute
// from the host clock. An unreported pod clock never counts as drift.
func (m *Manager) IsClockOffset() bool {
	state, present := m.snapshot()
	if !present || state.PodClock.IsZero() {
		return false
	}
	drift := m.now().Sub(state.PodClock)
	if drift < 0 {
		drift = -drift
	}
	return drift > clockOffsetTolerance
}

// LastSync returns the time the pod last reported status; false when the pod
// has never reported.
func (m *Manager) LastSync() (time.Time, bool) {
	state, present := m.snapshot()
	if !present || state.LastStatus == nil {
		return time.Time{}, false
	}
	return *state.LastStatus, true
}

// SuspendedUntil reports the scheduled end of a delivery suspension.
func (m *Manager) SuspendedUntil() (time.Time, bool) {
	state, present := m.snapshot()
	if !present || state.SuspendedUntil == nil {
		return time.Time{}, false
	}
	return *state.SuspendedUntil, true
}

// Details builds the pod-details snapshot; false when no pod is paired.
func (m *Manager) Details() (pod.Details, bool) {
	state, present := m.snapshot()
	if !present {
		return pod.Details{}, false
	}
	return pod.Details{
		LotNumber:          state.LotNumber,
		SequenceNumber:     state.SequenceNumber,
		FirmwareVersion:    state.FirmwareVersion,
		BLEFirmwareVersion: state.BLEFirmwareVersion,
		DeviceName:         state.DeviceName,
		TotalDelivery:      state.TotalDelivery,
		LastStatus:         state.LastStatus,
		Fault:              state.Fault(),
	}, true
}

func (m *Manager) TimeZone() *time.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tz
}

// Title names the managed device for the UI header.
func (m *Manager) Title() string {
	state, present := m.snapshot()
	if present && state.DeviceName != "" {
		return state.DeviceName
	}
	return "Omnipod DASH"
}
