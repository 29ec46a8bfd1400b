package tui

import (
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podpilot/internal/config"
	"podpilot/internal/pod"
	"podpilot/internal/ui/tui/status"
	podview "podpilot/internal/ui/tui/view"
)

const (
	scheduleTimeLayout    = "2006-01-02 15:04"
	defaultSuspendMinutes = 30
	maxSuspendMinutes     = 120
)

// refreshFromManager republishes the pod snapshot the view renders from.
// Fields are read in one pass so a frame never mixes two snapshots.
func (m *podModel) refreshFromManager() {
	m.title = m.manager.Title()
	m.comm = m.manager.CommState()
	m.life = m.manager.LifeState()
	m.fault = m.manager.FaultStatus()
	m.basal, m.basalKnown = m.manager.BasalDeliveryState()
	m.reservoir, m.hasReservoir = m.manager.ReservoirLevel()
	m.highlight = m.manager.ReservoirHighlight()
	m.activatedAt, m.hasActivatedAt = m.manager.ActivatedAt()
	m.expiresAt, m.hasExpiresAt = m.manager.ExpiresAt()
	m.lastSync, m.hasLastSync = m.manager.LastSync()
	m.suspendedUntil, m.hasSuspendedUntil = m.manager.SuspendedUntil()
	m.reminderHours = m.manager.ExpirationReminderHours()
	m.lowReservoirUnits = m.manager.LowReservoirThreshold()
	m.beepsOn = m.manager.ConfirmationBeeps()
	m.clockOffset = m.manager.IsClockOffset()
	m.details, m.hasDetails = m.manager.Details()
	m.stale = status.IsStale(m.lastSync, m.hasLastSync, time.Now())

	if m.comm == pod.CommNoPod {
		m.reminderDate = time.Time{}
		m.hasReminderDate = false
	}
	if !m.changingBeeps {
		m.ui.BeepsOn = m.beepsOn
	}
}

func (m *podModel) podOK() bool {
	return status.PodOK(m.comm, m.basalKnown)
}

func (m *podModel) busy() podview.Busy {
	return podview.Busy{
		Delivery: m.deliveryBusy,
		Syncing:  m.syncingTime,
		Beeps:    m.changingBeeps,
	}
}

func (m *podModel) podError() status.Category {
	return status.Categorize(m.life, m.fault, m.stale)
}

// deliveryAction picks the suspend/resume toggle presentation from the basal
// phase. Transitional phases and in-flight commands disable the control.
func (m *podModel) deliveryAction() (string, int) {
	resume := m.basalKnown && (m.basal == pod.BasalSuspended || m.basal == pod.BasalSuspending)
	label := "Suspend Insulin"
	kind := podview.DeliverySuspend
	if resume {
		label = "Resume Insulin"
		kind = podview.DeliveryResume
	}
	if !m.podOK() || m.deliveryBusy || m.basal.IsTransitioning() {
		return label, podview.DeliveryDisabled
	}
	return label, kind
}

// postCommandDone hands a completion to the update loop, dropping the oldest
// pending completion if the UI has fallen behind.
func (m *podModel) postCommandDone(done commandDoneMsg) {
	select {
	case m.cmdCh <- done:
	default:
		select {
		case <-m.cmdCh:
		default:
		}
		m.cmdCh <- done
	}
}

func (m *podModel) completionFor(kind commandKind) func(error) {
	return func(err error) {
		m.postCommandDone(commandDoneMsg{kind: kind, err: err})
	}
}

func (m *podModel) toggleDeliveryCmd() tea.Cmd {
	if m.deliveryBusy {
		return nil
	}
	m.deliveryBusy = true
	if m.basalKnown && (m.basal == pod.BasalSuspended || m.basal == pod.BasalSuspending) {
		m.manager.ResumeDelivery(m.completionFor(commandResume))
		return nil
	}
	m.manager.SuspendDelivery(m.suspendDuration(), m.beepsOn, m.completionFor(commandSuspend))
	return nil
}

// suspendDuration reads the configured suspend minutes from the settings
// draft, clamped to the pod's allowed range.
func (m *podModel) suspendDuration() time.Duration {
	minutes := defaultSuspendMinutes
	if raw := strings.TrimSpace(m.ui.Inputs[podview.SuspendInputIndex].Value()); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			minutes = parsed
		}
	}
	if minutes > maxSuspendMinutes {
		minutes = maxSuspendMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (m *podModel) syncTimeCmd() tea.Cmd {
	if m.syncingTime {
		return nil
	}
	m.syncingTime = true
	m.manager.SetTime(m.manager.TimeZone(), m.completionFor(commandSyncTime))
	return nil
}

func (m *podModel) setBeepsCmd(enabled bool) tea.Cmd {
	if m.changingBeeps {
		return nil
	}
	m.changingBeeps = true
	m.manager.SetConfirmationBeeps(enabled, m.completionFor(commandBeeps))
	return nil
}

func (m *podModel) refreshStatusCmd() tea.Cmd {
	m.manager.RefreshStatus(nil)
	return nil
}

func (m *podModel) deactivatePodCmd() tea.Cmd {
	m.manager.NotifyDeactivation(m.completionFor(commandDeactivate))
	return nil
}

// reminderOffsetHours converts an absolute reminder date into the pod's
// hours-before-expiry offset, rounded to the nearest hour.
func reminderOffsetHours(expiresAt time.Time, date time.Time) int {
	return int(math.Round(expiresAt.Sub(date).Hours()))
}

// scheduleReminder issues the expiration reminder command for an absolute
// date. When the pod has no known expiry the reminder cannot be anchored and
// the request is silently dropped; the completion never fires.
func (m *podModel) scheduleReminder(date time.Time) bool {
	if !m.hasExpiresAt {
		return false
	}
	offset := reminderOffsetHours(m.expiresAt, date)
	m.manager.UpdateExpirationReminder(offset, func(err error) {
		m.postCommandDone(commandDoneMsg{kind: commandExpirationReminder, err: err, reminderDate: date})
	})
	return true
}

func (m *podModel) saveSettingsDraft() tea.Cmd {
	if !m.ui.SettingsDirty {
		return nil
	}

	m.ui = m.ui.WithDraftFromControls()
	draft := m.ui.Draft

	if raw := strings.TrimSpace(draft.ReminderDate); raw != "" {
		date, err := time.ParseInLocation(scheduleTimeLayout, raw, m.manager.TimeZone())
		if err != nil {
			m.ui = m.ui.WithAlert("Invalid Reminder Date", "Enter the reminder as "+scheduleTimeLayout+".")
			return nil
		}
		m.scheduleReminder(date)
	}

	if raw := strings.TrimSpace(draft.LowReservoir); raw != "" {
		units, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.ui = m.ui.WithAlert("Invalid Reservoir Threshold", "Enter the low reservoir threshold in units, e.g. 10.")
			return nil
		}
		m.manager.UpdateLowReservoirReminder(units, m.completionFor(commandLowReservoir))
	}

	m.logger.SetDebugEnabled(draft.Debug)
	if err := m.persistSettings(draft); err != nil {
		m.ui = m.ui.WithAlert("Failed to Save Settings", err.Error())
		return nil
	}

	m.ui = m.ui.WithSaveCommitted()
	return nil
}

func (m *podModel) persistSettings(draft podview.SettingsDraft) error {
	settings := config.SettingsFromOptions(m.currentOptions())
	settings.Debug = draft.Debug
	settings.ConfirmationBeeps = m.ui.BeepsOn
	settings.ExpirationReminderHours = m.reminderHours
	if units, err := strconv.ParseFloat(strings.TrimSpace(draft.LowReservoir), 64); err == nil {
		settings.LowReservoirUnits = units
	}
	return config.SaveSettings(settings)
}

func (m *podModel) currentOptions() config.Options {
	return config.Options{
		StateFile: m.opts.StateFile,
		TimeZone:  m.opts.TimeZone,
		Debug:     m.ui.DebugOn,
	}
}

func (m *podModel) handleCommandDone(done commandDoneMsg) tea.Cmd {
	switch done.kind {
	case commandSuspend, commandResume, commandDeactivate:
		m.deliveryBusy = false
	case commandSyncTime:
		m.syncingTime = false
	case commandBeeps:
		m.changingBeeps = false
	}

	if done.err != nil {
		if done.kind == commandBeeps {
			m.ui.BeepsOn = m.beepsOn
		}
		m.ui = m.ui.WithAlert(alertTitle(done.kind), done.err.Error())
		m.refreshFromManager()
		return nil
	}

	if done.kind == commandExpirationReminder {
		m.reminderDate = done.reminderDate
		m.hasReminderDate = true
	}
	m.refreshFromManager()

	// An acknowledged deactivation ends the session; there is no pod left
	// to control.
	if done.kind == commandDeactivate {
		return m.beginQuitCmd()
	}
	return nil
}

func alertTitle(kind commandKind) string {
	switch kind {
	case commandSuspend:
		return "Failed to Suspend Insulin Delivery"
	case commandResume:
		return "Failed to Resume Insulin Delivery"
	case commandSyncTime:
		return "Failed to Set Pod Time"
	case commandExpirationReminder:
		return "Failed to Update Expiration Reminder"
	case commandLowReservoir:
		return "Failed to Update Low Reservoir Reminder"
	case commandBeeps:
		return "Failed to Change Confirmation Beeps"
	case commandDeactivate:
		return "Failed to Deactivate Pod"
	default:
		return "Pod Command Failed"
	}
}
