package tui

import (
	"fmt"
	"time"

	"podpilot/internal/pod"
	"podpilot/internal/ui/tui/status"
	podview "podpilot/internal/ui/tui/view"
)

// podView projects the published pod snapshot into the render DTO consumed
// by the view package.
func (m *podModel) podView() podview.PodView {
	category := m.podError()
	deliveryLabel, deliveryKind := m.deliveryAction()

	pv := podview.PodView{
		Title:   m.title,
		Version: m.buildVersion,

		LifeText:          m.life.String(),
		LifeEmphasis:      m.lifeEmphasis(category),
		BasalText:         m.basalText(),
		ReservoirText:     m.reservoirText(),
		ReservoirEmphasis: reservoirEmphasis(m.highlight),

		ActivatedText: m.scheduleTime(m.activatedAt, m.hasActivatedAt),
		ExpiresText:   m.scheduleTime(m.expiresAt, m.hasExpiresAt),
		LastSyncText:  m.scheduleTime(m.lastSync, m.hasLastSync),
		ReminderText:  m.reminderText(),
		ThresholdText: fmt.Sprintf("%.1f U", m.lowReservoirUnits),
		TimeZoneText:  m.manager.TimeZone().String(),

		ErrorText:    category.Label(),
		RecoveryText: status.Recovery(category),

		PodOK:         m.podOK(),
		DeliveryLabel: deliveryLabel,
		DeliveryKind:  deliveryKind,
		Busy:          m.busy(),

		Details:    m.details,
		HasDetails: m.hasDetails,
	}

	if m.clockOffset {
		pv.NoticeTitle = "Time Change Detected"
		pv.NoticeBody = "The pod clock no longer matches this device. Sync the pod time."
	}
	return pv
}

func (m *podModel) lifeEmphasis(category status.Category) int {
	if category != status.CategoryNone {
		return podview.EmphasisCritical
	}
	if m.life.Kind == pod.LifeTimeRemaining &&
		m.life.Remaining <= time.Duration(m.reminderHours)*time.Hour {
		return podview.EmphasisWarning
	}
	return podview.EmphasisNormal
}

func (m *podModel) basalText() string {
	if !m.basalKnown {
		return "Unknown"
	}
	if m.basal == pod.BasalSuspended && m.hasSuspendedUntil {
		return "suspended until " + m.suspendedUntil.In(m.manager.TimeZone()).Format("15:04")
	}
	return m.basal.String()
}

func (m *podModel) reservoirText() string {
	if !m.hasReservoir {
		return podview.NASentinel
	}
	return m.reservoir.String()
}

func reservoirEmphasis(h pod.ReservoirHighlight) int {
	switch h {
	case pod.HighlightCritical:
		return podview.EmphasisCritical
	case pod.HighlightWarning:
		return podview.EmphasisWarning
	default:
		return podview.EmphasisNormal
	}
}

func (m *podModel) scheduleTime(at time.Time, known bool) string {
	if !known {
		return podview.NASentinel
	}
	return at.In(m.manager.TimeZone()).Format(scheduleTimeLayout)
}

// reminderText prefers the exact date the user scheduled; otherwise it is
// derived from the configured offset before expiry.
func (m *podModel) reminderText() string {
	if m.hasReminderDate {
		return m.reminderDate.In(m.manager.TimeZone()).Format(scheduleTimeLayout)
	}
	if m.hasExpiresAt {
		return m.expiresAt.Add(-time.Duration(m.reminderHours) * time.Hour).
			In(m.manager.TimeZone()).Format(scheduleTimeLayout)
	}
	return fmt.Sprintf("%dh before expiry", m.reminderHours)
}

// View is the Bubble Tea render entrypoint; rendering is delegated to the
// pure view package.
func (m *podModel) View() string {
	return podview.RenderApp(&m.ui, m.podView())
}
