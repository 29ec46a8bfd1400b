// Package pod holds the Omnipod domain model shared by the pump manager and
// the UI: communication/lifecycle states, basal delivery states, reservoir
// classification, and the pod fault taxonomy.
package pod

import (
	"fmt"
	"time"
)

// CommState is the manager's high-level communication/lifecycle phase with
// the pod. A Fault comm state carries the fault status alongside.
type CommState int

const (
	CommNoPod CommState = iota
	CommActivating
	CommActive
	CommDeactivating
	CommFault
)

func (s CommState) String() string {
	switch s {
	case CommNoPod:
		return "no pod"
	case CommActivating:
		return "activating"
	case CommActive:
		return "active"
	case CommDeactivating:
		return "deactivating"
	case CommFault:
		return "fault"
	default:
		return fmt.Sprintf("comm(%d)", int(s))
	}
}

// BasalDeliveryState is the pod's continuous-delivery phase.
type BasalDeliveryState int

const (
	BasalActive BasalDeliveryState = iota
	BasalSuspending
	BasalSuspended
	BasalResuming
	BasalInitiatingTempBasal
	BasalTempBasal
	BasalCancelingTempBasal
)

func (s BasalDeliveryState) String() string {
	switch s {
	case BasalActive:
		return "active"
	case BasalSuspending:
		return "suspending"
	case BasalSuspended:
		return "suspended"
	case BasalResuming:
		return "resuming"
	case BasalInitiatingTempBasal:
		return "initiating temp basal"
	case BasalTempBasal:
		return "temp basal"
	case BasalCancelingTempBasal:
		return "canceling temp basal"
	default:
		return fmt.Sprintf("basal(%d)", int(s))
	}
}

// IsScheduledBasal reports whether the scheduled basal program is running.
// Temp-basal initiation still counts: the schedule resumes underneath it.
func (s BasalDeliveryState) IsScheduledBasal() bool {
	switch s {
	case BasalActive, BasalInitiatingTempBasal:
		return true
	case BasalSuspending, BasalSuspended, BasalResuming, BasalTempBasal, BasalCancelingTempBasal:
		return false
	default:
		return false
	}
}

// IsTransitioning reports whether the pod is between steady delivery states.
func (s BasalDeliveryState) IsTransitioning() bool {
	switch s {
	case BasalSuspending, BasalResuming, BasalInitiatingTempBasal, BasalCancelingTempBasal:
		return true
	default:
		return false
	}
}

// LifeStateKind tags the derived pod life state.
type LifeStateKind int

const (
	LifeNoPod LifeStateKind = iota
	LifeActivating
	LifeDeactivating
	LifeTimeRemaining
	LifeExpired
)

// LifeState is the derived lifecycle presentation of the pod. It is never
// stored; the pump manager recomputes it from comm state, fault data, and
// the expiration timestamp on every read.
type LifeState struct {
	Kind      LifeStateKind
	Remaining time.Duration
}

func NoPodLifeState() LifeState        { return LifeState{Kind: LifeNoPod} }
func ActivatingLifeState() LifeState   { return LifeState{Kind: LifeActivating} }
func DeactivatingLifeState() LifeState { return LifeState{Kind: LifeDeactivating} }
func ExpiredLifeState() LifeState      { return LifeState{Kind: LifeExpired} }

func TimeRemainingLifeState(remaining time.Duration) LifeState {
	if remaining <= 0 {
		return ExpiredLifeState()
	}
	return LifeState{Kind: LifeTimeRemaining, Remaining: remaining}
}

func (s LifeState) String() string {
	switch s.Kind {
	case LifeNoPod:
		return "No Pod"
	case LifeActivating:
		return "Activating"
	case LifeDeactivating:
		return "Deactivating"
	case LifeTimeRemaining:
		return formatRemaining(s.Remaining)
	case LifeExpired:
		return "Expired"
	default:
		return fmt.Sprintf("life(%d)", int(s.Kind))
	}
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	if hours <= 0 {
		return fmt.Sprintf("%dm remaining", minutes)
	}
	return fmt.Sprintf("%dh %dm remaining", hours, minutes)
}

// ReservoirLevel is the pod's remaining-insulin reading. The pod only reports
// an exact quantity once the level drops below its measurable ceiling; above
// that it reports only "more than threshold".
type ReservoirLevel struct {
	exact bool
	units float64
}

func ReservoirAboveThreshold() ReservoirLevel { return ReservoirLevel{} }

func ReservoirValid(units float64) ReservoirLevel {
	if units < 0 {
		units = 0
	}
	return ReservoirLevel{exact: true, units: units}
}

// Units returns the exact reading, false when the level is above threshold.
func (r ReservoirLevel) Units() (float64, bool) {
	return r.units, r.exact
}

func (r ReservoirLevel) String() string {
	if !r.exact {
		return "50+ U"
	}
	return fmt.Sprintf("%.1f U", r.units)
}

// ReservoirHighlight classifies the reservoir level for UI emphasis.
type ReservoirHighlight int

const (
	HighlightNormal ReservoirHighlight = iota
	HighlightWarning
	HighlightCritical
)

func (h ReservoirHighlight) String() string {
	switch h {
	case HighlightNormal:
		return "normal"
	case HighlightWarning:
		return "warning"
	case HighlightCritical:
		return "critical"
	default:
		return fmt.Sprintf("highlight(%d)", int(h))
	}
}
