// Package podlink is the transport between the pump manager and the pod.
// The BLE radio is out of scope here; the pod side is represented by a JSON
// state file that commands mutate atomically and a watcher observes for
// pod-originated changes.
package podlink

import (
	"fmt"
	"strings"
	"time"

	"podpilot/internal/pod"
)

// Phase is the pod-side lifecycle phase persisted in the state file.
type Phase string

const (
	PhaseActivating   Phase = "activating"
	PhaseActive       Phase = "active"
	PhaseDeactivating Phase = "deactivating"
	PhaseDeactivated  Phase = "deactivated"
)

// PodState is the wire representation of the pod. Pointer fields stay nil
// when the pod has never reported the value.
type PodState struct {
	Phase              Phase      `json:"phase"`
	ActivatedAt        time.Time  `json:"activated_at"`
	ExpiresAt          time.Time  `json:"expires_at"`
	PodClock           time.Time  `json:"pod_clock"`
	BasalState         string     `json:"basal_state"`
	ReservoirUnits     *float64   `json:"reservoir_units,omitempty"`
	FaultCode          *byte      `json:"fault_code,omitempty"`
	FaultAt            *time.Time `json:"fault_at,omitempty"`
	LotNumber          string     `json:"lot_number"`
	SequenceNumber     string     `json:"sequence_number"`
	FirmwareVersion    string     `json:"firmware_version"`
	BLEFirmwareVersion string     `json:"ble_firmware_version"`
	DeviceName         string     `json:"device_name"`
	TotalDelivery      *float64   `json:"total_delivery,omitempty"`
	LastStatus         *time.Time `json:"last_status,omitempty"`
	ExpirationReminder int        `json:"expiration_reminder_hours"`
	LowReservoirAlert  float64    `json:"low_reservoir_alert_units"`
	ConfirmationBeeps  bool       `json:"confirmation_beeps"`
	SuspendedUntil     *time.Time `json:"suspended_until,omitempty"`
	SuspendReminder    bool       `json:"suspend_reminder,omitempty"`
}

// BasalDeliveryState decodes the persisted basal phase. The second result is
// false when the pod has not reported a basal state yet.
func (s PodState) BasalDeliveryState() (pod.BasalDeliveryState, bool) {
	switch strings.TrimSpace(s.BasalState) {
	case "active":
		return pod.BasalActive, true
	case "suspending":
		return pod.BasalSuspending, true
	case "suspended":
		return pod.BasalSuspended, true
	case "resuming":
		return pod.BasalResuming, true
	case "initiating_temp_basal":
		return pod.BasalInitiatingTempBasal, true
	case "temp_basal":
		return pod.BasalTempBasal, true
	case "canceling_temp_basal":
		return pod.BasalCancelingTempBasal, true
	default:
		return 0, false
	}
}

// SetBasalDeliveryState encodes the basal phase for persistence.
func (s *PodState) SetBasalDeliveryState(state pod.BasalDeliveryState) {
	switch state {
	case pod.BasalActive:
		s.BasalState = "active"
	case pod.BasalSuspending:
		s.BasalState = "suspending"
	case pod.BasalSuspended:
		s.BasalState = "suspended"
	case pod.BasalResuming:
		s.BasalState = "resuming"
	case pod.BasalInitiatingTempBasal:
		s.BasalState = "initiating_temp_basal"
	case pod.BasalTempBasal:
		s.BasalState = "temp_basal"
	case pod.BasalCancelingTempBasal:
		s.BasalState = "canceling_temp_basal"
	}
}

// Fault returns the decoded fault status, or nil when the pod is healthy.
func (s PodState) Fault() *pod.FaultStatus {
	if s.FaultCode == nil || pod.FaultEventCode(*s.FaultCode) == pod.NoFaults {
		return nil
	}
	status := pod.FaultStatus{Code: pod.FaultEventCode(*s.FaultCode)}
	if s.FaultAt != nil {
		status.OccurredAt = *s.FaultAt
	}
	return &status
}

func (s PodState) validate() error {
	switch s.Phase {
	case PhaseActivating, PhaseActive, PhaseDeactivating, PhaseDeactivated:
		return nil
	default:
		return fmt.Errorf("unknown pod phase %q", string(s.Phase))
	}
}
