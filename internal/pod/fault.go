package pod

import (
	"fmt"
	"time"
)

// FaultEventCode is the coded hardware/firmware fault reported by the pod.
type FaultEventCode byte

const (
	NoFaults                     FaultEventCode = 0x00
	FailedFlashErase             FaultEventCode = 0x01
	FailedFlashStore             FaultEventCode = 0x02
	TableCorruptionBasalSchedule FaultEventCode = 0x03
	CorruptionByte720            FaultEventCode = 0x05
	Occluded                     FaultEventCode = 0x14
	ReservoirEmpty               FaultEventCode = 0x18
	ExceededMaximumPodLife80Hrs  FaultEventCode = 0x1c
	InvalidFlashState            FaultEventCode = 0x23
	OcclusionCheckStartup1       FaultEventCode = 0x35
	OcclusionCheckStartup2       FaultEventCode = 0x36
	OcclusionCheckTimeouts1      FaultEventCode = 0x37
	OcclusionCheckTimeouts2      FaultEventCode = 0x39
	OcclusionCheckTimeouts3      FaultEventCode = 0x3a
	OcclusionCheckPulseIssue     FaultEventCode = 0x3b
	OcclusionCheckBolusProblem   FaultEventCode = 0x3c
	CommandError                 FaultEventCode = 0x40
	OcclusionCheckAboveThreshold FaultEventCode = 0x5c
)

// IsOcclusion reports whether the code is one of the nine occlusion faults.
func (c FaultEventCode) IsOcclusion() bool {
	switch c {
	case Occluded,
		OcclusionCheckStartup1,
		OcclusionCheckStartup2,
		OcclusionCheckTimeouts1,
		OcclusionCheckTimeouts2,
		OcclusionCheckTimeouts3,
		OcclusionCheckPulseIssue,
		OcclusionCheckBolusProblem,
		OcclusionCheckAboveThreshold:
		return true
	default:
		return false
	}
}

// Description returns human-readable fault text for the details screen.
func (c FaultEventCode) Description() string {
	switch c {
	case NoFaults:
		return "No faults"
	case FailedFlashErase:
		return "Flash erase failed"
	case FailedFlashStore:
		return "Flash store failed"
	case TableCorruptionBasalSchedule:
		return "Basal schedule table corruption"
	case CorruptionByte720:
		return "Corruption in byte 720"
	case Occluded:
		return "Occlusion detected"
	case ReservoirEmpty:
		return "Empty reservoir"
	case ExceededMaximumPodLife80Hrs:
		return "Pod expired"
	case InvalidFlashState:
		return "Invalid flash state"
	case OcclusionCheckStartup1, OcclusionCheckStartup2:
		return "Occlusion detected during startup"
	case OcclusionCheckTimeouts1, OcclusionCheckTimeouts2, OcclusionCheckTimeouts3:
		return "Occlusion check timeout"
	case OcclusionCheckPulseIssue:
		return "Occlusion check pulse issue"
	case OcclusionCheckBolusProblem:
		return "Occlusion detected during bolus"
	case CommandError:
		return "Command error"
	case OcclusionCheckAboveThreshold:
		return "Occlusion check above threshold"
	default:
		return "Unknown pod fault"
	}
}

// String renders the raw code the way service documentation quotes it.
func (c FaultEventCode) String() string {
	return fmt.Sprintf("0x%02x", byte(c))
}

// FaultStatus pairs a fault code with the time the pod reported it.
type FaultStatus struct {
	Code       FaultEventCode
	OccurredAt time.Time
}
