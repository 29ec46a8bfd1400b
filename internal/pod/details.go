package pod

import "time"

// Details is the immutable pod-details snapshot constructed by the pump
// manager on demand. Optional fields stay nil when the pod never reported
// them; the details view renders those as "NA" rather than blank.
type Details struct {
	LotNumber          string
	SequenceNumber     string
	FirmwareVersion    string
	BLEFirmwareVersion string
	DeviceName         string
	TotalDelivery      *float64
	LastStatus         *time.Time
	Fault              *FaultStatus
}
