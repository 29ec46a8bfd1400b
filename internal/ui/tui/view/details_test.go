package view

import (
	"strings"
	"testing"
	"time"

	"podpilot/internal/pod"
)

func TestRenderDetails_ShowsNASentinels(t *testing.T) {
	out := RenderDetails(pod.Details{}, 80)

	if got := strings.Count(out, NASentinel); got != 7 {
		t.Fatalf("expected 7 NA rows for an empty details struct, got %d:\n%s", got, out)
	}
	for _, label := range []string{
		"Device Name", "Lot Number", "Sequence Number",
		"Firmware Version", "BLE Firmware Version", "Total Delivery", "Last Status",
	} {
		if !strings.Contains(out, label) {
			t.Errorf("missing row label %q", label)
		}
	}
	if strings.Contains(out, "Pod Fault") || strings.Contains(out, "Fault Code") {
		t.Errorf("fault rows rendered without a fault:\n%s", out)
	}
}

func TestRenderDetails_ReportedValues(t *testing.T) {
	total := 52.375
	last := time.Date(2026, 8, 23, 14, 5, 0, 0, time.UTC)
	details := pod.Details{
		LotNumber:          "L44172",
		SequenceNumber:     "0591244",
		FirmwareVersion:    "2.9.0",
		BLEFirmwareVersion: "1.4.0",
		DeviceName:         "DASH 17FE",
		TotalDelivery:      &total,
		LastStatus:         &last,
	}

	out := RenderDetails(details, 80)
	for _, want := range []string{"L44172", "0591244", "2.9.0", "1.4.0", "DASH 17FE", "52.38 U", "2026-08-23 14:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, NASentinel) {
		t.Errorf("unexpected NA sentinel when all fields are reported:\n%s", out)
	}
}

func TestRenderDetails_FaultRows(t *testing.T) {
	occurred := time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC)
	details := pod.Details{
		LotNumber: "L44172",
		Fault: &pod.FaultStatus{
			Code:       pod.Occluded,
			OccurredAt: occurred,
		},
	}

	out := RenderDetails(details, 80)
	if !strings.Contains(out, "Pod Fault") {
		t.Fatalf("fault description row missing:\n%s", out)
	}
	if !strings.Contains(out, details.Fault.Code.String()) {
		t.Errorf("fault code %q missing:\n%s", details.Fault.Code.String(), out)
	}
	if !strings.Contains(out, "2026-08-22 09:30") {
		t.Errorf("fault time row missing:\n%s", out)
	}
}

func TestRenderDetails_FaultTimeOmittedWhenUnknown(t *testing.T) {
	details := pod.Details{
		Fault: &pod.FaultStatus{Code: pod.ReservoirEmpty},
	}

	out := RenderDetails(details, 80)
	if !strings.Contains(out, "Fault Code") {
		t.Fatalf("fault code row missing:\n%s", out)
	}
	if strings.Contains(out, "Fault Time") {
		t.Errorf("fault time row rendered for zero OccurredAt:\n%s", out)
	}
}
