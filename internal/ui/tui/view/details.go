package view

import (
	"fmt"
	"strings"
	"time"

	"podpilot/internal/pod"
	"podpilot/internal/ui/tui/render"
	"podpilot/internal/ui/tui/theme"
)

const (
	detailsLabelWidth   = 22
	detailsMinValueSpan = 8
	detailsTimeLayout   = "2006-01-02 15:04"

	// NASentinel marks values the pod never reported.
	NASentinel = "NA"
)

type detailsRow struct {
	label string
	value string
}

// RenderDetails renders the pod hardware/identity rows in fixed order. Fields
// the pod never reported show the NA sentinel; fault rows appear only when a
// fault is present.
func RenderDetails(details pod.Details, width int) string {
	rows := []detailsRow{
		{"Device Name", orNA(details.DeviceName)},
		{"Lot Number", orNA(details.LotNumber)},
		{"Sequence Number", orNA(details.SequenceNumber)},
		{"Firmware Version", orNA(details.FirmwareVersion)},
		{"BLE Firmware Version", orNA(details.BLEFirmwareVersion)},
		{"Total Delivery", totalDeliveryText(details.TotalDelivery)},
		{"Last Status", lastStatusText(details.LastStatus)},
	}
	if details.Fault != nil {
		rows = append(rows,
			detailsRow{"Pod Fault", details.Fault.Code.Description()},
			detailsRow{"Fault Code", details.Fault.Code.String()},
		)
		if !details.Fault.OccurredAt.IsZero() {
			rows = append(rows, detailsRow{"Fault Time", details.Fault.OccurredAt.Format(detailsTimeLayout)})
		}
	}

	valueSpan := max(width-detailsLabelWidth-1, detailsMinValueSpan)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		label := theme.LabelStyle.Render(fmt.Sprintf("%-*s", detailsLabelWidth, row.label))
		value := render.TruncateDisplayWidth(row.value, valueSpan)
		if row.value == NASentinel {
			value = theme.DimStyle.Render(value)
		}
		lines = append(lines, label+" "+value)
	}
	return strings.Join(lines, "\n")
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NASentinel
	}
	return value
}

func totalDeliveryText(units *float64) string {
	if units == nil {
		return NASentinel
	}
	return fmt.Sprintf("%.2f U", *units)
}

func lastStatusText(at *time.Time) string {
	if at == nil {
		return NASentinel
	}
	return at.Format(detailsTimeLayout)
}
