package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"podpilot/internal/ui/tui/theme"
)

// Emphasis tiers shared by the reservoir and life-state lines.
const (
	EmphasisNormal = iota
	EmphasisWarning
	EmphasisCritical
)

// Delivery action presentation kinds.
const (
	DeliverySuspend = iota
	DeliveryResume
	DeliveryDisabled
)

const (
	minComponentWidth = 1
	scrollbarMinThumb = 0
)

func RenderTabs(activeTab int, hoverZone string) string {
	labels := []struct {
		zoneID string
		tab    int
		text   string
	}{
		{zoneTabOverview, TabOverview, " Overview "},
		{zoneTabDetails, TabDetails, " Pod Details "},
		{zoneTabSettings, TabSettings, " Settings "},
	}
	rendered := make([]string, 0, len(labels))
	for _, label := range labels {
		style := theme.TabInactiveStyle
		if hoverZone == label.zoneID {
			style = theme.TabHoverStyle
		}
		if activeTab == label.tab {
			style = theme.TabActiveStyle
		}
		rendered = append(rendered, zone.Mark(label.zoneID, style.Render(label.text)))
	}
	out := rendered[0]
	for _, tab := range rendered[1:] {
		out = lipgloss.JoinHorizontal(lipgloss.Bottom, out, tab)
	}
	return out
}

func EmphasisStyle(kind int) lipgloss.Style {
	switch kind {
	case EmphasisCritical:
		return theme.CriticalStyle
	case EmphasisWarning:
		return theme.WarningStyle
	default:
		return theme.ValueStyle
	}
}

func RenderActionsRow(segments []string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = minComponentWidth
	}
	lines := make([]string, 0, len(segments))
	rowParts := make([]string, 0, len(segments))
	joinRow := func(parts []string) string {
		if len(parts) == 0 {
			return ""
		}
		row := parts[0]
		for i := 1; i < len(parts); i++ {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", parts[i])
		}
		return row
	}
	for _, seg := range segments {
		if len(rowParts) == 0 {
			rowParts = append(rowParts, seg)
			continue
		}
		candidateParts := append(append([]string(nil), rowParts...), seg)
		candidate := joinRow(candidateParts)
		if lipgloss.Width(candidate) <= maxWidth {
			rowParts = candidateParts
			continue
		}
		lines = append(lines, joinRow(rowParts))
		rowParts = []string{seg}
	}
	if len(rowParts) > 0 {
		lines = append(lines, joinRow(rowParts))
	}
	return strings.Join(lines, "\n")
}

func WithScrollBar(content string, width int, height int, percent float64) string {
	if height <= 0 {
		return content
	}
	width = max(width, minComponentWidth)
	lines := strings.Split(content, "\n")
	if len(lines) < height {
		pad := make([]string, 0, height-len(lines))
		for range height - len(lines) {
			pad = append(pad, "")
		}
		lines = append(lines, pad...)
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	thumb := int(percent * float64(height-1))
	thumb = max(thumb, scrollbarMinThumb)
	if thumb >= height {
		thumb = height - 1
	}
	barInactive := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("┊")
	barActive := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("▯")

	out := make([]string, 0, height)
	for i := range height {
		bar := barInactive
		if i == thumb {
			bar = barActive
		}
		text := ansi.Cut(lines[i], 0, width)
		if pad := width - ansi.StringWidth(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		out = append(out, text+" "+bar)
	}
	return strings.Join(out, "\n")
}
