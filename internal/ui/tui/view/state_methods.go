package view

import (
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"podpilot/internal/ui/tui/theme"
)

const (
	TabOverview = iota
	TabDetails
	TabSettings
	tabCount
)

const (
	DefaultNonLogLayoutReserveMin = 24
	DefaultMinLogPanelHeight      = 8
	ConfirmChoiceCancel           = 0
	ConfirmChoiceAccept           = 1
)

const (
	deliveryControlIndex = iota
	syncControlIndex
	refreshControlIndex
	stopPodControlIndex
	logsControlIndex
	quitControlIndex
	debugControlIndex
)

const (
	overviewFocusCountWithoutLogs = 6
	overviewFocusCountWithLogs    = 7
	detailsFocusCount             = 1
	settingsExtraFocusSlots       = 3
)

const (
	minPageWidth = 24
)

const (
	logPanelHorizontalInset = 8
	minViewportDimension    = 1
	minLogViewportWidth     = 20
	logViewportHeightOffset = 3
	minLogViewportHeight    = 3
	panelFrameOverhead      = 4
	borderRows              = 2
	sectionGapRows          = 2
)

func (s *State) ApplyFocus() {
	for i := range s.Inputs {
		if s.Tab == TabSettings && i == s.Focus {
			s.Inputs[i].Focus()
		} else {
			s.Inputs[i].Blur()
		}
	}
}

func (s State) FocusCount() int {
	switch s.Tab {
	case TabOverview:
		if s.ShowLogs {
			return overviewFocusCountWithLogs
		}
		return overviewFocusCountWithoutLogs
	case TabDetails:
		return detailsFocusCount
	default:
		return len(s.Inputs) + settingsExtraFocusSlots
	}
}

func (s State) DeliveryIndex() int { return deliveryControlIndex }
func (s State) SyncIndex() int     { return syncControlIndex }
func (s State) RefreshIndex() int  { return refreshControlIndex }
func (s State) StopPodIndex() int  { return stopPodControlIndex }
func (s State) LogsIndex() int     { return logsControlIndex }
func (s State) QuitIndex() int     { return quitControlIndex }
func (s State) DebugIndex() int    { return debugControlIndex }
func (s State) BeepsIndex() int    { return len(s.Inputs) }
func (s State) SaveIndex() int     { return len(s.Inputs) + 1 }
func (s State) CancelIndex() int   { return len(s.Inputs) + 2 }

func (s State) ContentWidth() int {
	width := max(s.Width, 1)
	// Some Windows terminals wrap when a styled line lands exactly on the
	// reported last column; keep one-column headroom to avoid right-edge drift.
	if runtime.GOOS == "windows" && width > 1 {
		width--
	}
	return width
}

func (s State) PageWidth() int {
	return max(s.ContentWidth()-theme.PanelStyle.GetHorizontalFrameSize(), minPageWidth)
}

func (s State) LogPanelHeight(nonLogLayoutReserveMin int, minLogPanelHeight int) int {
	available := s.Height - nonLogLayoutReserveMin
	if available < minLogPanelHeight {
		return minLogPanelHeight
	}
	return available
}

func (s *State) SetLogViewportContent() {
	width := max(s.LogView.Width, minViewportDimension)
	s.LogView.SetContent(wrapLogText(s.LogText, width))
}

func (s *State) ResizeLogs(nonLogLayoutReserveMin int, minLogPanelHeight int) {
	w := max(s.PageWidth()-logPanelHorizontalInset, minLogViewportWidth)
	h := max(s.LogPanelHeight(nonLogLayoutReserveMin, minLogPanelHeight)-logViewportHeightOffset, minLogViewportHeight)
	s.LogView.Width = w
	s.LogView.Height = h
	s.SetLogViewportContent()
}

func (s *State) FitLogViewportHeight(nonLogSections []string, nonLogLayoutReserveMin int, minLogPanelHeight int) {
	if s.Height <= 0 {
		return
	}
	desired := max(s.LogPanelHeight(nonLogLayoutReserveMin, minLogPanelHeight)-logViewportHeightOffset, minLogViewportHeight)
	nonLogHeight := lipgloss.Height(strings.Join(nonLogSections, "\n\n"))
	availablePanel := s.Height - borderRows - nonLogHeight - sectionGapRows
	maxLogHeight := max(availablePanel-panelFrameOverhead, minLogViewportHeight)
	if desired > maxLogHeight {
		desired = maxLogHeight
	}
	s.LogView.Height = desired
}

func (s State) WithDraftFromControls() State {
	s.Draft.ReminderDate = strings.TrimSpace(s.Inputs[ReminderInputIndex].Value())
	s.Draft.LowReservoir = strings.TrimSpace(s.Inputs[LowReservoirInputIndex].Value())
	s.Draft.SuspendMinutes = strings.TrimSpace(s.Inputs[SuspendInputIndex].Value())
	s.Draft.Debug = s.DebugOn
	s.SettingsDirty = s.Draft != s.SavedDraft
	return s
}

func (s State) WithDraftAppliedToControls() State {
	s.Inputs[ReminderInputIndex].SetValue(strings.TrimSpace(s.Draft.ReminderDate))
	s.Inputs[LowReservoirInputIndex].SetValue(strings.TrimSpace(s.Draft.LowReservoir))
	s.Inputs[SuspendInputIndex].SetValue(strings.TrimSpace(s.Draft.SuspendMinutes))
	s.DebugOn = s.Draft.Debug
	return s
}

func (s State) WithSaveCommitted() State {
	s.SavedDraft = s.Draft
	s.SettingsDirty = false
	return s
}

func (s State) WithCancelDraft() State {
	s.Draft = s.SavedDraft
	s = s.WithDraftAppliedToControls()
	s.SettingsDirty = false
	return s
}

// WithAlert opens the alert modal. An empty title renders a generic header.
func (s State) WithAlert(title string, text string) State {
	s.AlertTitle = title
	s.AlertText = text
	return s
}

func (s State) WithAlertDismissed() State {
	s.AlertTitle = ""
	s.AlertText = ""
	return s
}

func wrapLogText(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	return ansi.Wrap(text, width, "")
}
