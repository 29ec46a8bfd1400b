package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"podpilot/internal/pod"
	"podpilot/internal/ui/tui/render"
	"podpilot/internal/ui/tui/theme"
)

// PodView is the render DTO the model projects its published fields into.
// Everything here is presentation-ready; no derivation happens in the view.
type PodView struct {
	Title   string
	Version string

	LifeText          string
	LifeEmphasis      int
	BasalText         string
	ReservoirText     string
	ReservoirEmphasis int

	ActivatedText string
	ExpiresText   string
	LastSyncText  string
	ReminderText  string
	ThresholdText string
	TimeZoneText  string

	ErrorText    string
	RecoveryText string
	NoticeTitle  string
	NoticeBody   string

	PodOK         bool
	DeliveryLabel string
	DeliveryKind  int
	Busy          Busy

	Details    pod.Details
	HasDetails bool
}

const (
	outerPaneGap               = 2
	frameInnerInset            = 4
	minOverviewLeftContent     = 12
	minOverviewLeftHeight      = 6
	minOverviewRemainingWidth  = 24
	settingsLabelWidth         = 12
	settingsRowExtraCapacity   = 5
	settingsControlMinWidth    = 16
	dialogHorizontalInset      = 8
	quitDialogWidth            = 72
	stopDialogWidth            = 76
	alertDialogWidth           = 78
	leftFrameExtraWidth        = 6
	leftFrameMinWidth          = 24
	rightPaneMinWidth          = 32
	sideBySideMinTotalWidth    = 84
	paneInnerMinWidth          = 1
	defaultOverviewPaneHeight  = 10
	largeOverviewPaneHeight    = 12
	largeOverviewHeightCutover = 36
	settingsHeightPadding      = 4
	settingsPaneMinHeight      = 12
)

func RenderApp(state *State, pv PodView) string {
	if state.Width == 0 {
		return "initializing..."
	}

	base := renderBase(state, pv)

	switch {
	case state.AlertText != "":
		base = renderModalOverlay(state, base, renderAlertDialog(state))
	case state.ConfirmStop:
		base = renderModalOverlay(state, base, renderStopConfirmDialog(state))
	case state.ConfirmQuit:
		base = renderModalOverlay(state, base, renderQuitConfirmDialog(state))
	}

	return zone.Scan(base)
}

func renderBase(state *State, pv PodView) string {
	title := pv.Title
	if pv.Version != "" {
		title += " (" + pv.Version + ")"
	}
	header := theme.TitleStyle.Render(title)
	tabs := RenderTabs(state.Tab, state.HoverZone)

	var content string
	switch state.Tab {
	case TabOverview:
		content = renderOverview(state, pv)
	case TabDetails:
		content = renderDetailsTab(state, pv)
	default:
		content = renderSettings(state, pv)
	}

	helpText := state.HelpView.View(state.Keys)
	if state.Tab == TabSettings {
		helpText += " • ctrl+s save"
	}

	sections := []string{header, tabs, content}

	if state.Tab == TabOverview && state.ShowLogs {
		state.FitLogViewportHeight([]string{header, tabs, content, helpText}, DefaultNonLogLayoutReserveMin, DefaultMinLogPanelHeight)
		sections = append(sections, renderLogPanel(state))
	}

	sections = append(sections, theme.HelpStyle.Render(helpText))
	root := strings.Join(sections, "\n\n")
	return renderFrame(root, state.ContentWidth())
}

func renderFrame(content string, width int) string {
	return render.Frame(content, width, theme.PanelStyle)
}

func renderOverview(state *State, pv PodView) string {
	total := state.PageWidth()
	gap := outerPaneGap
	ResizePaneViewports(state, pv)

	leftWidth, rightWidth, stacked := overviewPaneLayout(total, overviewLeftFrameWidth(state, pv, total))
	leftRenderWidth := leftWidth
	if stacked {
		leftRenderWidth = total
	}

	leftContentWidth := leftRenderWidth - frameInnerInset
	if leftContentWidth <= 0 {
		leftContentWidth = state.LeftView.Width
	}
	if leftContentWidth > outerPaneGap {
		leftContentWidth -= outerPaneGap
	}
	leftContentWidth = max(leftContentWidth, minOverviewLeftContent)
	state.LeftView.Width = leftContentWidth

	statusBlock := renderPodStatusBlock(pv, leftContentWidth)
	actionsLine := renderActionsRowState(state, pv, leftContentWidth)
	requiredLeftHeight := max(lipgloss.Height(statusBlock)+outerPaneGap+lipgloss.Height(actionsLine), minOverviewLeftHeight)

	if state.LeftView.Height < requiredLeftHeight {
		state.LeftView.Height = requiredLeftHeight
	}
	if !stacked && state.RightView.Height < requiredLeftHeight {
		state.RightView.Height = requiredLeftHeight
	}

	state.LeftView.SetContent(statusBlock + "\n\n" + actionsLine)
	left := renderFrame(state.LeftView.View(), leftRenderWidth)

	if stacked {
		state.RightView.SetContent(renderSchedulePanelBody(pv, total-frameInnerInset))
		right := renderFrame(state.RightView.View(), rightWidth)
		layout := left + "\n\n" + right
		return lipgloss.NewStyle().Width(total).Render(layout)
	}

	remaining := max(total-lipgloss.Width(left)-gap, minOverviewRemainingWidth)
	state.RightView.SetContent(renderSchedulePanelBody(pv, remaining-frameInnerInset))
	right := renderFrame(state.RightView.View(), remaining)
	layout := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)

	return lipgloss.NewStyle().Width(total).Render(layout)
}

func renderPodStatusBlock(pv PodView, width int) string {
	lines := []string{
		theme.LabelStyle.Render("Pod:       ") + EmphasisStyle(pv.LifeEmphasis).Render(pv.LifeText),
		theme.LabelStyle.Render("Basal:     ") + theme.ValueStyle.Render(pv.BasalText),
		theme.LabelStyle.Render("Reservoir: ") + EmphasisStyle(pv.ReservoirEmphasis).Render(pv.ReservoirText),
	}
	if pv.ErrorText != "" {
		lines = append(lines, "", theme.ErrorStyle.Render(pv.ErrorText))
		if pv.RecoveryText != "" {
			lines = append(lines, wrapToWidth(theme.HelpStyle.Render(pv.RecoveryText), width))
		}
	}
	if pv.NoticeTitle != "" {
		lines = append(lines, "", theme.NoticeStyle.Render(pv.NoticeTitle))
		if pv.NoticeBody != "" {
			lines = append(lines, wrapToWidth(theme.HelpStyle.Render(pv.NoticeBody), width))
		}
	}
	return strings.Join(lines, "\n")
}

func wrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func renderActionsRowState(state *State, pv PodView, maxWidth int) string {
	segments := []string{
		renderDeliveryButton(state, pv),
		renderSyncButton(state, pv),
		renderOverviewButton(state, "Refresh", state.RefreshIndex(), zoneOverviewRefresh),
		renderStopPodButton(state, pv),
		renderLogsButton(state),
		renderOverviewButton(state, "Quit", state.QuitIndex(), zoneOverviewQuit),
	}
	return RenderActionsRow(segments, maxWidth)
}

func renderDeliveryButton(state *State, pv PodView) string {
	label := pv.DeliveryLabel
	focused := state.Focus == state.DeliveryIndex()
	hovered := state.HoverZone == zoneOverviewDelivery

	var rendered string
	switch {
	case pv.DeliveryKind == DeliveryDisabled || pv.Busy.Delivery:
		if focused {
			rendered = theme.ButtonDisabledFocusedStyle.Render(label)
		} else if hovered {
			rendered = theme.ButtonDisabledHoverStyle.Render(label)
		} else {
			rendered = theme.ButtonDisabledStyle.Render(label)
		}
	case pv.DeliveryKind == DeliveryResume:
		if focused {
			rendered = theme.ButtonWarningFocusedStyle.Render(label)
		} else {
			rendered = theme.ButtonWarningStyle.Render(label)
		}
	default:
		if focused {
			rendered = theme.ButtonFocusedStyle.Render(label)
		} else if hovered {
			rendered = theme.ButtonHoverStyle.Render(label)
		} else {
			rendered = theme.ButtonStyle.Render(label)
		}
	}
	return zone.Mark(zoneOverviewDelivery, rendered)
}

func renderSyncButton(state *State, pv PodView) string {
	label := "Sync Time"
	if pv.Busy.Syncing {
		label = "Syncing..."
	}
	focused := state.Focus == state.SyncIndex()
	if pv.Busy.Syncing || !pv.PodOK {
		if focused {
			return zone.Mark(zoneOverviewSync, theme.ButtonDisabledFocusedStyle.Render(label))
		}
		return zone.Mark(zoneOverviewSync, theme.ButtonDisabledStyle.Render(label))
	}
	return zone.Mark(zoneOverviewSync, renderButtonLabel(state, label, focused, zoneOverviewSync))
}

func renderStopPodButton(state *State, pv PodView) string {
	label := "Stop Pod"
	focused := state.Focus == state.StopPodIndex()
	if !pv.HasDetails {
		if focused {
			return zone.Mark(zoneOverviewStopPod, theme.ButtonDisabledFocusedStyle.Render(label))
		}
		return zone.Mark(zoneOverviewStopPod, theme.ButtonDisabledStyle.Render(label))
	}
	return zone.Mark(zoneOverviewStopPod, renderButtonLabel(state, label, focused, zoneOverviewStopPod))
}

func renderLogsButton(state *State) string {
	label := "Logs"
	if state.ShowLogs {
		label = "Hide Logs"
	}
	return zone.Mark(zoneOverviewLogs, renderButtonLabel(state, label, state.Focus == state.LogsIndex(), zoneOverviewLogs))
}

func renderOverviewButton(state *State, label string, focusIndex int, zoneID string) string {
	return zone.Mark(zoneID, renderButtonLabel(state, label, state.Focus == focusIndex, zoneID))
}

func renderButtonLabel(state *State, label string, focused bool, zoneID string) string {
	switch {
	case focused:
		return theme.ButtonFocusedStyle.Render(label)
	case state.HoverZone == zoneID:
		return theme.ButtonHoverStyle.Render(label)
	default:
		return theme.ButtonStyle.Render(label)
	}
}

func renderSchedulePanelBody(pv PodView, width int) string {
	header := theme.TitleStyle.Render("Pod Schedule")
	rows := []struct {
		label string
		value string
	}{
		{"Activated", pv.ActivatedText},
		{"Expires", pv.ExpiresText},
		{"Reminder", pv.ReminderText},
		{"Low Reservoir", pv.ThresholdText},
		{"Last Status", pv.LastSyncText},
		{"Time Zone", pv.TimeZoneText},
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, header)
	labelWidth := 14
	for _, row := range rows {
		value := row.value
		if strings.TrimSpace(value) == "" {
			value = NASentinel
		}
		label := theme.LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, row.label))
		lines = append(lines, label+" "+render.TruncateDisplayWidth(value, max(width-labelWidth-1, 1)))
	}
	return strings.Join(lines, "\n")
}

func renderDetailsTab(state *State, pv PodView) string {
	width := max(state.PageWidth()-frameInnerInset, paneInnerMinWidth)
	state.DetailsView.Width = width
	if !pv.HasDetails {
		state.DetailsView.SetContent(theme.HelpStyle.Render("No pod is paired."))
	} else {
		state.DetailsView.SetContent(RenderDetails(pv.Details, width))
	}
	return renderFrame(state.DetailsView.View(), state.PageWidth())
}

func renderSettings(state *State, pv PodView) string {
	labels := []string{"Reminder", "Low Res. U", "Suspend Min"}
	labelWidth := settingsLabelWidth
	rows := make([]string, 0, len(state.Inputs)+settingsRowExtraCapacity)
	controlWidth := max(state.SettingsView.Width-labelWidth-outerPaneGap, settingsControlMinWidth)
	for i := range state.Inputs {
		label := labels[i]
		if state.Focus == i {
			label = theme.FocusStyle.Render("-> " + label)
		}
		state.Inputs[i].Width = controlWidth
		rows = append(rows, fmt.Sprintf("%-*s %s", labelWidth, label+":", zone.Mark(zoneSettingsInput(i), state.Inputs[i].View())))
	}

	beeps := "[ ] Confirmation beeps"
	if state.BeepsOn {
		beeps = "[x] Confirmation beeps"
	}
	if pv.Busy.Beeps {
		beeps += " (changing...)"
	}
	beepsLabel := "Beeps"
	if state.Focus == state.BeepsIndex() {
		beepsLabel = theme.FocusStyle.Render("-> Beeps")
	}
	rows = append(rows, fmt.Sprintf("%-*s %s", labelWidth, beepsLabel+":", zone.Mark(zoneSettingsBeeps, beeps)))

	saveLabel := theme.ButtonDisabledStyle.Render("Save")
	cancelLabel := theme.ButtonDisabledStyle.Render("Cancel")
	if state.SettingsDirty {
		saveLabel = theme.ButtonStyle.Render("Save")
		cancelLabel = theme.ButtonStyle.Render("Cancel")
	}
	if state.Focus == state.SaveIndex() {
		if state.SettingsDirty {
			saveLabel = theme.ButtonFocusedStyle.Render("Save")
		} else {
			saveLabel = theme.ButtonDisabledFocusedStyle.Render("Save")
		}
	}
	if state.Focus == state.CancelIndex() {
		if state.SettingsDirty {
			cancelLabel = theme.ButtonFocusedStyle.Render("Cancel")
		} else {
			cancelLabel = theme.ButtonDisabledFocusedStyle.Render("Cancel")
		}
	}

	rows = append(rows, "")
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
		zone.Mark(zoneSettingsSave, saveLabel), " ", zone.Mark(zoneSettingsCancel, cancelLabel)))
	if state.SettingsDirty {
		rows = append(rows, theme.HelpStyle.Render("unsaved changes"))
	}
	rows = append(rows, theme.HelpStyle.Render("Reminder format: "+state.Inputs[ReminderInputIndex].Placeholder))

	state.SettingsView.SetContent(strings.Join(rows, "\n"))

	return renderFrame(state.SettingsView.View(), state.PageWidth())
}

func renderLogPanel(state *State) string {
	check := "[ ] Debug"
	if state.DebugOn {
		check = "[x] Debug"
	}

	debug := theme.ButtonStyle.Render(check)
	if state.Focus == state.DebugIndex() {
		debug = theme.ButtonFocusedStyle.Render(check)
	}
	debug = zone.Mark(zoneOverviewDebug, debug)

	followHint := theme.HelpStyle.Render("ctrl+f follow")
	toolbar := lipgloss.JoinHorizontal(lipgloss.Center, theme.TitleStyle.Render("Logs"), "  ", debug, "  ", followHint)
	content := state.LogView.View()
	withBar := WithScrollBar(content, state.LogView.Width, state.LogView.Height, state.LogView.ScrollPercent())

	return renderFrame(toolbar+"\n"+withBar, state.PageWidth())
}

func renderQuitConfirmDialog(state *State) string {
	cancelButton := theme.ButtonStyle.Render("Cancel")
	quitButton := theme.ButtonStyle.Render("Quit")
	if state.ConfirmQuitChoice == ConfirmChoiceCancel {
		cancelButton = theme.ButtonFocusedStyle.Render("Cancel")
	} else {
		quitButton = theme.ButtonFocusedStyle.Render("Quit")
	}
	cancelButton = zone.Mark(zoneDialogQuitCancel, cancelButton)
	quitButton = zone.Mark(zoneDialogQuitAccept, quitButton)

	buttonRow := lipgloss.JoinHorizontal(lipgloss.Top, cancelButton, "  ", quitButton)
	dialogWidth := min(state.ContentWidth()-dialogHorizontalInset, quitDialogWidth)
	buttonLine := lipgloss.NewStyle().
		Width(max(dialogWidth-frameInnerInset, 1)).
		AlignHorizontal(lipgloss.Center).
		Render(buttonRow)

	body := strings.Join([]string{
		theme.TitleStyle.Render("Quit PodPilot?"),
		"The pod keeps delivering insulin; only this controller UI closes.",
		buttonLine,
		theme.HelpStyle.Render("tab/arrow switch • enter confirms"),
	}, "\n")

	return renderFrame(body, dialogWidth)
}

func renderStopConfirmDialog(state *State) string {
	cancelButton := theme.ButtonStyle.Render("Cancel")
	stopButton := theme.ButtonStyle.Render("Deactivate")
	if state.ConfirmStopChoice == ConfirmChoiceCancel {
		cancelButton = theme.ButtonFocusedStyle.Render("Cancel")
	} else {
		stopButton = theme.ButtonFocusedStyle.Render("Deactivate")
	}
	cancelButton = zone.Mark(zoneDialogStopCancel, cancelButton)
	stopButton = zone.Mark(zoneDialogStopAccept, stopButton)

	buttonRow := lipgloss.JoinHorizontal(lipgloss.Top, cancelButton, "  ", stopButton)
	dialogWidth := min(state.ContentWidth()-dialogHorizontalInset, stopDialogWidth)
	buttonLine := lipgloss.NewStyle().
		Width(max(dialogWidth-frameInnerInset, 1)).
		AlignHorizontal(lipgloss.Center).
		Render(buttonRow)

	body := strings.Join([]string{
		theme.ErrorStyle.Render("Deactivate Pod?"),
		"Insulin delivery from this pod stops permanently. Remove the pod after deactivation.",
		buttonLine,
		theme.HelpStyle.Render("tab/arrow switch • enter confirms"),
	}, "\n")

	return renderFrame(body, dialogWidth)
}

func renderAlertDialog(state *State) string {
	title := state.AlertTitle
	if title == "" {
		title = "Error"
	}
	body := strings.Join([]string{
		theme.ErrorStyle.Render(title),
		state.AlertText,
		zone.Mark(zoneDialogAlertClose, theme.HelpStyle.Render("Press Enter or Esc to close")),
	}, "\n")

	return renderFrame(body, min(state.ContentWidth()-dialogHorizontalInset, alertDialogWidth))
}

func renderModalOverlay(state *State, base string, dialog string) string {
	faded := theme.ModalBackdrop.Render(base)
	overlay := lipgloss.Place(state.Width, state.Height, lipgloss.Center, lipgloss.Center, dialog)

	return faded + "\n" + overlay
}

func overviewLeftFrameWidth(state *State, pv PodView, total int) int {
	statusBlock := renderPodStatusBlock(pv, total)
	actionsLine := renderActionsRowState(state, pv, 10_000)
	leftInner := max(lipgloss.Width(statusBlock), lipgloss.Width(actionsLine))
	leftWidth := max(leftInner+leftFrameExtraWidth, leftFrameMinWidth)
	if leftWidth > total {
		leftWidth = total
	}
	return leftWidth
}

func overviewPaneLayout(total int, leftWidth int) (int, int, bool) {
	gap := outerPaneGap
	rightWidth := total - leftWidth - gap
	if total < sideBySideMinTotalWidth || rightWidth < rightPaneMinWidth {
		return leftWidth, total, true
	}
	return leftWidth, rightWidth, false
}

func ResizePaneViewports(state *State, pv PodView) {
	total := state.PageWidth()
	leftW := overviewLeftFrameWidth(state, pv, total)
	leftWidth, rightWidth, stacked := overviewPaneLayout(total, leftW)
	if stacked {
		rightWidth = total
	}

	leftInner := max(leftWidth-frameInnerInset, paneInnerMinWidth)
	rightInner := max(rightWidth-frameInnerInset, paneInnerMinWidth)
	settingsInner := max(total-frameInnerInset, paneInnerMinWidth)
	paneHeight := defaultOverviewPaneHeight
	if state.Height >= largeOverviewHeightCutover {
		paneHeight = largeOverviewPaneHeight
	}

	state.LeftView.Width = leftInner
	state.LeftView.Height = paneHeight
	state.RightView.Width = rightInner
	state.RightView.Height = paneHeight
	state.SettingsView.Width = settingsInner
	state.SettingsView.Height = max(settingsPaneMinHeight, paneHeight+settingsHeightPadding)
}
