package view

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

type MouseEffect int

const (
	MouseEffectNone MouseEffect = iota
	MouseEffectActivateFocused
	MouseEffectConfirmQuitAccept
	MouseEffectConfirmStopAccept
)

func ReduceMouse(state State, msg tea.MouseMsg) (State, tea.Cmd, MouseEffect) {
	if state.AlertText != "" {
		state.HoverZone = hoverZoneAt(msg, []string{zoneDialogAlertClose})
		if isLeftClick(msg) && zone.Get(zoneDialogAlertClose).InBounds(msg) {
			return state.WithAlertDismissed(), nil, MouseEffectNone
		}
		return state, nil, MouseEffectNone
	}

	if state.ConfirmStop {
		state.HoverZone = hoverZoneAt(msg, []string{zoneDialogStopCancel, zoneDialogStopAccept})
		if isLeftClick(msg) {
			switch {
			case zone.Get(zoneDialogStopAccept).InBounds(msg):
				state.ConfirmStop = false
				return state, nil, MouseEffectConfirmStopAccept
			case zone.Get(zoneDialogStopCancel).InBounds(msg):
				state.ConfirmStop = false
			}
		}
		return state, nil, MouseEffectNone
	}

	if state.ConfirmQuit {
		state.HoverZone = hoverZoneAt(msg, []string{zoneDialogQuitCancel, zoneDialogQuitAccept})
		if isLeftClick(msg) {
			switch {
			case zone.Get(zoneDialogQuitAccept).InBounds(msg):
				return state, nil, MouseEffectConfirmQuitAccept
			case zone.Get(zoneDialogQuitCancel).InBounds(msg):
				state.ConfirmQuit = false
			}
		}
		return state, nil, MouseEffectNone
	}

	if isLeftClick(msg) {
		switch {
		case zone.Get(zoneTabOverview).InBounds(msg):
			return switchTab(state, TabOverview), nil, MouseEffectNone
		case zone.Get(zoneTabDetails).InBounds(msg):
			return switchTab(state, TabDetails), nil, MouseEffectNone
		case zone.Get(zoneTabSettings).InBounds(msg):
			return switchTab(state, TabSettings), nil, MouseEffectNone
		}
		if focus, ok := controlFocusAt(state, msg); ok {
			state.Focus = focus
			state.ApplyFocus()
			return state, nil, MouseEffectActivateFocused
		}
	}

	state.HoverZone = hoverZoneAt(msg, hoverZones(state))

	var cmds []tea.Cmd
	if state.Tab == TabOverview {
		var cmd tea.Cmd
		state.RightView, cmd = state.RightView.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		state.LeftView, cmd = state.LeftView.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if state.Tab == TabDetails {
		var cmd tea.Cmd
		state.DetailsView, cmd = state.DetailsView.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if state.Tab == TabOverview && state.ShowLogs {
		var cmd tea.Cmd
		state.LogView, cmd = state.LogView.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		state.FollowLogs = state.LogView.AtBottom()
	}
	return state, tea.Batch(cmds...), MouseEffectNone
}

func switchTab(state State, tab int) State {
	state.Tab = tab
	state.Focus = 0
	state.ApplyFocus()
	return state
}

// controlFocusAt maps a click to the focus index of the control under the
// cursor on the current tab.
func controlFocusAt(state State, msg tea.MouseMsg) (int, bool) {
	type zoneFocus struct {
		id    string
		focus int
	}
	var candidates []zoneFocus
	switch state.Tab {
	case TabOverview:
		candidates = []zoneFocus{
			{zoneOverviewDelivery, state.DeliveryIndex()},
			{zoneOverviewSync, state.SyncIndex()},
			{zoneOverviewRefresh, state.RefreshIndex()},
			{zoneOverviewStopPod, state.StopPodIndex()},
			{zoneOverviewLogs, state.LogsIndex()},
			{zoneOverviewQuit, state.QuitIndex()},
		}
		if state.ShowLogs {
			candidates = append(candidates, zoneFocus{zoneOverviewDebug, state.DebugIndex()})
		}
	case TabSettings:
		candidates = []zoneFocus{
			{zoneSettingsInput(0), 0},
			{zoneSettingsInput(1), 1},
			{zoneSettingsInput(2), 2},
			{zoneSettingsBeeps, state.BeepsIndex()},
			{zoneSettingsSave, state.SaveIndex()},
			{zoneSettingsCancel, state.CancelIndex()},
		}
	}
	for _, candidate := range candidates {
		if zone.Get(candidate.id).InBounds(msg) {
			return candidate.focus, true
		}
	}
	return 0, false
}

func hoverZones(state State) []string {
	zones := []string{zoneTabOverview, zoneTabDetails, zoneTabSettings}
	switch state.Tab {
	case TabOverview:
		zones = append(zones,
			zoneOverviewDelivery, zoneOverviewSync, zoneOverviewRefresh,
			zoneOverviewStopPod, zoneOverviewLogs, zoneOverviewQuit)
		if state.ShowLogs {
			zones = append(zones, zoneOverviewDebug)
		}
	case TabSettings:
		zones = append(zones, zoneSettingsBeeps, zoneSettingsSave, zoneSettingsCancel)
	}
	return zones
}

func hoverZoneAt(msg tea.MouseMsg, ids []string) string {
	for _, id := range ids {
		if zone.Get(id).InBounds(msg) {
			return id
		}
	}
	return ""
}

func isLeftClick(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}
