package view

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyEffect int

const (
	KeyEffectNone KeyEffect = iota
	KeyEffectRequestQuit
	KeyEffectActivateFocused
	KeyEffectSaveSettings
	KeyEffectRefresh
	KeyEffectConfirmQuitAccept
	KeyEffectConfirmStopAccept
)

const confirmChoiceCount = 2

func ReduceKey(state State, msg tea.KeyMsg) (State, KeyEffect) {
	if state.AlertText != "" {
		if msg.String() == "esc" || key.Matches(msg, state.Keys.Activate) {
			state = state.WithAlertDismissed()
		}
		return state, KeyEffectNone
	}

	if state.ConfirmStop {
		switch {
		case msg.String() == "esc":
			state.ConfirmStop = false
			return state, KeyEffectNone
		case key.Matches(msg, state.Keys.ModalToggle):
			state.ConfirmStopChoice = (state.ConfirmStopChoice + 1) % confirmChoiceCount
			return state, KeyEffectNone
		case key.Matches(msg, state.Keys.Activate):
			accepted := state.ConfirmStopChoice == ConfirmChoiceAccept
			state.ConfirmStop = false
			if accepted {
				return state, KeyEffectConfirmStopAccept
			}
			return state, KeyEffectNone
		default:
			return state, KeyEffectNone
		}
	}

	if state.ConfirmQuit {
		switch {
		case msg.String() == "esc":
			state.ConfirmQuit = false
			return state, KeyEffectNone
		case key.Matches(msg, state.Keys.ModalToggle):
			state.ConfirmQuitChoice = (state.ConfirmQuitChoice + 1) % confirmChoiceCount
			return state, KeyEffectNone
		case key.Matches(msg, state.Keys.Activate):
			if state.ConfirmQuitChoice == ConfirmChoiceAccept {
				return state, KeyEffectConfirmQuitAccept
			}
			state.ConfirmQuit = false
			return state, KeyEffectNone
		default:
			return state, KeyEffectNone
		}
	}

	switch {
	case key.Matches(msg, state.Keys.Quit):
		return state, KeyEffectRequestQuit
	case key.Matches(msg, state.Keys.Refresh):
		return state, KeyEffectRefresh
	case msg.String() == "ctrl+f" && state.Tab == TabOverview && state.ShowLogs:
		state.FollowLogs = true
		state.LogView.GotoBottom()
		return state, KeyEffectNone
	case msg.String() == "ctrl+s" && state.Tab == TabSettings:
		return state, KeyEffectSaveSettings
	case key.Matches(msg, state.Keys.PrevTab):
		state.Tab = (state.Tab + tabCount - 1) % tabCount
		state.Focus = 0
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.NextTab):
		state.Tab = (state.Tab + 1) % tabCount
		state.Focus = 0
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.NextFocus):
		state.Focus = (state.Focus + 1) % state.FocusCount()
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.PrevFocus):
		state.Focus = (state.Focus + state.FocusCount() - 1) % state.FocusCount()
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.Activate):
		if state.Tab != TabSettings || state.Focus >= len(state.Inputs) {
			return state, KeyEffectActivateFocused
		}
	}

	return state, KeyEffectNone
}
