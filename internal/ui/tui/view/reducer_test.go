package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+right":
		return tea.KeyMsg{Type: tea.KeyCtrlRight}
	case "ctrl+left":
		return tea.KeyMsg{Type: tea.KeyCtrlLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func testState() State {
	return NewState(SettingsDraft{}, false)
}

func TestReduceKey_TabCyclingWrapsAndResetsFocus(t *testing.T) {
	state := testState()
	state.Focus = 3

	state, effect := ReduceKey(state, keyMsg("ctrl+right"))
	if effect != KeyEffectNone {
		t.Fatalf("effect = %v, want none", effect)
	}
	if state.Tab != TabDetails || state.Focus != 0 {
		t.Fatalf("tab=%d focus=%d, want details tab with focus reset", state.Tab, state.Focus)
	}

	state, _ = ReduceKey(state, keyMsg("ctrl+right"))
	state, _ = ReduceKey(state, keyMsg("ctrl+right"))
	if state.Tab != TabOverview {
		t.Fatalf("tab = %d, want wrap back to overview", state.Tab)
	}

	state, _ = ReduceKey(state, keyMsg("ctrl+left"))
	if state.Tab != TabSettings {
		t.Fatalf("tab = %d, want reverse wrap to settings", state.Tab)
	}
}

func TestReduceKey_FocusCyclingRespectsTabControlCount(t *testing.T) {
	state := testState()

	for range state.FocusCount() {
		state, _ = ReduceKey(state, keyMsg("tab"))
	}
	if state.Focus != 0 {
		t.Fatalf("focus = %d, want full cycle back to 0", state.Focus)
	}

	state, _ = ReduceKey(state, keyMsg("shift+tab"))
	if state.Focus != state.FocusCount()-1 {
		t.Fatalf("focus = %d, want wrap to last control %d", state.Focus, state.FocusCount()-1)
	}
}

func TestReduceKey_QuitAndRefreshEffects(t *testing.T) {
	state := testState()

	if _, effect := ReduceKey(state, keyMsg("ctrl+c")); effect != KeyEffectRequestQuit {
		t.Errorf("ctrl+c effect = %v, want quit request", effect)
	}
	if _, effect := ReduceKey(state, keyMsg("ctrl+r")); effect != KeyEffectRefresh {
		t.Errorf("ctrl+r effect = %v, want refresh", effect)
	}
}

func TestReduceKey_CtrlSSavesOnlyOnSettingsTab(t *testing.T) {
	state := testState()

	if _, effect := ReduceKey(state, keyMsg("ctrl+s")); effect != KeyEffectNone {
		t.Errorf("ctrl+s on overview effect = %v, want none", effect)
	}

	state.Tab = TabSettings
	if _, effect := ReduceKey(state, keyMsg("ctrl+s")); effect != KeyEffectSaveSettings {
		t.Errorf("ctrl+s on settings effect = %v, want save", effect)
	}
}

func TestReduceKey_AlertSwallowsInputUntilDismissed(t *testing.T) {
	state := testState().WithAlert("Pod Not Ready", "Insulin delivery commands need an active pod.")

	next, effect := ReduceKey(state, keyMsg("ctrl+c"))
	if effect != KeyEffectNone || next.AlertText == "" {
		t.Fatalf("quit key leaked through alert modal (effect=%v alert=%q)", effect, next.AlertText)
	}

	next, _ = ReduceKey(state, keyMsg("esc"))
	if next.AlertText != "" || next.AlertTitle != "" {
		t.Fatalf("esc did not dismiss alert: %+v", next)
	}

	next, _ = ReduceKey(state, keyMsg("enter"))
	if next.AlertText != "" {
		t.Fatalf("enter did not dismiss alert")
	}
}

func TestReduceKey_QuitConfirmFlow(t *testing.T) {
	state := testState()
	state.ConfirmQuit = true
	state.ConfirmQuitChoice = ConfirmChoiceCancel

	next, effect := ReduceKey(state, keyMsg("enter"))
	if effect != KeyEffectNone || next.ConfirmQuit {
		t.Fatalf("accepting cancel should close dialog without quitting (effect=%v open=%v)", effect, next.ConfirmQuit)
	}

	state.ConfirmQuitChoice = ConfirmChoiceCancel
	state, _ = ReduceKey(state, keyMsg("tab"))
	if state.ConfirmQuitChoice != ConfirmChoiceAccept {
		t.Fatalf("toggle did not move choice to accept")
	}
	if _, effect := ReduceKey(state, keyMsg("enter")); effect != KeyEffectConfirmQuitAccept {
		t.Fatalf("effect = %v, want quit accept", effect)
	}

	state.ConfirmQuit = true
	next, _ = ReduceKey(state, keyMsg("esc"))
	if next.ConfirmQuit {
		t.Fatalf("esc did not close quit dialog")
	}
}

func TestReduceKey_StopConfirmTakesPrecedenceAndAccepts(t *testing.T) {
	state := testState()
	state.ConfirmStop = true
	state.ConfirmQuit = true
	state.ConfirmStopChoice = ConfirmChoiceAccept

	next, effect := ReduceKey(state, keyMsg("enter"))
	if effect != KeyEffectConfirmStopAccept {
		t.Fatalf("effect = %v, want stop accept", effect)
	}
	if next.ConfirmStop {
		t.Fatalf("stop dialog left open after accept")
	}
	if !next.ConfirmQuit {
		t.Fatalf("quit dialog should be untouched while stop dialog handles the key")
	}
}

func TestReduceActivate_DeliveryGuards(t *testing.T) {
	state := testState()
	state.Focus = state.DeliveryIndex()

	next, effect := ReduceActivate(state, false, Busy{})
	if effect != ActivateEffectNone {
		t.Fatalf("effect = %v, want none when pod is not OK", effect)
	}
	if next.AlertTitle != "Pod Not Ready" {
		t.Fatalf("alert title = %q, want pod-not-ready alert", next.AlertTitle)
	}

	if _, effect := ReduceActivate(state, true, Busy{Delivery: true}); effect != ActivateEffectNone {
		t.Fatalf("effect = %v, want none while a delivery command is in flight", effect)
	}
	if _, effect := ReduceActivate(state, true, Busy{}); effect != ActivateEffectToggleDelivery {
		t.Fatalf("effect = %v, want toggle delivery", effect)
	}
}

func TestReduceActivate_OverviewControls(t *testing.T) {
	state := testState()

	state.Focus = state.SyncIndex()
	if _, effect := ReduceActivate(state, true, Busy{}); effect != ActivateEffectSyncTime {
		t.Errorf("sync effect = %v", effect)
	}
	if _, effect := ReduceActivate(state, true, Busy{Syncing: true}); effect != ActivateEffectNone {
		t.Errorf("sync effect while syncing = %v, want none", effect)
	}

	state.Focus = state.RefreshIndex()
	if _, effect := ReduceActivate(state, false, Busy{}); effect != ActivateEffectRefresh {
		t.Errorf("refresh effect = %v; refresh works without an active pod", effect)
	}

	state.Focus = state.StopPodIndex()
	next, effect := ReduceActivate(state, true, Busy{})
	if effect != ActivateEffectNone || !next.ConfirmStop || next.ConfirmStopChoice != ConfirmChoiceCancel {
		t.Errorf("stop pod should open confirm dialog defaulting to cancel (effect=%v open=%v choice=%d)",
			effect, next.ConfirmStop, next.ConfirmStopChoice)
	}

	state.Focus = state.QuitIndex()
	if _, effect := ReduceActivate(state, true, Busy{}); effect != ActivateEffectRequestQuit {
		t.Errorf("quit effect = %v", effect)
	}
}

func TestReduceActivate_LogsToggleClampsFocus(t *testing.T) {
	state := testState()
	state.ShowLogs = true
	state.Focus = state.DebugIndex()

	next, effect := ReduceActivate(state, true, Busy{})
	if effect != ActivateEffectDebugLevelChanged || !next.DebugOn || !next.SettingsDirty {
		t.Fatalf("debug toggle: effect=%v on=%v dirty=%v", effect, next.DebugOn, next.SettingsDirty)
	}

	next.Focus = next.LogsIndex()
	next, _ = ReduceActivate(next, true, Busy{})
	if next.ShowLogs {
		t.Fatalf("logs still shown after toggle")
	}
	if next.Focus >= next.FocusCount() {
		t.Fatalf("focus %d out of range after hiding logs (count %d)", next.Focus, next.FocusCount())
	}
}

func TestReduceActivate_SettingsSaveAndCancel(t *testing.T) {
	state := testState()
	state.Tab = TabSettings

	state.Focus = state.SaveIndex()
	if _, effect := ReduceActivate(state, true, Busy{}); effect != ActivateEffectNone {
		t.Fatalf("save on clean draft = %v, want none", effect)
	}

	state.Inputs[LowReservoirInputIndex].SetValue("15")
	state = state.WithDraftFromControls()
	if !state.SettingsDirty {
		t.Fatalf("draft edit did not mark settings dirty")
	}
	if _, effect := ReduceActivate(state, true, Busy{}); effect != ActivateEffectSaveSettings {
		t.Fatalf("save on dirty draft = %v, want save effect", effect)
	}

	state.Focus = state.CancelIndex()
	next, effect := ReduceActivate(state, true, Busy{})
	if effect != ActivateEffectNone || next.SettingsDirty {
		t.Fatalf("cancel: effect=%v dirty=%v", effect, next.SettingsDirty)
	}
	if got := next.Inputs[LowReservoirInputIndex].Value(); got != "" {
		t.Fatalf("cancel did not restore control value, got %q", got)
	}
}

func TestReduceActivate_BeepsToggle(t *testing.T) {
	state := testState()
	state.Tab = TabSettings
	state.Focus = state.BeepsIndex()

	next, effect := ReduceActivate(state, false, Busy{})
	if effect != ActivateEffectNone || next.AlertTitle == "" {
		t.Fatalf("beeps without pod: effect=%v alert=%q", effect, next.AlertTitle)
	}

	next, effect = ReduceActivate(state, true, Busy{})
	if effect != ActivateEffectBeepsChanged || !next.BeepsOn {
		t.Fatalf("beeps toggle: effect=%v on=%v", effect, next.BeepsOn)
	}

	if _, effect := ReduceActivate(state, true, Busy{Beeps: true}); effect != ActivateEffectNone {
		t.Fatalf("beeps while busy = %v, want none", effect)
	}
}

func TestReduceActivate_DetailsTabRefreshes(t *testing.T) {
	state := testState()
	state.Tab = TabDetails
	state.Focus = 0

	if _, effect := ReduceActivate(state, false, Busy{}); effect != ActivateEffectRefresh {
		t.Fatalf("details activate = %v, want refresh", effect)
	}
}

func TestReduceInput_EditsFocusedSettingsInput(t *testing.T) {
	state := testState()
	state.Tab = TabSettings
	state.Focus = LowReservoirInputIndex
	state.ApplyFocus()

	next, _, handled := ReduceInput(state, keyMsg("7"))
	if !handled {
		t.Fatalf("input not handled on settings tab")
	}
	if got := next.Inputs[LowReservoirInputIndex].Value(); got != "7" {
		t.Fatalf("input value = %q, want %q", got, "7")
	}
	if !next.SettingsDirty {
		t.Fatalf("edit did not mark draft dirty")
	}

	state.Tab = TabOverview
	if _, _, handled := ReduceInput(state, keyMsg("7")); handled {
		t.Fatalf("input handled outside settings tab")
	}
}
