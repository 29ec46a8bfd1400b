package view

type ActivateEffect int

const (
	ActivateEffectNone ActivateEffect = iota
	ActivateEffectToggleDelivery
	ActivateEffectSyncTime
	ActivateEffectRefresh
	ActivateEffectRequestQuit
	ActivateEffectBeepsChanged
	ActivateEffectSaveSettings
	ActivateEffectDebugLevelChanged
)

// Busy reports the in-flight command flags the reducers consult before
// re-issuing a command.
type Busy struct {
	Delivery bool
	Syncing  bool
	Beeps    bool
}

func ReduceActivate(state State, podOK bool, busy Busy) (State, ActivateEffect) {
	switch state.Tab {
	case TabOverview:
		return reduceActivateOverview(state, podOK, busy)
	case TabDetails:
		if state.Focus == 0 {
			return state, ActivateEffectRefresh
		}
		return state, ActivateEffectNone
	default:
		return reduceActivateSettings(state, podOK, busy)
	}
}

func reduceActivateOverview(state State, podOK bool, busy Busy) (State, ActivateEffect) {
	switch state.Focus {
	case state.DeliveryIndex():
		if busy.Delivery {
			return state, ActivateEffectNone
		}
		if !podOK {
			return state.WithAlert("Pod Not Ready", "Insulin delivery commands need an active pod."), ActivateEffectNone
		}
		return state, ActivateEffectToggleDelivery
	case state.SyncIndex():
		if busy.Syncing {
			return state, ActivateEffectNone
		}
		if !podOK {
			return state.WithAlert("Pod Not Ready", "Time sync needs an active pod."), ActivateEffectNone
		}
		return state, ActivateEffectSyncTime
	case state.RefreshIndex():
		return state, ActivateEffectRefresh
	case state.StopPodIndex():
		state.ConfirmStop = true
		state.ConfirmStopChoice = ConfirmChoiceCancel
		return state, ActivateEffectNone
	case state.LogsIndex():
		state.ShowLogs = !state.ShowLogs
		if state.ShowLogs {
			state.FollowLogs = true
			state.LogView.GotoBottom()
		}
		if !state.ShowLogs && state.Focus >= state.FocusCount() {
			state.Focus = state.FocusCount() - 1
		}
		return state, ActivateEffectNone
	case state.QuitIndex():
		return state, ActivateEffectRequestQuit
	case state.DebugIndex():
		state.DebugOn = !state.DebugOn
		state.Draft.Debug = state.DebugOn
		state.SettingsDirty = state.Draft != state.SavedDraft
		return state, ActivateEffectDebugLevelChanged
	default:
		return state, ActivateEffectNone
	}
}

func reduceActivateSettings(state State, podOK bool, busy Busy) (State, ActivateEffect) {
	switch state.Focus {
	case state.BeepsIndex():
		if busy.Beeps {
			return state, ActivateEffectNone
		}
		if !podOK {
			return state.WithAlert("Pod Not Ready", "Confirmation beeps need an active pod."), ActivateEffectNone
		}
		state.BeepsOn = !state.BeepsOn
		return state, ActivateEffectBeepsChanged
	case state.SaveIndex():
		if !state.SettingsDirty {
			return state, ActivateEffectNone
		}
		return state, ActivateEffectSaveSettings
	case state.CancelIndex():
		if !state.SettingsDirty {
			return state, ActivateEffectNone
		}
		return state.WithCancelDraft(), ActivateEffectNone
	default:
		return state, ActivateEffectNone
	}
}
