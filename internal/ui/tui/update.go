package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podpilot/internal/pod"
	podview "podpilot/internal/ui/tui/view"
)

func (m *podModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		if _, ok := msg.(quitNowMsg); ok {
			m.cleanup()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = m.ui.WithWindowSize(msg.Width, msg.Height)
		m.ui.ResizeLogs(nonLogLayoutReserveMin, minLogPanelHeight)
		podview.ResizePaneViewports(&m.ui, m.podView())
		return m, nil
	case logMsg:
		line := string(msg)
		wasAtBottom := m.ui.LogView.AtBottom()
		m.ui.LogText = appendLogLinesWithLimit(m.ui.LogText, line, logLineLimit)
		m.ui.SetLogViewportContent()
		if m.ui.FollowLogs || wasAtBottom {
			m.ui.LogView.GotoBottom()
			m.ui.FollowLogs = true
		}
		return m, waitForLog(m.logCh)
	case podStateMsg:
		m.refreshFromManager()
		return m, waitForPodChange(m.podCh)
	case commandDoneMsg:
		cmd := m.handleCommandDone(msg)
		return m, tea.Batch(waitForCommandDone(m.cmdCh), cmd)
	case tickMsg:
		// Life remaining and staleness age even when the pod file is quiet.
		m.refreshFromManager()
		return m, tickCmd()
	case tea.MouseMsg:
		return m.updateMouseMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	next, cmd, ok := podview.ReduceInput(m.ui, msg)
	if ok {
		m.ui = next
		return m, cmd
	}
	return m, nil
}

func (m *podModel) updateMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	next, cmd, effect := podview.ReduceMouse(m.ui, msg)
	m.ui = next
	switch effect {
	case podview.MouseEffectActivateFocused:
		return m, tea.Batch(cmd, m.activateFocusedControl())
	case podview.MouseEffectConfirmQuitAccept:
		return m, tea.Batch(cmd, m.beginQuitCmd())
	case podview.MouseEffectConfirmStopAccept:
		return m, tea.Batch(cmd, m.deactivatePodCmd())
	}
	return m, cmd
}

func (m *podModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, effect := podview.ReduceKey(m.ui, msg)
	m.ui = next
	switch effect {
	case podview.KeyEffectRequestQuit:
		return m, m.requestQuitCmd()
	case podview.KeyEffectSaveSettings:
		return m, m.saveSettingsDraft()
	case podview.KeyEffectRefresh:
		return m, m.refreshStatusCmd()
	case podview.KeyEffectActivateFocused:
		return m, m.activateFocusedControl()
	case podview.KeyEffectConfirmQuitAccept:
		return m, m.beginQuitCmd()
	case podview.KeyEffectConfirmStopAccept:
		return m, m.deactivatePodCmd()
	default:
		nextState, cmd, ok := podview.ReduceInput(m.ui, msg)
		if ok {
			m.ui = nextState
			return m, cmd
		}
		return m, nil
	}
}

func (m *podModel) activateFocusedControl() tea.Cmd {
	next, effect := podview.ReduceActivate(m.ui, m.podOK(), m.busy())
	m.ui = next
	switch effect {
	case podview.ActivateEffectToggleDelivery:
		return m.toggleDeliveryCmd()
	case podview.ActivateEffectSyncTime:
		return m.syncTimeCmd()
	case podview.ActivateEffectRefresh:
		return m.refreshStatusCmd()
	case podview.ActivateEffectRequestQuit:
		return m.requestQuitCmd()
	case podview.ActivateEffectBeepsChanged:
		return m.setBeepsCmd(m.ui.BeepsOn)
	case podview.ActivateEffectSaveSettings:
		return m.saveSettingsDraft()
	case podview.ActivateEffectDebugLevelChanged:
		m.logger.SetDebugEnabled(m.ui.DebugOn)
		return nil
	default:
		return nil
	}
}

// requestQuitCmd confirms before quitting while a pod is paired; with no pod
// there is nothing to interrupt.
func (m *podModel) requestQuitCmd() tea.Cmd {
	if m.comm != pod.CommNoPod {
		m.ui.ConfirmQuit = true
		m.ui.ConfirmQuitChoice = podview.ConfirmChoiceCancel
		return nil
	}
	return m.beginQuitCmd()
}

func (m *podModel) beginQuitCmd() tea.Cmd {
	m.quitting = true
	m.ui.ConfirmQuit = false
	return quitProgramCmd()
}

func quitProgramCmd() tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		return tea.DisableMouse()
	}, waitForMouseDrainCmd(), func() tea.Msg {
		return quitNowMsg{}
	})
}

func waitForMouseDrainCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(120 * time.Millisecond)
		return nil
	}
}

func appendLogLinesWithLimit(current string, next string, limit int) string {
	if limit <= 0 {
		return ""
	}
	lines := splitLogLines(current)
	lines = append(lines, splitLogLines(next)...)
	if len(lines) > limit {
		lines = append([]string(nil), lines[len(lines)-limit:]...)
	}
	return strings.Join(lines, "\n")
}

func splitLogLines(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (m *podModel) cleanup() {
	m.cleanupOnce.Do(func() {
		m.logger.Debug("tui cleanup started")

		if m.rootCancel != nil {
			m.logger.Debug("canceling pump manager context")
			m.rootCancel()
		}
		if m.managerDone != nil {
			// The watcher holds the state directory open; releasing the
			// update loop before it exits would race file removal.
			<-m.managerDone
		}
		if m.unsubscribePod != nil {
			m.unsubscribePod()
		}
		if m.unsubscribeLog != nil {
			m.logger.Debug("unsubscribing tui log listener")
			m.unsubscribeLog()
		}

		m.logger.Debug("tui cleanup complete")
	})
}
