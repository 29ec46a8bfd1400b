// Package view is the pure presentation layer of the TUI: an immutable-ish
// State snapshot, reducers that turn input events into the next State plus
// an effect for the model to execute, and the renderers.
package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"podpilot/internal/ui/tui/keyboard"
)

const (
	inputCount             = 3
	defaultInputCharLimit  = 64
	defaultInputWidth      = 24
	ReminderInputIndex     = 0
	LowReservoirInputIndex = 1
	SuspendInputIndex      = 2
	defaultTab             = TabOverview
	defaultLogViewWidth    = 80
	defaultLogViewHeight   = 20
	defaultPaneWidth       = 24
	defaultPaneHeight      = 10
	defaultSettingsHeight  = 12
)

// SettingsDraft holds the editable settings controls as entered, before any
// command is issued against the pod.
type SettingsDraft struct {
	ReminderDate   string
	LowReservoir   string
	SuspendMinutes string
	Debug          bool
}

type State struct {
	Inputs []textinput.Model
	Focus  int
	Tab    int

	HelpView help.Model
	Keys     keyboard.Map

	ShowLogs      bool
	FollowLogs    bool
	DebugOn       bool
	BeepsOn       bool
	SettingsDirty bool

	LogText      string
	LogView      viewport.Model
	LeftView     viewport.Model
	RightView    viewport.Model
	DetailsView  viewport.Model
	SettingsView viewport.Model

	Width  int
	Height int

	ConfirmQuit       bool
	ConfirmQuitChoice int
	ConfirmStop       bool
	ConfirmStopChoice int
	AlertTitle        string
	AlertText         string
	HoverZone         string

	SavedDraft SettingsDraft
	Draft      SettingsDraft
}

func NewState(draft SettingsDraft, beepsOn bool) State {
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = defaultInputCharLimit
		inputs[i].Width = defaultInputWidth
		inputs[i].Prompt = ""
	}
	inputs[ReminderInputIndex].Placeholder = "2026-01-02 15:04"
	inputs[ReminderInputIndex].SetValue(strings.TrimSpace(draft.ReminderDate))
	inputs[LowReservoirInputIndex].Placeholder = "10"
	inputs[LowReservoirInputIndex].SetValue(strings.TrimSpace(draft.LowReservoir))
	inputs[SuspendInputIndex].Placeholder = "30"
	inputs[SuspendInputIndex].SetValue(strings.TrimSpace(draft.SuspendMinutes))

	helpView := help.New()
	helpView.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.FullDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.FullSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.Ellipsis = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return State{
		Inputs:       inputs,
		Tab:          defaultTab,
		HelpView:     helpView,
		Keys:         keyboard.New(),
		DebugOn:      draft.Debug,
		BeepsOn:      beepsOn,
		FollowLogs:   true,
		LogView:      viewport.New(defaultLogViewWidth, defaultLogViewHeight),
		LeftView:     viewport.New(defaultPaneWidth, defaultPaneHeight),
		RightView:    viewport.New(defaultPaneWidth, defaultPaneHeight),
		DetailsView:  viewport.New(defaultLogViewWidth, defaultPaneHeight),
		SettingsView: viewport.New(defaultLogViewWidth, defaultSettingsHeight),
		SavedDraft:   draft,
		Draft:        draft,
	}
}

func (s State) WithWindowSize(width int, height int) State {
	s.Width = width
	s.Height = height
	return s
}
