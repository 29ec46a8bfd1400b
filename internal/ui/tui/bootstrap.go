// Package tui is the terminal UI for the pod controller: a Bubble Tea model
// that marshals pump manager callbacks onto the update loop and delegates
// rendering to the pure view package.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"podpilot/internal/config"
	"podpilot/internal/logging"
	"podpilot/internal/podlink"
	"podpilot/internal/pump"
	podview "podpilot/internal/ui/tui/view"
)

const (
	logChannelBufferSize     = 512
	podChannelBufferSize     = 1
	commandChannelBufferSize = 16
	updateTickInterval       = time.Second
	runErrorExitCode         = 1
)

func Run(rootCtx context.Context, buildVersion string, opts config.Options) {
	defer forceDisableMouseTracking()

	var savedSettings config.Settings
	if saved, loadErr := config.LoadSettings(); loadErr == nil {
		savedSettings = saved
		opts = config.MergeOptionsWithSettings(opts, saved)
	}

	logger := logging.New(false)
	if logger == nil {
		panic("tui.Run: logging.New returned nil")
	}
	logger.SetDebugEnabled(opts.Debug)
	if err := logger.EnableFilePersistence(0); err != nil {
		logger.Warn("failed to enable file log persistence", logging.Field("error", err))
	}
	logger.SetTerminalOutputEnabled(false)
	logger.Info("starting pod controller TUI", logging.Field("version", buildVersion))

	tz, tzErr := config.ResolveTimeZone(opts.TimeZone)
	if tzErr != nil {
		logger.Warn("falling back to local time zone", logging.Field("error", tzErr))
		tz = time.Local
	}

	link, linkErr := podlink.New(opts.StateFile, logger)
	if linkErr != nil {
		fmt.Fprintln(os.Stderr, linkErr)
		os.Exit(runErrorExitCode)
	}
	manager := pump.NewManager(link, logger, tz)

	m := newPodModel(rootCtx, buildVersion, opts, logger, manager, savedSettings)
	zone.NewGlobal()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	m.program = program
	result, runErr := program.Run()
	model, _ := result.(*podModel)
	if model != nil {
		model.cleanup()
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(runErrorExitCode)
	}
}

func forceDisableMouseTracking() {
	_, _ = os.Stdout.WriteString("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l\x1b[?1015l")
}

func newPodModel(rootCtx context.Context, buildVersion string, opts config.Options, logger *logging.Logger, manager *pump.Manager, saved config.Settings) *podModel {
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	runCtx, runCancel := context.WithCancel(rootCtx)

	m := &podModel{
		buildVersion: buildVersion,
		modelDeps: modelDeps{
			manager:     manager,
			logger:      logger,
			opts:        opts,
			rootCancel:  runCancel,
			managerDone: make(chan struct{}),
		},
		modelChannels: modelChannels{
			logCh: make(chan string, logChannelBufferSize),
			podCh: make(chan struct{}, podChannelBufferSize),
			cmdCh: make(chan commandDoneMsg, commandChannelBufferSize),
		},
		ui: podview.NewState(draftFromSettings(opts, saved), saved.ConfirmationBeeps),
	}

	m.unsubscribeLog = logger.Subscribe(func(event logging.Event) {
		line := logging.FormatEventANSI(event)
		select {
		case m.logCh <- line:
		default:
			select {
			case <-m.logCh:
			default:
			}
			m.logCh <- line
		}
	})

	m.unsubscribePod = manager.Subscribe(func() {
		select {
		case m.podCh <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(m.managerDone)
		if err := manager.RunContext(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("pump manager stopped", logging.Field("error", err))
		}
	}()

	m.refreshFromManager()
	return m
}

func draftFromSettings(opts config.Options, saved config.Settings) podview.SettingsDraft {
	draft := podview.SettingsDraft{Debug: opts.Debug}
	if saved.LowReservoirUnits > 0 {
		draft.LowReservoir = strconv.FormatFloat(saved.LowReservoirUnits, 'f', -1, 64)
	}
	return draft
}

func (m *podModel) Init() tea.Cmd {
	return tea.Batch(
		waitForLog(m.logCh),
		waitForPodChange(m.podCh),
		waitForCommandDone(m.cmdCh),
		tickCmd(),
	)
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}

func waitForPodChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return podStateMsg{}
	}
}

func waitForCommandDone(ch <-chan commandDoneMsg) tea.Cmd {
	return func() tea.Msg {
		done, ok := <-ch
		if !ok {
			return nil
		}
		return done
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(updateTickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
