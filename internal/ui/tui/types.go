package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podpilot/internal/config"
	"podpilot/internal/logging"
	"podpilot/internal/pod"
	"podpilot/internal/pump"
	podview "podpilot/internal/ui/tui/view"
)

const logLineLimit = 2_000

const (
	minLogPanelHeight      = podview.DefaultMinLogPanelHeight
	nonLogLayoutReserveMin = podview.DefaultNonLogLayoutReserveMin
)

type logMsg string
type podStateMsg struct{}
type tickMsg struct{}
type quitNowMsg struct{}

type commandKind int

const (
	commandSuspend commandKind = iota
	commandResume
	commandSyncTime
	commandExpirationReminder
	commandLowReservoir
	commandBeeps
	commandDeactivate
)

// commandDoneMsg carries the completion of an async pod command back onto the
// update loop. reminderDate is populated only for reminder commands so the
// schedule shows the exact date the user picked.
type commandDoneMsg struct {
	kind         commandKind
	err          error
	reminderDate time.Time
}

type modelDeps struct {
	manager        *pump.Manager
	logger         *logging.Logger
	opts           config.Options
	unsubscribeLog func()
	unsubscribePod func()
	rootCancel     context.CancelFunc
	managerDone    chan struct{}
	program        *tea.Program
}

type modelChannels struct {
	logCh chan string
	podCh chan struct{}
	cmdCh chan commandDoneMsg
}

// modelPod is the published pod snapshot the view renders from. It is
// refreshed as one unit in refreshFromManager so a frame never mixes fields
// from two snapshots.
type modelPod struct {
	title             string
	comm              pod.CommState
	life              pod.LifeState
	fault             *pod.FaultStatus
	basal             pod.BasalDeliveryState
	basalKnown        bool
	reservoir         pod.ReservoirLevel
	hasReservoir      bool
	highlight         pod.ReservoirHighlight
	activatedAt       time.Time
	hasActivatedAt    bool
	expiresAt         time.Time
	hasExpiresAt      bool
	lastSync          time.Time
	hasLastSync       bool
	suspendedUntil    time.Time
	hasSuspendedUntil bool
	reminderHours     int
	lowReservoirUnits float64
	beepsOn           bool
	clockOffset       bool
	details           pod.Details
	hasDetails        bool
	stale             bool

	// reminderDate holds the exact reminder date the user scheduled, once a
	// reminder command succeeds. Before that the schedule derives the date
	// from the configured offset.
	reminderDate    time.Time
	hasReminderDate bool
}

type podModel struct {
	buildVersion string
	modelDeps
	modelChannels
	modelPod

	deliveryBusy  bool
	syncingTime   bool
	changingBeeps bool
	quitting      bool

	cleanupOnce sync.Once
	ui          podview.State
}
