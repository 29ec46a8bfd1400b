package view

import "fmt"

const (
	zoneTabOverview = "tab-overview"
	zoneTabDetails  = "tab-details"
	zoneTabSettings = "tab-settings"

	zoneOverviewDelivery = "overview-delivery"
	zoneOverviewSync     = "overview-sync"
	zoneOverviewRefresh  = "overview-refresh"
	zoneOverviewStopPod  = "overview-stop-pod"
	zoneOverviewLogs     = "overview-logs"
	zoneOverviewQuit     = "overview-quit"
	zoneOverviewDebug    = "overview-debug"

	zoneSettingsBeeps  = "settings-beeps"
	zoneSettingsSave   = "settings-save"
	zoneSettingsCancel = "settings-cancel"

	zoneDialogQuitCancel = "dialog-quit-cancel"
	zoneDialogQuitAccept = "dialog-quit-accept"
	zoneDialogStopCancel = "dialog-stop-cancel"
	zoneDialogStopAccept = "dialog-stop-accept"
	zoneDialogAlertClose = "dialog-alert-close"
)

func zoneSettingsInput(index int) string {
	return fmt.Sprintf("settings-input-%d", index)
}
