package app

import (
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
)

// Timers.
type (
	// TickMsg expires notifications.
	TickMsg struct{ Time time.Time }

	// AutoRefreshMsg fires when the configured refresh interval elapses.
	AutoRefreshMsg struct{ Time time.Time }
)

// Refresh passes and the local audit log.
type (
	// RefreshMsg requests a new refresh pass.
	RefreshMsg struct{}

	// PassCompletedMsg carries the outcome of a refresh pass. Every tab
	// receives it.
	PassCompletedMsg struct{ Result *services.PassResult }

	// AuditLoadedMsg carries recent rows from the audit database.
	AuditLoadedMsg struct {
		Error    error
		Failures map[string]int
		Passes   []models.PassRun
		Toggles  []models.ToggleEvent
	}
)

// DeviceAction names the request that produced a DeviceUpdatedMsg.
type DeviceAction string

// Device requests.
const (
	ActionToggle DeviceAction = "toggle"
	ActionResync DeviceAction = "resync"
)

// LED toggle control.
type (
	// ToggleDeviceMsg asks the root model to flip a unit's LED toggle.
	ToggleDeviceMsg struct{ Unit string }

	// ResyncDeviceMsg asks the root model to re-read a unit's LED toggle.
	ResyncDeviceMsg struct{ Unit string }

	// DeviceUpdatedMsg carries a unit's status after a toggle or resync.
	DeviceUpdatedMsg struct {
		Action DeviceAction
		Status models.DeviceStatus
	}
)

// Export and clipboard.
type (
	// ExportMsg requests writing the last report to Dir.
	ExportMsg struct{ Dir string }

	// ExportResultMsg lists the files an export wrote.
	ExportResultMsg struct {
		Error error
		Dir   string
		Files []string
	}

	// CopyToClipboardMsg requests copying text to the system clipboard.
	CopyToClipboardMsg struct{ Text string }

	// ClipboardResultMsg reports the outcome of a clipboard copy.
	ClipboardResultMsg struct {
		Error error
		Text  string
	}
)

// Notifications and errors.
type (
	AddNotificationMsg struct {
		Message  string
		Type     NotificationType
		Duration time.Duration
	}

	RemoveNotificationMsg struct{ ID string }

	// ErrorMsg reports an error as a toast, prefixed with Context.
	ErrorMsg struct {
		Error   error
		Context string
	}
)

// Service manager events.
type (
	// SubscriptionEventMsg hands the event channel to the root model.
	SubscriptionEventMsg struct{ Channel chan services.ServiceEvent }

	// ServiceEventMsg wraps one event from the channel.
	ServiceEventMsg struct{ Event services.ServiceEvent }
)

// Navigation.
type (
	// TabSwitchMsg tells tabs which one became active.
	TabSwitchMsg struct{ Tab TabID }

	ToggleHelpMsg struct{}
)
