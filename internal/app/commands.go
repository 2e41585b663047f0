package app

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// AuditRowLimit is how many audit rows the info tab shows.
	AuditRowLimit = 10
)

var errNoServices = errors.New("services not initialized")

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// autoRefreshCmd schedules the next automatic pass. A non-positive interval
// disables it.
func autoRefreshCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AutoRefreshMsg{Time: t}
	})
}

// runPassCmd returns a command that runs one refresh pass.
func runPassCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return PassCompletedMsg{Result: mgr.RunPass(context.Background())}
	}
}

// toggleDeviceCmd returns a command that flips a unit's LED toggle.
func toggleDeviceCmd(mgr *services.Manager, unit string) tea.Cmd {
	return func() tea.Msg {
		return DeviceUpdatedMsg{
			Action: ActionToggle,
			Status: mgr.ToggleDevice(context.Background(), unit),
		}
	}
}

// resyncDeviceCmd returns a command that re-reads a unit's LED toggle.
func resyncDeviceCmd(mgr *services.Manager, unit string) tea.Cmd {
	return func() tea.Msg {
		return DeviceUpdatedMsg{
			Action: ActionResync,
			Status: mgr.ResyncDevice(context.Background(), unit),
		}
	}
}

// exportCmd returns a command that writes the last report into dir.
func exportCmd(mgr *services.Manager, dir string) tea.Cmd {
	return func() tea.Msg {
		files, err := mgr.Export(dir)
		return ExportResultMsg{Dir: dir, Files: files, Error: err}
	}
}

// writeClipboard is replaced in tests; headless systems have no clipboard.
var writeClipboard = clipboard.WriteAll

// copyToClipboardCmd returns a command that copies text to the clipboard.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Text: text, Error: writeClipboard(text)}
	}
}

// loadAuditCmd returns a command that reads recent audit rows.
func loadAuditCmd(mgr *services.Manager, limit int) tea.Cmd {
	return func() tea.Msg {
		if mgr == nil || mgr.Database() == nil {
			return AuditLoadedMsg{Error: errNoServices}
		}
		database := mgr.Database()

		passes, err := database.GetRecentPassRuns(limit)
		if err != nil {
			return AuditLoadedMsg{Error: err}
		}
		toggles, err := database.GetRecentToggleEvents(limit)
		if err != nil {
			return AuditLoadedMsg{Error: err}
		}
		failures, err := database.ToggleFailureCounts()
		if err != nil {
			return AuditLoadedMsg{Error: err}
		}
		return AuditLoadedMsg{Passes: passes, Toggles: toggles, Failures: failures}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}
