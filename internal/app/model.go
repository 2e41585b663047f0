// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/components"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabDashboard is the ID for the dashboard tab.
	TabDashboard TabID = iota
	// TabEvents is the ID for the raw record list.
	TabEvents
	// TabDistribution is the ID for the distribution tab.
	TabDistribution
	// TabDevices is the ID for the devices tab.
	TabDevices
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabEvents:
		return "Events"
	case TabDistribution:
		return "Distribution"
	case TabDevices:
		return "Devices"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab is one screen of the dashboard. Tabs share the State and talk to
// the root model through messages.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// Model is the root Bubble Tea model. It owns global keys, the tab bar,
// notifications and every call into the service manager.
type Model struct {
	state    *State
	services *services.Manager
	keymap   KeyMap
	help     help.Model
	spinner  components.Spinner

	tabs     []Tab
	tabNames []string

	eventChannel chan services.ServiceEvent

	activeTab TabID
	width     int
	height    int

	showHelp bool
	ready    bool
}

// NewModel creates the root model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	ids := []TabID{TabDashboard, TabEvents, TabDistribution, TabDevices, TabInfo}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}

	return &Model{
		state:     NewState(),
		services:  mgr,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		spinner:   components.NewSpinner(""),
		tabs:      make([]Tab, len(names)),
		tabNames:  names,
		activeTab: TabDashboard,
	}
}

// SetTabs installs the tab models in TabID order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the shared application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) cfg() *config.Config {
	if m.services == nil {
		return nil
	}
	return m.services.Config()
}

// Init subscribes to service events and starts the first refresh pass.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Init(), defaultTickCmd()}

	if m.services != nil {
		m.state.SetLoading(ResourcePass, true)
		m.state.SetLoadingNotification("Loading handwashing data...")
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			runPassCmd(m.services),
		)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if broadcastToTabs(msg) {
		cmds = append(cmds, m.updateAllTabs(msg)...)
	} else if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// broadcastToTabs reports whether msg carries data every tab keeps, not
// only the visible one.
func broadcastToTabs(msg tea.Msg) bool {
	switch msg.(type) {
	case PassCompletedMsg, DeviceUpdatedMsg, AuditLoadedMsg:
		return true
	}
	return false
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case AutoRefreshMsg:
		cmds = append(cmds, m.startPass())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case PassCompletedMsg:
		cmds = append(cmds, m.handlePassCompleted(msg)...)
	case ToggleDeviceMsg:
		cmds = append(cmds, m.handleDeviceRequest(msg.Unit, toggleDeviceCmd))
	case ResyncDeviceMsg:
		cmds = append(cmds, m.handleDeviceRequest(msg.Unit, resyncDeviceCmd))
	case DeviceUpdatedMsg:
		cmds = append(cmds, m.handleDeviceUpdated(msg)...)
	case ExportMsg:
		cmds = append(cmds, m.handleExport(msg))
	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg))
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text))
	case ClipboardResultMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("Clipboard unavailable: %v", msg.Error)))
		} else {
			cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Copied %s", msg.Text)))
		}
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ErrorMsg:
		text := DescribeError(msg.Error)
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, notifyErrorCmd(text))
	case RefreshMsg:
		cmds = append(cmds, m.startPass())
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

// startPass runs a refresh pass unless one is already in flight.
func (m *Model) startPass() tea.Cmd {
	if m.services == nil || m.state.IsPassRunning() {
		return nil
	}
	m.state.SetLoading(ResourcePass, true)
	m.state.SetLoadingNotification("Refreshing...")
	return runPassCmd(m.services)
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.StoreChangedEvent:
		if cmd := m.startPass(); cmd != nil {
			return tea.Batch(notifyInfoCmd("Store changed, refreshing"), cmd)
		}

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %s", e.Service, DescribeError(e.Error)))
	}

	return nil
}

func (m *Model) handlePassCompleted(msg PassCompletedMsg) []tea.Cmd {
	var cmds []tea.Cmd

	m.state.SetLoading(ResourceInitial, false)
	m.state.SetLoading(ResourcePass, false)
	m.state.SetPass(msg.Result)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}

	if msg.Result != nil {
		if msg.Result.Err != nil {
			cmds = append(cmds, notifyErrorCmd(DescribeError(msg.Result.Err)))
		} else {
			cmds = append(cmds, notifySuccessCmd(
				fmt.Sprintf("Loaded %d sessions", msg.Result.Report.Summary.Sessions)))
		}
		if unreachable := countUnreachable(msg.Result.Devices); unreachable > 0 {
			cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("%d device(s) unreachable", unreachable)))
		}
	}

	if m.services != nil {
		cmds = append(cmds, loadAuditCmd(m.services, AuditRowLimit))
		if cfg := m.cfg(); cfg != nil {
			cmds = append(cmds, autoRefreshCmd(cfg.RefreshInterval))
		}
	}
	return cmds
}

func countUnreachable(statuses []models.DeviceStatus) int {
	n := 0
	for _, s := range statuses {
		if s.ReadError != nil {
			n++
		}
	}
	return n
}

func (m *Model) handleDeviceRequest(unit string, build func(*services.Manager, string) tea.Cmd) tea.Cmd {
	if m.services == nil || unit == "" {
		return nil
	}
	m.state.SetLoading(ResourceDevices, true)
	return build(m.services, unit)
}

func (m *Model) handleDeviceUpdated(msg DeviceUpdatedMsg) []tea.Cmd {
	var cmds []tea.Cmd

	m.state.SetLoading(ResourceDevices, false)
	m.state.UpdateDevice(msg.Status)

	status := msg.Status
	switch {
	case status.WriteError != nil && msg.Action == ActionToggle:
		cmds = append(cmds, notifyErrorCmd(DescribeError(status.WriteError)))
	case status.ReadError != nil:
		cmds = append(cmds, notifyWarningCmd(DescribeError(status.ReadError)))
	case msg.Action == ActionToggle:
		cmds = append(cmds, notifySuccessCmd(fmt.Sprintf("Unit %s LEDs %s", status.Unit, status.State)))
	default:
		cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Unit %s resynced: %s", status.Unit, status.State)))
	}

	if m.services != nil {
		cmds = append(cmds, loadAuditCmd(m.services, AuditRowLimit))
	}
	return cmds
}

func (m *Model) handleExport(msg ExportMsg) tea.Cmd {
	if m.services == nil {
		return nil
	}
	m.state.SetLoading(ResourceExport, true)
	return exportCmd(m.services, msg.Dir)
}

func (m *Model) handleExportResult(msg ExportResultMsg) tea.Cmd {
	m.state.SetLoading(ResourceExport, false)
	if msg.Error != nil {
		return notifyErrorCmd("Export failed: " + DescribeError(msg.Error))
	}
	return notifySuccessCmd(fmt.Sprintf("Exported %d files to %s", len(msg.Files), msg.Dir))
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	tab := m.currentTab()
	if tab == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = tab.Update(msg)
	return cmd
}

func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-4) // tab bar, status line, spacing
	m.help.Width = m.width

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

// switchTab activates a tab and tells it so.
func (m *Model) switchTab(id TabID) tea.Cmd {
	m.activeTab = id
	m.updateTabSizes()
	return func() tea.Msg { return TabSwitchMsg{Tab: id} }
}

// handleKeyMsg applies the global bindings. While help is open only the
// help, close and quit keys are live.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keymap.Close):
		m.showHelp = false
		return nil
	case m.showHelp:
		return nil
	}

	for i, binding := range m.keymap.tabKeys() {
		if key.Matches(msg, binding) && i < len(m.tabs) {
			return m.switchTab(TabID(i))
		}
	}

	n := len(m.tabs)
	switch {
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(TabID((int(m.activeTab) + 1) % n))
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(TabID((int(m.activeTab) + n - 1) % n))
	case key.Matches(msg, m.keymap.Refresh):
		return m.startPass()
	case key.Matches(msg, m.keymap.Export):
		if cfg := m.cfg(); cfg != nil {
			dir := cfg.ExportDir
			return func() tea.Msg { return ExportMsg{Dir: dir} }
		}
	}

	return nil
}
