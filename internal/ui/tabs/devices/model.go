// Package devices provides the tab for viewing and flipping the per-unit
// LED toggles.
package devices

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the devices tab.
type keyMap struct {
	Toggle key.Binding
	Resync key.Binding
}

// defaultKeyMap returns the default key bindings for the devices tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle LEDs"),
		),
		Resync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "resync"),
		),
	}
}

// Model represents the devices tab state.
type Model struct {
	state  *app.State
	table  table.Model
	keys   keyMap
	width  int
	height int
}

// New creates a new devices model.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "Unit", Width: 12},
		{Title: "LEDs", Width: 10},
		{Title: "Status", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
	}
	m.updateTableData()
	return m
}

// Init initializes the devices tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the devices tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case app.PassCompletedMsg, app.DeviceUpdatedMsg:
		m.updateTableData()
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if unit := m.selectedUnit(); unit != "" && !m.state.IsDeviceUpdating() {
			return func() tea.Msg { return app.ToggleDeviceMsg{Unit: unit} }
		}
	case key.Matches(msg, m.keys.Resync):
		if unit := m.selectedUnit(); unit != "" && !m.state.IsDeviceUpdating() {
			return func() tea.Msg { return app.ResyncDeviceMsg{Unit: unit} }
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) selectedUnit() string {
	if row := m.table.SelectedRow(); len(row) > 0 {
		return row[0]
	}
	return ""
}

// updateTableData rebuilds the rows from the cached device statuses.
func (m *Model) updateTableData() {
	devices := m.state.GetDevices()
	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		rows[i] = table.Row{d.Unit, d.State.String(), statusText(d)}
	}
	m.table.SetRows(rows)
	if n := len(rows); n > 0 && (m.table.Cursor() < 0 || m.table.Cursor() >= n) {
		m.table.SetCursor(n - 1)
	}
}

// statusText summarises which side of a unit's toggle last failed.
func statusText(d models.DeviceStatus) string {
	switch {
	case d.ReadError != nil && d.WriteError != nil:
		return "read and write failed"
	case d.ReadError != nil:
		return "unreachable"
	case d.WriteError != nil:
		return "last write failed"
	case d.State == models.DeviceUnknown:
		return "not read yet"
	default:
		return "ok"
	}
}

// SetSize sets the available size for the devices tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(min(height-14, 20), 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.Resync}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	km := m.table.KeyMap
	return [][]key.Binding{
		{m.keys.Toggle, m.keys.Resync},
		{km.LineUp, km.LineDown, km.GotoTop, km.GotoBottom},
	}
}
