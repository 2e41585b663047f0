// Package dashboard provides the summary tab: headline figures, LED-on
// shares and the per-unit and per-location tables.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	SwitchTable key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		SwitchTable: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "units/locations first"),
		),
	}
}

// unitShare is the LED-on share of one unit.
type unitShare struct {
	Unit    string
	Percent float64
}

// Model represents the dashboard tab state.
type Model struct {
	state          *app.State
	spinner        components.Spinner
	keys           keyMap
	viewport       viewport.Model
	shareBar       components.ShareBar
	shares         []unitShare
	width          int
	height         int
	locationsFirst bool
}

// New creates a new dashboard model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading handwashing data..."),
		shareBar: components.NewShareBar(30),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.PassCompletedMsg:
		cmds = append(cmds, m.syncReport())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.shareBar, cmd = m.shareBar.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncReport recomputes per-unit shares and retargets the share bar.
func (m *Model) syncReport() tea.Cmd {
	report, ok := m.state.GetReport()
	if !ok {
		m.shares = nil
		return nil
	}

	m.shares = m.shares[:0]
	for _, row := range report.ByUnit {
		summary := stats.Summarize(stats.Select(report.Events, stats.ForUnit(row.Key)))
		m.shares = append(m.shares, unitShare{Unit: row.Key, Percent: summary.LEDOnShare * 100})
	}

	return m.shareBar.SetPercent(report.Summary.LEDOnShare * 100)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.SwitchTable):
		m.locationsFirst = !m.locationsFirst
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// tableOrder returns the dimensions in the order the tables are drawn.
func (m *Model) tableOrder() []models.Dimension {
	if m.locationsFirst {
		return []models.Dimension{models.DimensionLocation, models.DimensionUnit}
	}
	return []models.Dimension{models.DimensionUnit, models.DimensionLocation}
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Down,
		m.keys.Up,
		m.keys.SwitchTable,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Down, m.keys.Up},
		{m.keys.Top, m.keys.Bottom},
		{m.keys.SwitchTable},
	}
}
