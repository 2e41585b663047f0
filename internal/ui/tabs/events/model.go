// Package events provides the tab listing every loaded handwashing record.
package events

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

const timeLayout = "2006-01-02 15:04:05"

type keyMap struct {
	Filter key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter unit"),
		),
	}
}

// Model represents the events tab state.
type Model struct {
	state *app.State
	table table.Model
	keys  keyMap

	units []string
	// unit is the unit filter; empty shows every record.
	unit  string
	shown int
	total int

	width  int
	height int
}

// New creates a new events model.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "Timestamp", Width: 20},
		{Title: "Unit", Width: 8},
		{Title: "Location", Width: 16},
		{Title: "Duration (s)", Width: 12},
		{Title: "LEDs", Width: 6},
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

// Init initializes the events tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the events tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Filter) {
			m.nextUnit()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case app.PassCompletedMsg:
		m.updateTableData()
	}

	return m, nil
}

// nextUnit cycles the filter through every unit and back to all records.
func (m *Model) nextUnit() {
	if len(m.units) == 0 {
		return
	}
	switch i := slices.Index(m.units, m.unit); {
	case m.unit == "":
		m.unit = m.units[0]
	case i < 0 || i == len(m.units)-1:
		m.unit = ""
	default:
		m.unit = m.units[i+1]
	}
	m.table.SetCursor(0)
	m.updateTableData()
}

// updateTableData rebuilds the rows from the last report.
func (m *Model) updateTableData() {
	report, ok := m.state.GetReport()
	if !ok {
		m.units, m.unit, m.shown, m.total = nil, "", 0, 0
		m.table.SetRows(nil)
		return
	}

	m.units = unitsOf(report.Events)
	if !slices.Contains(m.units, m.unit) {
		m.unit = ""
	}

	var filter stats.Filter
	if m.unit != "" {
		filter = stats.ForUnit(m.unit)
	}
	events := stats.Select(report.Events, filter)

	rows := make([]table.Row, len(events))
	for i, e := range events {
		rows[i] = table.Row{
			e.Timestamp.Format(timeLayout),
			e.Unit,
			e.Location,
			fmt.Sprintf("%.1f", e.Duration),
			models.StateOf(e.LEDOn).String(),
		}
	}
	m.table.SetRows(rows)
	m.shown, m.total = len(events), len(report.Events)

	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

func unitsOf(events []models.Event) []string {
	var units []string
	for _, e := range events {
		if !slices.Contains(units, e.Unit) {
			units = append(units, e.Unit)
		}
	}
	slices.SortFunc(units, models.CompareKeys)
	return units
}

// SetSize sets the available size for the events tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-12, 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Filter}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	km := m.table.KeyMap
	return [][]key.Binding{
		{m.keys.Filter},
		{km.LineUp, km.LineDown, km.PageUp, km.PageDown, km.GotoTop, km.GotoBottom},
	}
}
