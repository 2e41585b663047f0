// Package distribution provides the tab showing per-unit duration
// histograms and daily mean durations.
package distribution

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
)

// TimeRange limits the days shown in the daily chart.
type TimeRange int

const (
	// RangeAll shows every recorded day.
	RangeAll TimeRange = iota
	// Range30Days shows the 30 days up to the latest session.
	Range30Days
	// Range7Days shows the 7 days up to the latest session.
	Range7Days
)

// String returns the display name of the range.
func (r TimeRange) String() string {
	switch r {
	case Range30Days:
		return "Last 30 days"
	case Range7Days:
		return "Last 7 days"
	default:
		return "All time"
	}
}

// Next cycles to the following range.
func (r TimeRange) Next() TimeRange {
	return (r + 1) % 3
}

// Filter keeps events inside the range ending on the day of last.
func (r TimeRange) Filter(last time.Time) stats.Filter {
	var days int
	switch r {
	case Range30Days:
		days = 30
	case Range7Days:
		days = 7
	default:
		return nil
	}
	y, m, d := last.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, last.Location()).AddDate(0, 0, 1-days)
	return stats.Between(from, time.Time{})
}

// keyMap defines the key bindings specific to the distribution tab.
type keyMap struct {
	NextUnit    key.Binding
	PrevUnit    key.Binding
	ToggleRange key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

// defaultKeyMap returns the default key bindings for the distribution tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextUnit: key.NewBinding(
			key.WithKeys("j", "n", "down"),
			key.WithHelp("j/n", "next unit"),
		),
		PrevUnit: key.NewBinding(
			key.WithKeys("k", "p", "up"),
			key.WithHelp("k/p", "prev unit"),
		),
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// Model represents the distribution tab state.
type Model struct {
	state     *app.State
	keys      keyMap
	viewport  viewport.Model
	timeRange TimeRange
	width     int
	height    int
}

// New creates a new distribution model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the distribution tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the distribution tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.TabSwitchMsg:
		if msg.Tab == app.TabDistribution {
			m.viewport.GotoTop()
		}

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	report, ok := m.state.GetReport()
	count := 0
	if ok {
		count = len(report.Histograms)
	}

	switch {
	case key.Matches(msg, m.keys.NextUnit):
		if count > 0 {
			m.state.SetSelectedHistogram((m.state.SelectedHistogram() + 1) % count)
		}
	case key.Matches(msg, m.keys.PrevUnit):
		if count > 0 {
			m.state.SetSelectedHistogram((m.state.SelectedHistogram() - 1 + count) % count)
		}
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfPageDown()
	}
	return nil
}

// SetSize sets the available size for the distribution tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextUnit,
		m.keys.PrevUnit,
		m.keys.ToggleRange,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextUnit, m.keys.PrevUnit},
		{m.keys.ToggleRange},
		{m.keys.PageUp, m.keys.PageDown},
	}
}
