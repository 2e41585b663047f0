// Package info provides the info tab: configuration, audit history and
// build information.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Copy key.Binding
	Up   key.Binding
	Down key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy store location"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	auditErr error
	failures map[string]int
	passes   []models.PassRun
	toggles  []models.ToggleEvent
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.AuditLoadedMsg:
		m.auditErr = msg.Error
		if msg.Error == nil {
			m.passes = msg.Passes
			m.toggles = msg.Toggles
			m.failures = msg.Failures
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Copy) {
			if m.config != nil && m.config.StoreLocation() != "" {
				text := m.config.StoreLocation()
				return m, func() tea.Msg {
					return app.CopyToClipboardMsg{Text: text}
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Copy,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Copy},
		{m.keys.Up, m.keys.Down},
	}
}
