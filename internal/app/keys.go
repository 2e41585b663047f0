package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings handled by the root model. Tabs own
// their navigation keys.
type KeyMap struct {
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab4    key.Binding
	Tab5    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Export  key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "events")),
		Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "distribution")),
		Tab4:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "devices")),
		Tab5:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "info")),
		NextTab: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export report")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// tabKeys maps the numeric bindings to their tabs.
func (k KeyMap) tabKeys() []key.Binding {
	return []key.Binding{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Export, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append(k.tabKeys(), k.NextTab, k.PrevTab),
		{k.Refresh, k.Export, k.Help, k.Close, k.Quit},
	}
}
