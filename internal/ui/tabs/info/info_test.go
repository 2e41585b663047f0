package info

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/version"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreBackend:      config.BackendFile,
		StoreFilePath:     "/data/store.json",
		EventsPath:        "handwashing",
		DevicePath:        "LED",
		DeviceUnits:       []string{"1", "2"},
		RemoteTimeout:     8 * time.Second,
		HistogramBinWidth: 2,
		HistogramBinMax:   30,
		ExportDir:         "export",
		DatabasePath:      "/data/hwd.db",
	}
}

func pinVersion(t *testing.T) {
	t.Helper()
	version.Version = "1.2.3"
	version.Commit = "abc123"
	version.Date = "2024-03-01"
	t.Cleanup(version.Reset)
}

func TestModel_View_Config(t *testing.T) {
	pinVersion(t)
	m := New(app.NewState(), testConfig())
	m.SetSize(120, 200)

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"Store Backend:",
		"/data/store.json",
		"1, 2",
		"8s",
		"2s wide up to 30s",
		"Auto Refresh:      off",
		"Log File:          not set",
		"No refreshes recorded",
		"No toggles recorded",
		"1.2.3",
		"abc123",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_View_NoConfig(t *testing.T) {
	pinVersion(t)
	m := New(app.NewState(), nil)
	m.SetSize(100, 100)

	if view := m.View(); !strings.Contains(view, "Configuration not loaded") {
		t.Error("view should note the missing configuration")
	}
}

func TestModel_AuditLoaded(t *testing.T) {
	pinVersion(t)
	m := New(app.NewState(), testConfig())
	m.SetSize(140, 200)

	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m.Update(app.AuditLoadedMsg{
		Passes: []models.PassRun{
			{Timestamp: ts, DurationMs: 42, RecordCount: 17},
			{Timestamp: ts, DurationMs: 8, Error: "data unavailable"},
		},
		Toggles: []models.ToggleEvent{
			{Timestamp: ts, Unit: "1", Desired: true, Success: true},
			{Timestamp: ts, Unit: "2", Desired: false, Error: "permission denied"},
		},
		Failures: map[string]int{"10": 1, "2": 3},
	})

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"17 records",
		"data unavailable",
		"unit 1      → on",
		"permission denied",
		"Failed writes: unit 2: 3, unit 10: 1",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Update(app.AuditLoadedMsg{Error: errors.New("database is locked")})
	view = ansi.Strip(m.View())
	if !strings.Contains(view, "Audit history unavailable: database is locked") {
		t.Error("audit failure should be shown")
	}
}

func TestModel_Copy(t *testing.T) {
	m := New(app.NewState(), testConfig())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatal("copy should return a command")
	}
	msg, ok := cmd().(app.CopyToClipboardMsg)
	if !ok || msg.Text != "/data/store.json" {
		t.Errorf("msg = %#v", msg)
	}

	if _, cmd := New(app.NewState(), nil).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}); cmd != nil {
		t.Error("copy without configuration should do nothing")
	}
}

func TestModel_Scroll(t *testing.T) {
	pinVersion(t)
	m := New(app.NewState(), testConfig())
	m.SetSize(100, 5)
	m.View()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.viewport.AtTop() {
		t.Error("down should scroll the viewport")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if len(m.ShortHelp()) != 1 {
		t.Errorf("ShortHelp = %d bindings, want 1", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp = %d groups, want 2", len(m.FullHelp()))
	}
}
