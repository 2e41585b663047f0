package devices

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/devices"
)

func sampleState() *app.State {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetPass(&services.PassResult{Devices: []models.DeviceStatus{
		{Unit: "1", State: models.DeviceOn},
		{Unit: "2", State: models.DeviceOff},
		{Unit: "3", ReadError: &devices.UnreachableError{Unit: "3", Op: "read", Err: errors.New("connection refused")}},
	}})
	return state
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestStatusText(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		status models.DeviceStatus
		want   string
	}{
		{"OK", models.DeviceStatus{State: models.DeviceOn}, "ok"},
		{"Unknown", models.DeviceStatus{}, "not read yet"},
		{"ReadFailed", models.DeviceStatus{ReadError: boom}, "unreachable"},
		{"WriteFailed", models.DeviceStatus{State: models.DeviceOff, WriteError: boom}, "last write failed"},
		{"BothFailed", models.DeviceStatus{ReadError: boom, WriteError: boom}, "read and write failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusText(tt.status); got != tt.want {
				t.Errorf("statusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_Rows(t *testing.T) {
	m := New(sampleState())

	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "1" || rows[0][1] != "on" || rows[0][2] != "ok" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[2][1] != "unknown" || rows[2][2] != "unreachable" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestModel_Toggle(t *testing.T) {
	m := New(sampleState())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	msg, ok := runCmd(t, cmd).(app.ToggleDeviceMsg)
	if !ok || msg.Unit != "1" {
		t.Fatalf("msg = %#v, want ToggleDeviceMsg for unit 1", msg)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := runCmd(t, cmd).(app.ToggleDeviceMsg); msg.Unit != "2" {
		t.Errorf("toggle after moving down = %q, want 2", msg.Unit)
	}
}

func TestModel_Resync(t *testing.T) {
	m := New(sampleState())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	msg, ok := runCmd(t, cmd).(app.ResyncDeviceMsg)
	if !ok || msg.Unit != "3" {
		t.Fatalf("msg = %#v, want ResyncDeviceMsg for unit 3", msg)
	}
}

func TestModel_BusyIgnoresRequests(t *testing.T) {
	state := sampleState()
	state.SetLoading("devices", true)
	m := New(state)
	m.SetSize(100, 30)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("toggle should be ignored while a request is in flight")
	}
	if !strings.Contains(m.View(), "updating") {
		t.Error("view should show the updating indicator")
	}
}

func TestModel_NoDevices(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("toggle without units should do nothing")
	}
	if !strings.Contains(m.View(), "No Units Configured") {
		t.Error("view should show the empty state")
	}
}

func TestModel_DeviceUpdated(t *testing.T) {
	state := sampleState()
	m := New(state)
	m.SetSize(120, 40)

	status := models.DeviceStatus{
		Unit:       "2",
		State:      models.DeviceOff,
		WriteError: &devices.UnreachableError{Unit: "2", Op: "write", Err: errors.New("permission denied")},
	}
	state.UpdateDevice(status)
	m.Update(app.DeviceUpdatedMsg{Action: "toggle", Status: status})

	if got := m.table.Rows()[1][2]; got != "last write failed" {
		t.Errorf("status = %q, want last write failed", got)
	}

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"LED Toggles",
		"3 units, 1 with LEDs on",
		"Unit 1 LEDs: ● on",
		"read:  Device unreachable (unit 3, read): connection refused",
		"write: Device unreachable (unit 2, write): permission denied",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp = %d bindings, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp = %d groups, want 2", len(m.FullHelp()))
	}
}
