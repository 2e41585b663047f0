package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/db"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/devices"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/export"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/records"
	"github.com/j-veylop/handwash-dashboard-tui/internal/store"
)

const sampleExport = `{
	"handwashing": {
		"-a": {"unit": 1, "location": "sink-a", "duration": 10, "led_on": 1, "timestamp": "2024-03-01 09:00:00"},
		"-b": {"unit": 1, "location": "sink-a", "duration": 20, "led_on": 0, "timestamp": "2024-03-01 10:00:00"},
		"-c": {"unit": 7, "location": "sink-b", "duration": 40, "led_on": 0, "timestamp": "2024-03-02 10:00:00"}
	},
	"LED": {"1": true, "2": false}
}`

// writeFailingStore rejects every write.
type writeFailingStore struct {
	store.Store
}

func (writeFailingStore) Set(context.Context, string, any) error {
	return errors.New("permission denied")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	return &config.Config{
		StoreBackend:      config.BackendFile,
		StoreFilePath:     filepath.Join(tmpDir, "export.json"),
		EventsPath:        "handwashing",
		DevicePath:        "LED",
		DatabasePath:      filepath.Join(tmpDir, "audit.db"),
		DeviceUnits:       []string{"1", "2", "3"},
		RemoteTimeout:     2 * time.Second,
		HistogramBinWidth: 2,
		HistogramBinMax:   30,
	}
}

func newTestManager(t *testing.T, content string, wrap func(store.Store) store.Store) (*Manager, *[]string) {
	t.Helper()
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.StoreFilePath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := store.OpenFile(cfg.StoreFilePath)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	var remote store.Store = f
	if wrap != nil {
		remote = wrap(f)
	}

	m := newManager(cfg, remote, database)
	m.closer = f
	var notified []string
	m.notify = func(title, _ string) { notified = append(notified, title) }

	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return m, &notified
}

func TestRunPass(t *testing.T) {
	m, _ := newTestManager(t, sampleExport, nil)

	result := m.RunPass(context.Background())
	if result.Err != nil {
		t.Fatalf("RunPass() error: %v", result.Err)
	}

	report := result.Report
	if len(report.Events) != 3 || report.Summary.Sessions != 3 {
		t.Errorf("unexpected report: %d events, summary %+v", len(report.Events), report.Summary)
	}
	if len(report.ByUnit) != 2 || report.ByUnit[0].DurationCombined != 15 {
		t.Errorf("ByUnit = %+v", report.ByUnit)
	}
	if len(report.ByLocation) != 2 {
		t.Errorf("ByLocation = %+v", report.ByLocation)
	}

	var units []string
	for _, h := range report.Histograms {
		units = append(units, h.Unit)
	}
	if len(units) != 4 || units[0] != "1" || units[3] != "7" {
		t.Errorf("histogram units = %v, want configured units plus 7", units)
	}

	if len(result.Devices) != 3 {
		t.Fatalf("expected 3 device statuses, got %d", len(result.Devices))
	}
	want := []models.DeviceState{models.DeviceOn, models.DeviceOff, models.DeviceOff}
	for i, st := range result.Devices {
		if st.State != want[i] || st.ReadError != nil {
			t.Errorf("device %s = %v (%v), want %v", st.Unit, st.State, st.ReadError, want[i])
		}
	}

	runs, err := m.Database().GetRecentPassRuns(5)
	if err != nil || len(runs) != 1 || runs[0].RecordCount != 3 {
		t.Errorf("pass run not recorded: %+v, %v", runs, err)
	}
}

func TestRunPass_LoaderFailure(t *testing.T) {
	m, _ := newTestManager(t, `{"LED": {"1": true}}`, nil)

	result := m.RunPass(context.Background())
	if !errors.Is(result.Err, records.ErrDataUnavailable) {
		t.Fatalf("RunPass() error = %v, want ErrDataUnavailable", result.Err)
	}
	if len(result.Report.ByUnit) != 0 {
		t.Error("failed pass must not carry tables")
	}
	if len(result.Devices) != 3 || result.Devices[0].State != models.DeviceOn {
		t.Errorf("devices should still be reconciled: %+v", result.Devices)
	}

	runs, _ := m.Database().GetRecentPassRuns(1)
	if len(runs) != 1 || runs[0].Error == "" {
		t.Errorf("failed pass not recorded: %+v", runs)
	}

	if _, err := m.Export(t.TempDir()); !errors.Is(err, ErrNoReport) {
		t.Errorf("Export() error = %v, want ErrNoReport", err)
	}
}

func TestToggleDevice(t *testing.T) {
	m, notified := newTestManager(t, sampleExport, nil)
	ctx := context.Background()

	status := m.ToggleDevice(ctx, "2")
	if status.State != models.DeviceOn || status.WriteError != nil {
		t.Errorf("ToggleDevice() = %+v", status)
	}

	status = m.ToggleDevice(ctx, "2")
	if status.State != models.DeviceOff {
		t.Errorf("second toggle = %v, want off", status.State)
	}

	status = m.SetDevice(ctx, "1", true)
	if status.State != models.DeviceOn {
		t.Errorf("SetDevice() = %v", status.State)
	}

	events, _ := m.Database().GetRecentToggleEvents(10)
	if len(events) != 2 {
		t.Errorf("expected 2 audited writes, got %d", len(events))
	}
	if len(*notified) != 0 {
		t.Errorf("unexpected notifications: %v", *notified)
	}
}

func TestSetDevice_WriteFailure(t *testing.T) {
	m, notified := newTestManager(t, sampleExport, func(s store.Store) store.Store {
		return writeFailingStore{Store: s}
	})
	ctx := context.Background()

	status := m.SetDevice(ctx, "1", false)
	if !errors.Is(status.WriteError, devices.ErrDeviceUnreachable) {
		t.Fatalf("WriteError = %v, want ErrDeviceUnreachable", status.WriteError)
	}
	if status.State != models.DeviceOn {
		t.Errorf("State = %v, want cached on", status.State)
	}
	if len(*notified) != 1 {
		t.Errorf("expected 1 notification, got %v", *notified)
	}

	// The failure stays visible on later passes.
	result := m.RunPass(ctx)
	if result.Devices[0].WriteError == nil {
		t.Error("write failure lost after refresh")
	}

	events, _ := m.Database().GetRecentToggleEvents(1)
	if len(events) != 1 || events[0].Success {
		t.Errorf("failed write not audited: %+v", events)
	}
}

func TestResyncDevice(t *testing.T) {
	m, _ := newTestManager(t, sampleExport, nil)
	ctx := context.Background()

	if st := m.ResyncDevice(ctx, "1"); st.State != models.DeviceOn {
		t.Fatalf("initial state = %v", st.State)
	}

	f := m.closer.(*store.File)
	if err := f.Set(ctx, "LED/1", false); err != nil {
		t.Fatal(err)
	}

	if st := m.DeviceStatuses(ctx)[0]; st.State != models.DeviceOn {
		t.Errorf("cached state should survive until resync, got %v", st.State)
	}
	if st := m.ResyncDevice(ctx, "1"); st.State != models.DeviceOff {
		t.Errorf("ResyncDevice() = %v, want off", st.State)
	}
}

func TestExport(t *testing.T) {
	m, _ := newTestManager(t, sampleExport, nil)
	m.RunPass(context.Background())

	dir := filepath.Join(t.TempDir(), "out")
	files, err := m.Export(dir)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, export.WorkbookName)); err != nil {
		t.Errorf("workbook missing: %v", err)
	}
	if len(files) < 5 {
		t.Errorf("expected workbook and charts, got %v", files)
	}
}

func TestManager_Subscription(t *testing.T) {
	m, _ := newTestManager(t, sampleExport, nil)

	ch := m.Subscribe()

	m.broadcast(ErrorEvent{Service: "test", Error: errors.New("boom")})
	select {
	case ev := <-ch:
		if e, ok := ev.(ErrorEvent); !ok || e.Service != "test" {
			t.Errorf("unexpected event %#v", ev)
		}
	default:
		t.Fatal("expected broadcast event")
	}

	for range subscriberBuffer + 5 {
		m.broadcast(StoreChangedEvent{})
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered events = %d, want %d", len(ch), subscriberBuffer)
	}

	other := m.Subscribe()

	m.Unsubscribe(ch)
	drained := 0
	for range ch {
		drained++
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d events, want %d", drained, subscriberBuffer)
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}

	// Must not panic on a removed or unknown channel.
	m.Unsubscribe(ch)
	m.Unsubscribe(make(chan ServiceEvent))

	// A send to the closed channel would panic here.
	m.broadcast(StoreChangedEvent{})
	select {
	case <-other:
	default:
		t.Error("remaining subscriber missed the event")
	}

	m.mu.RLock()
	n := len(m.subscribers)
	m.mu.RUnlock()
	if n != 1 {
		t.Errorf("subscribers = %d, want 1", n)
	}
}

func TestNewManager_FileBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuditRetention = time.Hour
	if err := os.WriteFile(cfg.StoreFilePath, []byte(sampleExport), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	defer m.Close()

	if m.Database() == nil || m.Config() != cfg || m.SessionID() == "" {
		t.Error("manager not fully initialized")
	}

	ch := m.Subscribe()
	if err := os.WriteFile(cfg.StoreFilePath, []byte(`{"LED": {"1": false}}`), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-ch:
		if _, ok := ev.(StoreChangedEvent); !ok {
			t.Errorf("expected StoreChangedEvent, got %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for StoreChangedEvent")
	}
}

func TestNewManager_BadStore(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.StoreFilePath, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(context.Background(), cfg); err == nil {
		t.Error("NewManager() should fail on a corrupt store file")
	}
}
