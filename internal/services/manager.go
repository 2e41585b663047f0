// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/db"
	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/devices"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/export"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/records"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
	"github.com/j-veylop/handwash-dashboard-tui/internal/store"
)

const subscriberBuffer = 50

type (
	// StoreChangedEvent is emitted when the backing store was modified outside
	// the dashboard.
	StoreChangedEvent struct{}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (StoreChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()        {}

// PassResult is the outcome of one refresh pass. When Err is set the report
// is empty and must not be shown; Devices are filled either way.
type PassResult struct {
	Started  time.Time
	Err      error
	Devices  []models.DeviceStatus
	Report   export.Report
	Duration time.Duration
}

// ErrNoReport is returned by Export before any pass succeeded.
var ErrNoReport = errors.New("no successful refresh to export")

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	closer      io.Closer
	watcher     store.Watcher
	loader      *records.Loader
	sync        *devices.Sync
	session     *devices.Session
	database    *db.DB
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	writeErrors map[string]error
	lastReport  *export.Report
	notify      func(title, message string)
}

// NewManager opens the configured store and the audit database.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	remote, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := newManager(cfg, remote, database)
	m.closer = closer
	if w, ok := remote.(store.Watcher); ok {
		m.watcher = w
		go m.routeEvents()
	}

	if cfg.AuditRetention > 0 {
		removed, err := database.PruneBefore(time.Now().Add(-cfg.AuditRetention))
		if err != nil {
			logger.Warn("failed to prune audit log", "error", err)
		} else if removed > 0 {
			logger.Info("Pruned audit log", "rows", removed)
		}
	}

	return m, nil
}

func newManager(cfg *config.Config, remote store.Store, database *db.DB) *Manager {
	bounded := store.WithTimeout(remote, cfg.RemoteTimeout)

	var audit devices.Recorder
	if database != nil {
		audit = database
	}

	return &Manager{
		cfg:         cfg,
		database:    database,
		loader:      records.NewLoader(bounded, cfg.EventsPath),
		sync:        devices.NewSync(bounded, cfg.DevicePath, audit),
		session:     devices.NewSession(),
		stopChan:    make(chan struct{}),
		writeErrors: make(map[string]error),
		notify: func(title, message string) {
			_ = beeep.Notify(title, message, "")
		},
	}
}

// openStore builds the configured backend. The returned closer may be nil.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		f, err := store.OpenFile(cfg.StoreFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store file: %w", err)
		}
		return f, f, nil
	default:
		fb, err := store.NewFirebase(ctx, store.FirebaseConfig{
			DatabaseURL:     cfg.FirebaseDatabaseURL,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			return nil, nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 3*cfg.RemoteTimeout)
		defer cancel()
		if err := fb.Ping(pingCtx, cfg.DevicePath, 2); err != nil {
			// The dashboard still starts and shows the failure per pass.
			logger.Warn("Firebase not reachable at startup", "error", err)
		}
		return fb, nil, nil
	}
}

// routeEvents forwards store change notifications to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.watcher.Events():
			switch event.Type {
			case store.EventChanged:
				m.broadcast(StoreChangedEvent{})
			case store.EventError:
				m.broadcast(ErrorEvent{Service: "store", Error: event.Error})
			}

		case <-m.stopChan:
			return
		}
	}
}

// RunPass loads the records, aggregates them and reconciles every device.
// A loader failure leaves the report empty; device errors stay per device.
func (m *Manager) RunPass(ctx context.Context) *PassResult {
	result := &PassResult{Started: time.Now()}

	events, err := m.loader.Load(ctx)
	if err != nil {
		result.Err = err
	} else {
		result.Report = m.buildReport(events)
	}

	result.Devices = m.DeviceStatuses(ctx)
	result.Duration = time.Since(result.Started)

	run := &models.PassRun{
		Timestamp:   result.Started.UTC(),
		DurationMs:  result.Duration.Milliseconds(),
		RecordCount: len(result.Report.Events),
	}
	if result.Err != nil {
		run.Error = result.Err.Error()
		logger.Error("refresh pass failed", "error", result.Err)
	} else {
		m.mu.Lock()
		report := result.Report
		m.lastReport = &report
		m.mu.Unlock()
		logger.Info("Refresh pass complete", "records", run.RecordCount, "duration_ms", run.DurationMs)
	}

	if m.database != nil {
		if err := m.database.InsertPassRun(run); err != nil {
			logger.Error("failed to record pass run", "error", err)
		}
	}

	return result
}

func (m *Manager) buildReport(events []models.Event) export.Report {
	report := export.Report{
		GeneratedAt: time.Now(),
		Events:      events,
		Summary:     stats.Summarize(events),
		ByUnit:      stats.Aggregate(events, models.DimensionUnit, nil),
		ByLocation:  stats.Aggregate(events, models.DimensionLocation, nil),
		Daily:       stats.DailyMeans(events, models.DimensionLocation),
	}

	for _, unit := range m.HistogramUnits(report.ByUnit) {
		report.Histograms = append(report.Histograms,
			stats.BuildHistogram(events, unit, m.cfg.HistogramBinWidth, m.cfg.HistogramBinMax))
	}
	return report
}

// HistogramUnits returns the configured units followed by any other unit
// present in rows, in key order.
func (m *Manager) HistogramUnits(rows []models.AggregateRow) []string {
	units := slices.Clone(m.cfg.DeviceUnits)
	for _, row := range rows {
		if !slices.Contains(units, row.Key) {
			units = append(units, row.Key)
		}
	}
	slices.SortFunc(units, models.CompareKeys)
	return units
}

// DeviceStatuses returns the state of every configured unit, reading the
// store only for units not cached in this session.
func (m *Manager) DeviceStatuses(ctx context.Context) []models.DeviceStatus {
	statuses := make([]models.DeviceStatus, len(m.cfg.DeviceUnits))
	for i, unit := range m.cfg.DeviceUnits {
		statuses[i] = m.deviceStatus(ctx, unit)
	}
	return statuses
}

func (m *Manager) deviceStatus(ctx context.Context, unit string) models.DeviceStatus {
	status := models.DeviceStatus{Unit: unit}
	if _, err := m.sync.GetState(ctx, m.session, unit); err != nil {
		status.ReadError = err
	}
	status.State = m.session.State(unit)

	m.mu.RLock()
	status.WriteError = m.writeErrors[unit]
	m.mu.RUnlock()
	return status
}

// SetDevice pushes the desired state of one unit. A failed write is kept on
// the unit's status until a later write succeeds.
func (m *Manager) SetDevice(ctx context.Context, unit string, desired bool) models.DeviceStatus {
	err := m.sync.SetDesiredState(ctx, m.session, unit, desired)

	var unreachable *devices.UnreachableError
	switch {
	case err == nil:
		m.mu.Lock()
		delete(m.writeErrors, unit)
		m.mu.Unlock()
	case errors.As(err, &unreachable) && unreachable.Op == "write":
		m.mu.Lock()
		m.writeErrors[unit] = err
		m.mu.Unlock()
		m.notify(fmt.Sprintf("LED toggle failed: Unit %s", unit), err.Error())
	}

	status := m.deviceStatus(ctx, unit)
	if err != nil && status.ReadError == nil && status.WriteError == nil {
		status.ReadError = err
	}
	return status
}

// ToggleDevice flips the desired state of a unit relative to its cached
// state. Unknown devices are switched on.
func (m *Manager) ToggleDevice(ctx context.Context, unit string) models.DeviceStatus {
	return m.SetDevice(ctx, unit, m.session.State(unit) != models.DeviceOn)
}

// ResyncDevice drops the cached state of a unit and reads it again.
func (m *Manager) ResyncDevice(ctx context.Context, unit string) models.DeviceStatus {
	m.session.Invalidate(unit)
	return m.deviceStatus(ctx, unit)
}

// Export writes the last successful report into dir.
func (m *Manager) Export(dir string) ([]string, error) {
	m.mu.RLock()
	report := m.lastReport
	m.mu.RUnlock()

	if report == nil {
		return nil, ErrNoReport
	}
	return export.WriteDir(dir, *report)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

// Subscribe returns a buffered channel that receives every later event.
// A full channel drops events rather than blocking the manager. The
// channel is closed by Unsubscribe or Close.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, subscriberBuffer)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.subscribers)
	m.subscribers = slices.DeleteFunc(m.subscribers, func(sub chan<- ServiceEvent) bool { return sub == ch })
	if len(m.subscribers) < before {
		close(ch)
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// SessionID returns the identifier of the operator session.
func (m *Manager) SessionID() string {
	return m.session.ID()
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its resources.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
