// Package app is the root Bubble Tea program: shared state, global keys,
// notifications and the commands that call into the service manager.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/export"
)

// Resource names an operation that shows a loading indicator.
type Resource string

// Tracked resources.
const (
	ResourceInitial Resource = "initial"
	ResourcePass    Resource = "pass"
	ResourceDevices Resource = "devices"
	ResourceExport  Resource = "export"
)

// LoadingState tracks which operations are in flight.
type LoadingState struct {
	Initial bool
	Pass    bool
	Devices bool
	Export  bool
}

func (l *LoadingState) flag(r Resource) *bool {
	switch r {
	case ResourceInitial:
		return &l.Initial
	case ResourcePass:
		return &l.Pass
	case ResourceDevices:
		return &l.Devices
	case ResourceExport:
		return &l.Export
	}
	return nil
}

// State is the data shared between the root model and the tabs. The root
// model writes it; tabs only read, except for the histogram selection.
type State struct {
	mu sync.RWMutex

	pass         *services.PassResult
	report       *export.Report
	devices      []models.DeviceStatus
	selectedHist int

	Loading     LoadingState
	LastUpdated time.Time

	notifications []Notification
}

// NewState creates an empty state that is waiting for its first pass.
func NewState() *State {
	return &State{Loading: LoadingState{Initial: true}}
}

// SetLoading marks a resource as busy or idle. Unknown names are ignored.
func (s *State) SetLoading(r Resource, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f := s.Loading.flag(r); f != nil {
		*f = loading
	}
}

func (s *State) isLoading(r Resource) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.Loading.flag(r)
}

// AnyLoading reports whether any resource is busy.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := s.Loading
	return l.Initial || l.Pass || l.Devices || l.Export
}

// IsInitialLoading reports whether the first pass is still outstanding.
func (s *State) IsInitialLoading() bool { return s.isLoading(ResourceInitial) }

// IsPassRunning reports whether a refresh pass is in flight.
func (s *State) IsPassRunning() bool { return s.isLoading(ResourcePass) }

// IsDeviceUpdating reports whether a toggle or resync is in flight.
func (s *State) IsDeviceUpdating() bool { return s.isLoading(ResourceDevices) }

// SetPass stores the outcome of a refresh pass. A failed pass clears the
// report so no stale tables are shown next to the error; device statuses
// are replaced either way.
func (s *State) SetPass(result *services.PassResult) {
	if result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pass = result
	s.LastUpdated = time.Now()
	s.devices = slices.Clone(result.Devices)

	if result.Err != nil {
		s.report = nil
		return
	}
	report := result.Report
	s.report = &report
	if s.selectedHist >= len(report.Histograms) {
		s.selectedHist = 0
	}
}

// PassError returns the error of the last pass, if any.
func (s *State) PassError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pass == nil {
		return nil
	}
	return s.pass.Err
}

// GetReport returns the report of the last pass when it succeeded.
func (s *State) GetReport() (export.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return export.Report{}, false
	}
	return *s.report, true
}

// GetDevices returns a copy of the device statuses.
func (s *State) GetDevices() []models.DeviceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.devices)
}

// UpdateDevice replaces the status of one unit, appending unknown units.
func (s *State) UpdateDevice(status models.DeviceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.devices, func(d models.DeviceStatus) bool { return d.Unit == status.Unit })
	if i < 0 {
		s.devices = append(s.devices, status)
		return
	}
	s.devices[i] = status
}

// SelectedHistogram returns the index of the histogram shown in the
// distribution tab.
func (s *State) SelectedHistogram() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedHist
}

// SetSelectedHistogram updates the selected histogram index.
func (s *State) SetSelectedHistogram(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedHist = idx
}

// GetLastUpdated returns when the last pass completed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
