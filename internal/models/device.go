package models

import "time"

// DeviceState is the cached view of a unit's LED toggle.
type DeviceState int

const (
	// DeviceUnknown means the remote state has not been read successfully yet.
	DeviceUnknown DeviceState = iota
	// DeviceOff means the LEDs are disabled.
	DeviceOff
	// DeviceOn means the LEDs are enabled.
	DeviceOn
)

// String returns the display form of the state.
func (s DeviceState) String() string {
	switch s {
	case DeviceOff:
		return "off"
	case DeviceOn:
		return "on"
	default:
		return "unknown"
	}
}

// StateOf converts a boolean into the matching known state.
func StateOf(on bool) DeviceState {
	if on {
		return DeviceOn
	}
	return DeviceOff
}

// DeviceStatus is what the shell shows for one unit's toggle.
// ReadError and WriteError are kept apart so a failed write is never
// mistaken for the device's state.
type DeviceStatus struct {
	ReadError  error
	WriteError error
	Unit       string
	State      DeviceState
}

// ToggleEvent is one audited remote write attempt.
type ToggleEvent struct {
	Timestamp time.Time
	SessionID string
	Unit      string
	Error     string
	ID        int64
	Desired   bool
	Success   bool
}

// PassRun is one audited refresh pass.
type PassRun struct {
	Timestamp   time.Time
	Error       string
	ID          int64
	DurationMs  int64
	RecordCount int
}
