// Package models defines data structures and domain types.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Event is one handwashing session as recorded by the sink hardware.
// Events are read-only; the dashboard never writes them back.
type Event struct {
	Timestamp time.Time
	ID        string
	Unit      string
	Location  string
	Duration  float64
	LEDOn     bool
}

// Dimension is a categorical field events can be grouped by.
type Dimension int

const (
	// DimensionUnit groups by hospital unit.
	DimensionUnit Dimension = iota
	// DimensionLocation groups by sink location.
	DimensionLocation
)

// String returns the column name of the dimension.
func (d Dimension) String() string {
	switch d {
	case DimensionUnit:
		return "unit"
	case DimensionLocation:
		return "location"
	default:
		return "unknown"
	}
}

// Title returns the capitalised column heading of the dimension.
func (d Dimension) Title() string {
	switch d {
	case DimensionUnit:
		return "Unit"
	case DimensionLocation:
		return "Location"
	default:
		return "Unknown"
	}
}

// KeyOf returns the value of the dimension for an event.
func (d Dimension) KeyOf(e Event) string {
	if d == DimensionLocation {
		return e.Location
	}
	return e.Unit
}

// CompareKeys orders categorical keys numerically when both parse as
// numbers and lexically otherwise.
func CompareKeys(a, b string) int {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return strings.Compare(a, b)
}
