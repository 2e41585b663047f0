package models

import (
	"strconv"
	"time"
)

// AggregateRow holds summary statistics for one dimension value.
// DurationLEDOn and DurationLEDOff are nil when no matching session exists.
type AggregateRow struct {
	DurationLEDOn    *float64
	DurationLEDOff   *float64
	Key              string
	Count            int
	DurationCombined float64
}

// FormatMean renders an optional mean with one decimal, or "N/A" when absent.
func FormatMean(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// Summary is the headline figure set shown above the tables.
type Summary struct {
	First        time.Time
	Last         time.Time
	Sessions     int
	Units        int
	Locations    int
	MeanDuration float64
	LEDOnShare   float64
}

// DailyPoint is the mean duration for one calendar day.
type DailyPoint struct {
	Day          time.Time
	MeanDuration float64
	Count        int
}

// DailySeries is the per-day mean duration for a single dimension value.
type DailySeries struct {
	Key    string
	Points []DailyPoint
}

// Values returns the mean durations in day order.
func (s DailySeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.MeanDuration
	}
	return values
}
