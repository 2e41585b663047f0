// Package stats computes grouped summaries and distributions over events.
package stats

import (
	"slices"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// Filter selects the events an aggregation runs over. A nil Filter keeps
// every event.
type Filter func(models.Event) bool

// ForUnit keeps events of a single unit.
func ForUnit(unit string) Filter {
	return func(e models.Event) bool { return e.Unit == unit }
}

// Between keeps events with from <= timestamp < to. A zero bound is open.
func Between(from, to time.Time) Filter {
	return func(e models.Event) bool {
		if !from.IsZero() && e.Timestamp.Before(from) {
			return false
		}
		if !to.IsZero() && !e.Timestamp.Before(to) {
			return false
		}
		return true
	}
}

func (f Filter) keep(e models.Event) bool {
	return f == nil || f(e)
}

// Select returns the events filter keeps, in their original order.
func Select(events []models.Event, filter Filter) []models.Event {
	if filter == nil {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if filter.keep(e) {
			out = append(out, e)
		}
	}
	return out
}

type accumulator struct {
	count, onCount, offCount int
	sum, onSum, offSum       float64
}

func (a *accumulator) add(e models.Event) {
	a.count++
	a.sum += e.Duration
	if e.LEDOn {
		a.onCount++
		a.onSum += e.Duration
	} else {
		a.offCount++
		a.offSum += e.Duration
	}
}

func mean(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// Aggregate groups events by dim and returns one row per distinct key in
// ascending key order. Means over an empty LED subset are nil.
func Aggregate(events []models.Event, dim models.Dimension, filter Filter) []models.AggregateRow {
	groups := make(map[string]*accumulator)
	for _, e := range events {
		if !filter.keep(e) {
			continue
		}
		key := dim.KeyOf(e)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.add(e)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, models.CompareKeys)

	rows := make([]models.AggregateRow, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		rows = append(rows, models.AggregateRow{
			Key:              key,
			Count:            acc.count,
			DurationCombined: acc.sum / float64(acc.count),
			DurationLEDOn:    mean(acc.onSum, acc.onCount),
			DurationLEDOff:   mean(acc.offSum, acc.offCount),
		})
	}
	return rows
}

// Summarize returns the headline figures for a record collection.
func Summarize(events []models.Event) models.Summary {
	var s models.Summary
	if len(events) == 0 {
		return s
	}

	units := make(map[string]struct{})
	locations := make(map[string]struct{})
	var acc accumulator
	for _, e := range events {
		acc.add(e)
		units[e.Unit] = struct{}{}
		locations[e.Location] = struct{}{}
		if s.First.IsZero() || e.Timestamp.Before(s.First) {
			s.First = e.Timestamp
		}
		if e.Timestamp.After(s.Last) {
			s.Last = e.Timestamp
		}
	}

	s.Sessions = acc.count
	s.Units = len(units)
	s.Locations = len(locations)
	s.MeanDuration = acc.sum / float64(acc.count)
	s.LEDOnShare = float64(acc.onCount) / float64(acc.count)
	return s
}

// DailyMeans returns, per key of dim, the mean duration for every calendar
// day that has events. Series are in key order and points in day order.
func DailyMeans(events []models.Event, dim models.Dimension) []models.DailySeries {
	type dayKey struct {
		key string
		day time.Time
	}

	days := make(map[dayKey]*accumulator)
	seen := make(map[string][]time.Time)
	for _, e := range events {
		y, m, d := e.Timestamp.Date()
		k := dayKey{key: dim.KeyOf(e), day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
		acc, ok := days[k]
		if !ok {
			acc = &accumulator{}
			days[k] = acc
			seen[k.key] = append(seen[k.key], k.day)
		}
		acc.add(e)
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, models.CompareKeys)

	series := make([]models.DailySeries, 0, len(keys))
	for _, key := range keys {
		list := seen[key]
		slices.SortFunc(list, func(a, b time.Time) int { return a.Compare(b) })

		points := make([]models.DailyPoint, 0, len(list))
		for _, day := range list {
			acc := days[dayKey{key: key, day: day}]
			points = append(points, models.DailyPoint{
				Day:          day,
				MeanDuration: acc.sum / float64(acc.count),
				Count:        acc.count,
			})
		}
		series = append(series, models.DailySeries{Key: key, Points: points})
	}
	return series
}
