// Package records loads handwashing events from the remote store.
package records

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/store"
)

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Loader reads the whole event subtree on each call.
type Loader struct {
	store store.Store
	path  string
}

// NewLoader creates a loader reading events under path.
func NewLoader(s store.Store, path string) *Loader {
	return &Loader{store: s, path: path}
}

// Path returns the subtree the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load fetches and validates every entry. Any invalid entry fails the whole
// batch. Events are returned in entry key order.
func (l *Loader) Load(ctx context.Context) ([]models.Event, error) {
	var raw any
	if err := l.store.Get(ctx, l.path, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	entries, err := entriesOf(raw)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no records at %q", ErrDataUnavailable, l.path)
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, models.CompareKeys)

	events := make([]models.Event, 0, len(keys))
	for _, key := range keys {
		event, err := parseEntry(key, entries[key])
		if err != nil {
			logger.Warn("Rejected handwashing batch", "path", l.path, "error", err)
			return nil, err
		}
		events = append(events, event)
	}

	logger.Info("Loaded handwashing records", "path", l.path, "count", len(events))
	return events, nil
}

// entriesOf accepts an object keyed by entry id, or an array as the
// database returns for sequential integer keys.
func entriesOf(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case []any:
		entries := make(map[string]any, len(v))
		for i, entry := range v {
			if entry != nil {
				entries[strconv.Itoa(i)] = entry
			}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: expected a collection of records, got %T", ErrDataUnavailable, raw)
	}
}

// parseEntry converts one loosely typed entry into an Event.
func parseEntry(key string, raw any) (models.Event, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return models.Event{}, fmt.Errorf("%w: entry %s is not an object", ErrDataUnavailable, key)
	}

	unit, err := categorical(key, "unit", fields["unit"])
	if err != nil {
		return models.Event{}, err
	}
	location, err := categorical(key, "location", fields["location"])
	if err != nil {
		return models.Event{}, err
	}

	duration, ok := fields["duration"].(float64)
	switch {
	case fields["duration"] == nil:
		return models.Event{}, fieldError(key, "duration", "is missing")
	case !ok:
		return models.Event{}, fieldError(key, "duration", "is not numeric")
	case math.IsNaN(duration) || math.IsInf(duration, 0):
		return models.Event{}, fieldError(key, "duration", "is not finite")
	case duration < 0:
		return models.Event{}, fieldError(key, "duration", "is negative")
	}

	ledOn, err := flag(key, fields["led_on"])
	if err != nil {
		return models.Event{}, err
	}

	rawTS, present := fields["timestamp"]
	if !present || rawTS == nil {
		return models.Event{}, fieldError(key, "timestamp", "is missing")
	}
	ts, ok := rawTS.(string)
	if !ok {
		return models.Event{}, &MalformedTimestampError{Key: key, Value: fmt.Sprint(rawTS)}
	}
	timestamp, err := parseTimestamp(ts)
	if err != nil {
		return models.Event{}, &MalformedTimestampError{Key: key, Value: ts}
	}

	return models.Event{
		ID:        key,
		Unit:      unit,
		Location:  location,
		Duration:  duration,
		LEDOn:     ledOn,
		Timestamp: timestamp,
	}, nil
}

func categorical(key, field string, v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", fieldError(key, field, "is missing")
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return "", fieldError(key, field, "is empty")
		}
		return s, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fieldError(key, field, fmt.Sprintf("has unsupported type %T", v))
	}
}

func flag(key string, v any) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, fieldError(key, "led_on", "is missing")
	case bool:
		return val, nil
	case float64:
		switch val {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "0", "false":
			return false, nil
		case "1", "true":
			return true, nil
		}
	}
	return false, fieldError(key, "led_on", fmt.Sprintf("has unrecognised value %v", v))
}

// parseTimestamp returns a zone-free time; zoned inputs are converted to UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
