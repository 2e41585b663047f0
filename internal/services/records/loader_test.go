package records

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// fakeStore serves a JSON document the way the database client decodes it.
type fakeStore struct {
	doc   string
	err   error
	reads int
}

func (s *fakeStore) Get(_ context.Context, _ string, v any) error {
	s.reads++
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.doc), v)
}

func (s *fakeStore) Set(context.Context, string, any) error {
	return errors.New("read only")
}

func load(t *testing.T, doc string) ([]models.Event, error) {
	t.Helper()
	return NewLoader(&fakeStore{doc: doc}, "handwashing").Load(context.Background())
}

func TestLoad(t *testing.T) {
	events, err := load(t, `{
		"-Nb": {"unit": 2, "location": "sink-b", "duration": 20, "led_on": 0, "timestamp": "2024-03-01 10:05:00"},
		"-Na": {"unit": "1", "location": 4, "duration": 10.5, "led_on": true, "timestamp": "2024-03-01T09:00:00Z"},
		"-Nc": {"unit": 1.0, "location": "sink-a", "duration": 0, "led_on": "false", "timestamp": "2024-03-02"}
	}`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	wantIDs := []string{"-Na", "-Nb", "-Nc"}
	for i, id := range wantIDs {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %q, want %q", i, events[i].ID, id)
		}
	}

	first := events[0]
	if first.Unit != "1" || first.Location != "4" || first.Duration != 10.5 || !first.LEDOn {
		t.Errorf("unexpected first event: %+v", first)
	}
	if !first.Timestamp.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("first.Timestamp = %v", first.Timestamp)
	}

	if events[1].Unit != "2" || events[1].LEDOn {
		t.Errorf("unexpected second event: %+v", events[1])
	}
	if events[2].Unit != "1" {
		t.Errorf("1.0 should normalise to \"1\", got %q", events[2].Unit)
	}
}

func TestLoad_ArrayCollection(t *testing.T) {
	events, err := load(t, `[null,
		{"unit": 1, "location": "a", "duration": 3, "led_on": 1, "timestamp": "2024-01-01 08:00"}
	]`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "1" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestLoad_DataUnavailable(t *testing.T) {
	valid := `"unit": 1, "location": "a", "duration": 3, "led_on": 1, "timestamp": "2024-01-01"`

	tests := []struct {
		name string
		doc  string
	}{
		{"Absent", `null`},
		{"Empty", `{}`},
		{"Scalar", `true`},
		{"EntryNotObject", `{"-a": 5}`},
		{"MissingUnit", `{"-a": {"location": "a", "duration": 3, "led_on": 1, "timestamp": "2024-01-01"}}`},
		{"MissingLocation", `{"-a": {"unit": 1, "duration": 3, "led_on": 1, "timestamp": "2024-01-01"}}`},
		{"MissingDuration", `{"-a": {"unit": 1, "location": "a", "led_on": 1, "timestamp": "2024-01-01"}}`},
		{"TextDuration", `{"-a": {"unit": 1, "location": "a", "duration": "3", "led_on": 1, "timestamp": "2024-01-01"}}`},
		{"NegativeDuration", `{"-a": {"unit": 1, "location": "a", "duration": -1, "led_on": 1, "timestamp": "2024-01-01"}}`},
		{"MissingLED", `{"-a": {"unit": 1, "location": "a", "duration": 3, "timestamp": "2024-01-01"}}`},
		{"BadLED", `{"-a": {"unit": 1, "location": "a", "duration": 3, "led_on": 2, "timestamp": "2024-01-01"}}`},
		{"MissingTimestamp", `{"-a": {"unit": 1, "location": "a", "duration": 3, "led_on": 1}}`},
		{"OneBadEntry", `{"-a": {` + valid + `}, "-b": {"unit": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.doc)
			if !errors.Is(err, ErrDataUnavailable) {
				t.Errorf("Load() error = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

func TestParseEntry_DurationReason(t *testing.T) {
	entry := func(d float64) map[string]any {
		return map[string]any{"unit": 1.0, "location": "a", "duration": d, "led_on": true, "timestamp": "2024-01-01"}
	}

	tests := []struct {
		name     string
		duration float64
		reason   string
	}{
		{"Negative", -1, "duration is negative"},
		{"NaN", math.NaN(), "duration is not finite"},
		{"PosInf", math.Inf(1), "duration is not finite"},
		{"NegInf", math.Inf(-1), "duration is not finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEntry("-a", entry(tt.duration))
			if !errors.Is(err, ErrDataUnavailable) {
				t.Fatalf("parseEntry() error = %v, want ErrDataUnavailable", err)
			}
			if !strings.HasSuffix(err.Error(), tt.reason) {
				t.Errorf("parseEntry() error = %q, want reason %q", err, tt.reason)
			}
		})
	}
}

func TestLoad_StoreFailure(t *testing.T) {
	cause := errors.New("deadline exceeded")
	_, err := NewLoader(&fakeStore{err: cause}, "handwashing").Load(context.Background())
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, cause) {
		t.Errorf("Load() error = %v, want ErrDataUnavailable wrapping cause", err)
	}
}

func TestLoad_MalformedTimestampAbortsBatch(t *testing.T) {
	_, err := load(t, `{
		"-a": {"unit": 1, "location": "a", "duration": 3, "led_on": 1, "timestamp": "2024-01-01"},
		"-b": {"unit": 1, "location": "a", "duration": 3, "led_on": 1, "timestamp": "yesterday"}
	}`)

	var tsErr *MalformedTimestampError
	if !errors.As(err, &tsErr) {
		t.Fatalf("Load() error = %v, want MalformedTimestampError", err)
	}
	if tsErr.Key != "-b" || tsErr.Value != "yesterday" {
		t.Errorf("unexpected error detail: %+v", tsErr)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T09:00:00Z", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-03-01T09:00:00+02:00", time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)},
		{"2024-03-01 09:00:00.250", time.Date(2024, 3, 1, 9, 0, 0, 250e6, time.UTC)},
		{"2024-03-01T09:00:00", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-03-01 09:30", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{" 2024-03-01 ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("parseTimestamp() failed: %v", err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("parseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "01/03/2024", "2024-13-01"} {
		if _, err := parseTimestamp(bad); err == nil {
			t.Errorf("parseTimestamp(%q) should fail", bad)
		}
	}
}
