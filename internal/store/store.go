// Package store provides access to the remote hierarchical database that
// holds handwashing events and LED toggle states.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTimeout is returned when a remote call exceeds its deadline.
var ErrTimeout = errors.New("remote store timeout")

// Store reads and writes JSON values by slash separated path.
// Get decodes the value at path into v; an absent path decodes as JSON null
// and leaves v untouched, which is not an error.
type Store interface {
	Get(ctx context.Context, path string, v any) error
	Set(ctx context.Context, path string, v any) error
}

// EventType defines the type of store event.
type EventType int

const (
	// EventChanged is sent when the backing data changed outside this process.
	EventChanged EventType = iota
	// EventError is sent when change detection failed.
	EventError
)

// Event represents a store change notification.
type Event struct {
	Type  EventType
	Error error
}

// Watcher is implemented by stores that report external modifications.
type Watcher interface {
	Events() <-chan Event
}

// Join builds a store path from segments, dropping empty ones.
func Join(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, splitPath(part)...)
	}
	return strings.Join(segments, "/")
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// WithTimeout bounds every call on s by d.
func WithTimeout(s Store, d time.Duration) Store {
	return &timeoutStore{next: s, timeout: d}
}

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

func (t *timeoutStore) Get(ctx context.Context, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.wrap(ctx, t.next.Get(ctx, path, v))
}

func (t *timeoutStore) Set(ctx context.Context, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.wrap(ctx, t.next.Set(ctx, path, v))
}

func (t *timeoutStore) wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)
	}
	return err
}
