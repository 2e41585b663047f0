// Package devices mirrors the per-unit LED toggles between the remote store
// and an operator session.
package devices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/store"
)

// Recorder persists toggle write attempts.
type Recorder interface {
	InsertToggleEvent(event *models.ToggleEvent) error
}

// Sync reads and writes toggle states under a device subtree.
type Sync struct {
	store store.Store
	audit Recorder
	path  string
}

// NewSync creates a Sync for toggles stored at path/<unit>. audit may be nil.
func NewSync(s store.Store, path string, audit Recorder) *Sync {
	return &Sync{store: s, path: path, audit: audit}
}

// GetState returns the cached state of unit, reading the store only on first
// access. An absent remote value is off. A write that lands while the read is
// in flight wins over the value read.
func (s *Sync) GetState(ctx context.Context, sess *Session, unit string) (bool, error) {
	if on, ok := sess.cached(unit); ok {
		return on, nil
	}

	var raw any
	if err := s.store.Get(ctx, store.Join(s.path, unit), &raw); err != nil {
		return false, &UnreachableError{Unit: unit, Op: "read", Err: err}
	}

	on, err := decodeState(raw)
	if err != nil {
		return false, &UnreachableError{Unit: unit, Op: "read", Err: err}
	}

	return sess.rememberRead(unit, on), nil
}

// SetDesiredState writes desired when it differs from the cached state.
// The cache is only updated after a successful write, so a failed write is
// retried on the next call.
func (s *Sync) SetDesiredState(ctx context.Context, sess *Session, unit string, desired bool) error {
	current, err := s.GetState(ctx, sess, unit)
	if err != nil {
		return err
	}
	if current == desired {
		return nil
	}

	writeErr := s.store.Set(ctx, store.Join(s.path, unit), desired)
	s.record(sess, unit, desired, writeErr)
	if writeErr != nil {
		logger.Warn("LED toggle write failed", "unit", unit, "desired", desired, "error", writeErr)
		return &UnreachableError{Unit: unit, Op: "write", Err: writeErr}
	}

	sess.remember(unit, desired)
	logger.Info("LED toggle written", "unit", unit, "desired", desired, "session", sess.ID())
	return nil
}

func (s *Sync) record(sess *Session, unit string, desired bool, writeErr error) {
	if s.audit == nil {
		return
	}

	event := &models.ToggleEvent{
		Timestamp: time.Now().UTC(),
		SessionID: sess.ID(),
		Unit:      unit,
		Desired:   desired,
		Success:   writeErr == nil,
	}
	if writeErr != nil {
		event.Error = writeErr.Error()
	}

	if err := s.audit.InsertToggleEvent(event); err != nil {
		logger.Error("failed to record toggle event", "unit", unit, "error", err)
	}
}

func decodeState(raw any) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case float64:
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(v) {
		case "0", "false":
			return false, nil
		case "1", "true":
			return true, nil
		}
	}
	return false, fmt.Errorf("unexpected toggle value %v", raw)
}
