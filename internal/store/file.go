package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
)

// File is a Store backed by a Realtime Database JSON export on disk.
// External edits to the file are picked up and reported on Events.
type File struct {
	mu            sync.Mutex
	root          any
	path          string
	lastWritten   []byte
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// OpenFile loads the export at path, creating an empty one when missing,
// and starts watching it for changes.
func OpenFile(path string) (*File, error) {
	f := &File{
		path:      path,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := f.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load store file: %w", err)
		}
		if err := f.save(); err != nil {
			return nil, fmt.Errorf("failed to create store file: %w", err)
		}
	}

	if err := f.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return f, nil
}

// Events returns the change notification channel.
func (f *File) Events() <-chan Event {
	return f.eventChan
}

// Get decodes the node at path into v.
func (f *File) Get(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	node := lookup(f.root, splitPath(path))
	data, err := json.Marshal(node)
	f.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode node %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode node %s: %w", path, err)
	}
	return nil
}

// Set replaces the node at path with v and rewrites the file.
// A nil v removes the node.
func (f *File) Set(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := normalize(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.root
	f.root = assign(f.root, splitPath(path), value)
	if err := f.saveLocked(); err != nil {
		f.root = previous
		return err
	}
	return nil
}

func (f *File) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked()
}

func (f *File) loadLocked() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	root, err := decode(data)
	if err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", f.path, err)
	}

	f.root = root
	return nil
}

func (f *File) save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked()
}

// saveLocked writes the tree to disk (must hold lock).
func (f *File) saveLocked() error {
	root := f.root
	if root == nil {
		root = map[string]any{}
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmpFile := f.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, f.path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	f.lastWritten = data
	return nil
}

func (f *File) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	f.watcher = watcher

	// The directory is watched so atomic replacements are seen.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go f.watchLoop()
	return nil
}

func (f *File) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			f.mu.Lock()
			if f.debounceTimer != nil {
				f.debounceTimer.Stop()
			}
			f.debounceTimer = time.AfterFunc(debounceInterval, f.handleFileChange)
			f.mu.Unlock()

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.sendEvent(Event{Type: EventError, Error: err})

		case <-f.stopChan:
			return
		}
	}
}

// handleFileChange reloads the tree unless the change is our own write.
func (f *File) handleFileChange() {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.mu.Unlock()
		f.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if bytes.Equal(data, f.lastWritten) {
		f.mu.Unlock()
		return
	}
	root, err := decode(data)
	if err != nil {
		f.mu.Unlock()
		f.sendEvent(Event{Type: EventError, Error: fmt.Errorf("invalid JSON in %s: %w", f.path, err)})
		return
	}
	f.root = root
	f.lastWritten = data
	f.mu.Unlock()

	logger.Debug("store file changed", "path", f.path)
	f.sendEvent(Event{Type: EventChanged})
}

// sendEvent never blocks; the oldest pending event is dropped when full.
func (f *File) sendEvent(event Event) {
	select {
	case f.eventChan <- event:
	default:
		select {
		case <-f.eventChan:
		default:
		}
		select {
		case f.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (f *File) Close() error {
	close(f.stopChan)

	f.mu.Lock()
	if f.debounceTimer != nil {
		f.debounceTimer.Stop()
	}
	f.mu.Unlock()

	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}

func decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return root, nil
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func lookup(node any, segments []string) any {
	for _, seg := range segments {
		switch n := node.(type) {
		case map[string]any:
			node = n[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(n) {
				return nil
			}
			node = n[i]
		default:
			return nil
		}
	}
	return node
}

// assign returns node with value placed at segments. Objects along the
// path are copied, so node itself is left untouched. Empty objects are
// pruned, mirroring how the Realtime Database stores no empty nodes.
func assign(node any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}

	m := asObject(node)
	child := assign(m[segments[0]], segments[1:], value)
	if child == nil {
		delete(m, segments[0])
	} else {
		m[segments[0]] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func asObject(node any) map[string]any {
	switch n := node.(type) {
	case map[string]any:
		return maps.Clone(n)
	case []any:
		m := make(map[string]any, len(n))
		for i, v := range n {
			if v != nil {
				m[strconv.Itoa(i)] = v
			}
		}
		return m
	default:
		return map[string]any{}
	}
}

var _ Store = (*File)(nil)
var _ Watcher = (*File)(nil)
