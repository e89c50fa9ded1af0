package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/commons-systems/pomo/internal/debug"
)

// Editors replace files rather than writing in place, so consecutive
// create/write events for one save are common. Events inside this window
// are coalesced.
const reloadDebounce = 100 * time.Millisecond

// Event carries a freshly loaded config, or the error that prevented
// loading it.
type Event struct {
	Config Config
	Err    error
}

// Watcher reloads the config file whenever it changes on disk. The parent
// directory is watched, not the file itself, so replace-style saves and
// late file creation are both seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan Event
	done    chan struct{}
	mu      sync.Mutex
	started bool
	closed  bool
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	return &Watcher{
		watcher: fw,
		path:    path,
		events:  make(chan Event, 4),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching and returns the event channel. Subsequent calls
// return the same channel.
func (w *Watcher) Start() <-chan Event {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return w.events
	}
	w.started = true
	w.mu.Unlock()

	go w.watch()
	return w.events
}

func (w *Watcher) watch() {
	defer close(w.events)

	var lastReload time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastReload) < reloadDebounce {
				continue
			}
			lastReload = time.Now()

			debug.Log("CONFIG_RELOAD path=%s op=%s", w.path, event.Op)
			cfg, err := Load(w.path)

			select {
			case w.events <- Event{Config: cfg, Err: err}:
			case <-w.done:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.events <- Event{Err: err}:
			case <-w.done:
				return
			}
		}
	}
}

// Close stops the watcher and releases resources. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	close(w.done)
	return w.watcher.Close()
}
