package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SeedWatcher watches a fixed set of files for changes.
type SeedWatcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	tracked   map[string]struct{}
	events    chan []FileEvent
	errors    chan error
	stopCh    chan struct{}
	mu        sync.RWMutex
	stopped   bool
}

// New creates a watcher for paths. Each path's directory is registered
// immediately, so changes made after New returns are not missed once Run
// starts.
func New(paths []string, opts Options) (*SeedWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &SeedWatcher{
		fsWatcher: fsw,
		debouncer: NewDebouncer(opts.DebounceWindow),
		tracked:   make(map[string]struct{}, len(paths)),
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run forwards file events until ctx is done or Stop is called.
func (w *SeedWatcher) Run(ctx context.Context) error {
	go w.forwardDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *SeedWatcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if _, ok := w.tracked[path]; !ok {
		return
	}

	var op Operation
	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		op = OpWrite
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = OpRemove
	default:
		return
	}

	slog.Debug("seed_file_event", slog.String("path", path), slog.String("op", op.String()))
	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

func (w *SeedWatcher) forwardDebounced(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emit(batch)
		}
	}
}

func (w *SeedWatcher) emit(batch []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return
	}
	select {
	case w.events <- batch:
	default:
		slog.Warn("event buffer full, dropping batch", slog.Int("batch_size", len(batch)))
	}
}

func (w *SeedWatcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns debounced batches of changes to tracked files.
// The channel is closed by Stop.
func (w *SeedWatcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watcher errors.
func (w *SeedWatcher) Errors() <-chan error {
	return w.errors
}

// Stop releases the watcher. Safe to call multiple times.
func (w *SeedWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()
	err := w.fsWatcher.Close()
	close(w.events)
	close(w.errors)
	return err
}
