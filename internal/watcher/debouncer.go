package watcher

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces rapid events per path. The last operation wins, so a
// save done as remove-then-create is reported as a single write.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]FileEvent
	output  chan []FileEvent
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer that emits after window of quiet.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]FileEvent),
		output:  make(chan []FileEvent, 10),
	}
}

// Add queues an event and restarts the quiet window.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[event.Path] = event

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush emits pending events sorted by path.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	events := make([]FileEvent, 0, len(d.pending))
	for _, ev := range d.pending {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	d.pending = make(map[string]FileEvent)

	select {
	case d.output <- events:
	default:
		slog.Warn("debouncer output full, dropping batch", slog.Int("batch_size", len(events)))
	}
}

// Output returns the channel of debounced batches.
func (d *Debouncer) Output() <-chan []FileEvent {
	return d.output
}

// Stop discards pending events and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
