package watcher

import "time"

// Operation is the kind of change seen on a seed file.
type Operation int

const (
	// OpWrite means the file was created, written or renamed into place.
	OpWrite Operation = iota
	// OpRemove means the file was deleted or renamed away.
	OpRemove
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a change to one tracked file.
type FileEvent struct {
	// Path is the absolute path of the tracked file.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures the watcher.
type Options struct {
	// DebounceWindow is how long a path must stay quiet before its change
	// is emitted. Default: 200ms
	DebounceWindow time.Duration

	// EventBufferSize is the size of the batch channel. Default: 16
	EventBufferSize int
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  200 * time.Millisecond,
		EventBufferSize: 16,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	return o
}
