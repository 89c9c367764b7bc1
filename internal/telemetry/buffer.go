package telemetry

import "sync"

// CircularBuffer is a fixed-capacity FIFO buffer.
type CircularBuffer[T any] struct {
	items    []T
	head     int // next write position
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewCircularBuffer creates a new circular buffer with the given capacity.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &CircularBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends item. When the buffer is full the oldest item is evicted and
// returned with ok set.
func (b *CircularBuffer[T]) Add(item T) (evicted T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == b.capacity {
		evicted, ok = b.items[b.head], true
	}
	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
	return evicted, ok
}

// Items returns all items in FIFO order (oldest first).
func (b *CircularBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return []T{}
	}

	result := make([]T, b.size)
	if b.size < b.capacity {
		copy(result, b.items[:b.size])
	} else {
		// full: oldest item is at head
		n := copy(result, b.items[b.head:])
		copy(result[n:], b.items[:b.head])
	}
	return result
}

// Size returns the current number of items in the buffer.
func (b *CircularBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the maximum number of items.
func (b *CircularBuffer[T]) Capacity() int {
	return b.capacity
}

// Clear removes all items from the buffer.
func (b *CircularBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head = 0
	b.size = 0
}
