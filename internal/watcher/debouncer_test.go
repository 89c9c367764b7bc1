package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []FileEvent, wait time.Duration) []FileEvent {
	t.Helper()
	select {
	case batch, ok := <-ch:
		require.True(t, ok, "channel closed")
		return batch
	case <-time.After(wait):
		t.Fatal("timeout waiting for batch")
		return nil
	}
}

func TestDebouncer_SingleEventPassesThrough(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/seed/books.yaml", Operation: OpWrite})

	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, "/seed/books.yaml", batch[0].Path)
	assert.Equal(t, OpWrite, batch[0].Operation)
}

func TestDebouncer_RapidEventsCoalesce(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	for range 5 {
		d.Add(FileEvent{Path: "/seed/books.yaml", Operation: OpWrite})
		time.Sleep(5 * time.Millisecond)
	}

	batch := receive(t, d.Output(), time.Second)
	assert.Len(t, batch, 1)
}

func TestDebouncer_LastOperationWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/seed/books.yaml", Operation: OpRemove})
	d.Add(FileEvent{Path: "/seed/books.yaml", Operation: OpWrite})

	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, OpWrite, batch[0].Operation)
}

func TestDebouncer_BatchSortedByPath(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/seed/orders.yaml", Operation: OpWrite})
	d.Add(FileEvent{Path: "/seed/books.yaml", Operation: OpWrite})

	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 2)
	assert.Equal(t, "/seed/books.yaml", batch[0].Path)
	assert.Equal(t, "/seed/orders.yaml", batch[1].Path)
}

func TestDebouncer_StopIsIdempotent(t *testing.T) {
	d := NewDebouncer(time.Hour)
	d.Add(FileEvent{Path: "/seed/books.yaml"})

	d.Stop()
	d.Stop()
	d.Add(FileEvent{Path: "/seed/books.yaml"})

	_, ok := <-d.Output()
	assert.False(t, ok)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "WRITE", OpWrite.String())
	assert.Equal(t, "REMOVE", OpRemove.String())
	assert.Equal(t, "UNKNOWN", Operation(9).String())
}
