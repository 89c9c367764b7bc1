package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportReporter_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewImportReporter(&buf, plain)

	r.FileLoaded("books.yaml", 12)
	r.FileFailed("broken.yaml", errors.New("yaml: line 3: did not find expected key"))
	require.NoError(t, r.Complete(ImportSummary{Files: 1, Records: 12, Failed: 1, Total: 40, Duration: 1234 * time.Microsecond}))

	out := buf.String()
	assert.Contains(t, out, "[LOAD] books.yaml (12 records)\n")
	assert.Contains(t, out, "ERROR: broken.yaml: yaml: line 3")
	assert.Contains(t, out, "Imported 12 records from 1 files in 1ms, catalog now holds 40 (1 files failed)\n")
}

func TestImportReporter_JSONSkipsProgress(t *testing.T) {
	var buf bytes.Buffer
	r := NewImportReporter(&buf, Options{JSON: true})

	r.FileLoaded("books.yaml", 3)
	require.NoError(t, r.Complete(ImportSummary{Files: 1, Records: 3, Total: 3}))

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"records": 3`)
}

func TestImportReporter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	r := NewImportReporter(&buf, plain)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.FileLoaded(fmt.Sprintf("f%d.yaml", i), i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "[LOAD]"))
}
