package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// RotatingWriter is an io.Writer that rolls the file over once it would
// exceed maxSize. Rotated files are named path.1 (newest) to path.N.
type RotatingWriter struct {
	path     string
	maxSize  int64
	maxFiles int

	mu       sync.Mutex
	file     *os.File
	written  int64
	syncEach bool
}

// NewRotatingWriter creates a new rotating log writer.
// A maxSizeMB of 0 rotates before every write.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:     path,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
		syncEach: true,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

// SetSyncEachWrite toggles fsync after every write. On by default so
// `tail -f` sees search events as they happen.
func (w *RotatingWriter) SetSyncEachWrite(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncEach = enabled
}

// Write implements io.Writer with automatic rotation.
func (w *RotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			// keep writing to whatever file is open
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.written += int64(n)
	if w.syncEach && err == nil {
		_ = w.file.Sync()
	}
	return n, err
}

// Close closes the underlying file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Sync flushes the file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

func (w *RotatingWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	w.file = f
	w.written = info.Size()
	return nil
}

// rotatedSibling is an existing path.N file.
type rotatedSibling struct {
	path string
	num  int
}

// siblings lists rotated files, highest number first.
func (w *RotatingWriter) siblings() ([]rotatedSibling, error) {
	base := filepath.Base(w.path)
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(w.path), base+".*"))
	if err != nil {
		return nil, fmt.Errorf("failed to find rotated files: %w", err)
	}

	var out []rotatedSibling
	for _, m := range matches {
		num, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(m), base+"."))
		if err != nil {
			continue
		}
		out = append(out, rotatedSibling{path: m, num: num})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].num > out[j].num })
	return out, nil
}

// rotate shifts path -> path.1 -> path.2 ... and drops anything past maxFiles.
func (w *RotatingWriter) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		w.file = nil
	}

	files, err := w.siblings()
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.num >= w.maxFiles {
			_ = os.Remove(f.path)
			continue
		}
		_ = os.Rename(f.path, fmt.Sprintf("%s.%d", w.path, f.num+1))
	}

	if w.maxFiles > 0 {
		if _, err := os.Stat(w.path); err == nil {
			if err := os.Rename(w.path, w.path+".1"); err != nil {
				return fmt.Errorf("failed to rotate log file: %w", err)
			}
		}
	} else {
		_ = os.Remove(w.path)
	}

	w.written = 0
	return w.openFile()
}
