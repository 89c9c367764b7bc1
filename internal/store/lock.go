package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock is a cross-process lock held while bulk-importing into a catalog,
// so two imports never interleave their transactions.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock for the catalog at catalogPath.
// The lock file is <catalogPath>.lock.
func NewFileLock(catalogPath string) *FileLock {
	lockPath := catalogPath + ".lock"
	return &FileLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

func (l *FileLock) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	return nil
}

// Lock blocks until the lock is acquired.
func (l *FileLock) Lock() error {
	if err := l.ensureDir(); err != nil {
		return err
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if another process holds it.
func (l *FileLock) TryLock() (bool, error) {
	if err := l.ensureDir(); err != nil {
		return false, err
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call when not locked.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string { return l.path }

// IsLocked reports whether this FileLock holds the lock.
func (l *FileLock) IsLocked() bool { return l.locked }
