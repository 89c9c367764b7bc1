package logging

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the shelfsearch data directory.
const DataDirEnv = "SHELFSEARCH_HOME"

// DefaultDataDir returns the per-user data directory (~/.shelfsearch).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".shelfsearch")
	}
	return filepath.Join(home, ".shelfsearch")
}

// DefaultLogDir returns the log directory (~/.shelfsearch/logs).
func DefaultLogDir() string {
	return filepath.Join(DefaultDataDir(), "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "shelfsearch.log")
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}
