package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log file. Empty means stderr only.
	FilePath string
	// MaxSizeMB is the maximum size in MB before rotation (default: 10).
	MaxSizeMB int
	// MaxFiles is the maximum number of rotated files to keep (default: 5).
	MaxFiles int
	// WriteToStderr whether to also write to stderr.
	WriteToStderr bool
}

// DefaultConfig returns the CLI logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}
}

// DebugConfig returns configuration for --debug runs.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.WriteToStderr = true
	return cfg
}

// ServerConfig returns file-only logging for the stdio MCP server.
func ServerConfig(level string) Config {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.WriteToStderr = false
	return cfg
}

// Setup builds a JSON slog logger and returns it with a cleanup function
// that flushes and closes the log file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	var (
		output  io.Writer = os.Stderr
		cleanup           = func() {}
	)

	if cfg.FilePath != "" {
		writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		output = writer
		if cfg.WriteToStderr {
			output = io.MultiWriter(writer, os.Stderr)
		}
		cleanup = func() {
			_ = writer.Sync()
			_ = writer.Close()
		}
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return slog.New(handler), cleanup, nil
}

// Discard returns a logger that drops everything. Used as the zero-value
// logger by components constructed without one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString converts string level to slog.Level.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
