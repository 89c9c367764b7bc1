// Package ui renders search results, suggestions and statistics for the
// terminal. Styled output is used on interactive terminals; pipes, CI and
// NO_COLOR get plain text.
package ui

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Options controls how output is rendered.
type Options struct {
	NoColor bool
	JSON    bool
}

// Option modifies Options.
type Option func(*Options)

// WithNoColor disables color output.
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithJSON switches renderers to JSON output.
func WithJSON(enabled bool) Option {
	return func(o *Options) {
		o.JSON = enabled
	}
}

// NewOptions resolves options for out. Color is dropped when out is not a
// terminal, when NO_COLOR is set, or in CI.
func NewOptions(out io.Writer, opts ...Option) Options {
	o := Options{
		NoColor: !IsTTY(out) || DetectNoColor() || DetectCI(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
