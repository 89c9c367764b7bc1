package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ImportSummary is the outcome of a seed import.
type ImportSummary struct {
	Files    int           `json:"files"`
	Records  int           `json:"records"`
	Failed   int           `json:"failed"`
	Total    int           `json:"catalog_total"`
	Duration time.Duration `json:"duration"`
}

// ImportReporter prints per-file import progress. Seed files load in
// parallel, so every method is safe for concurrent use.
type ImportReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
	opts   Options
}

// NewImportReporter creates a reporter writing to out.
func NewImportReporter(out io.Writer, opts Options) *ImportReporter {
	return &ImportReporter{
		out:    out,
		styles: GetStyles(opts.NoColor),
		opts:   opts,
	}
}

// FileLoaded reports a parsed seed file.
func (r *ImportReporter) FileLoaded(path string, records int) {
	if r.opts.JSON {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, "%s %s (%d records)\n", r.styles.Success.Render("[LOAD]"), path, records)
}

// FileFailed reports a seed file that could not be parsed.
func (r *ImportReporter) FileFailed(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, "%s %s: %v\n", r.styles.Error.Render("ERROR:"), path, err)
}

// Complete prints the summary line.
func (r *ImportReporter) Complete(s ImportSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.JSON {
		return writeJSON(r.out, s)
	}

	_, _ = fmt.Fprintf(r.out, "Imported %d records from %d files in %s, catalog now holds %d",
		s.Records, s.Files, s.Duration.Round(time.Millisecond), s.Total)
	if s.Failed > 0 {
		_, _ = fmt.Fprintf(r.out, " (%s)", r.styles.Warning.Render(fmt.Sprintf("%d files failed", s.Failed)))
	}
	_, _ = fmt.Fprintln(r.out)
	return nil
}
