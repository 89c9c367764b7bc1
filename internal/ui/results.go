package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Aman-CERP/shelfsearch/internal/store"
)

// ResultItem is the JSON form of one search hit.
type ResultItem struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Notes     string `json:"notes,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SearchReport is what `shelfsearch search` prints.
type SearchReport struct {
	Query   string       `json:"query"`
	Tier    string       `json:"tier"`
	Elapsed string       `json:"elapsed"`
	Results []ResultItem `json:"results"`
	Warning string       `json:"warning,omitempty"`
}

// NewSearchReport builds a report from engine output.
func NewSearchReport(query, tier string, elapsed time.Duration, records []store.Record) SearchReport {
	rep := SearchReport{
		Query:   query,
		Tier:    tier,
		Elapsed: elapsed.Round(time.Microsecond).String(),
		Results: make([]ResultItem, 0, len(records)),
	}
	for _, r := range records {
		item := ResultItem{
			ID:        r.ID,
			Kind:      string(r.Kind),
			Name:      r.Name,
			Author:    r.Author.OrEmpty(),
			Publisher: r.Publisher.OrEmpty(),
			Notes:     r.Notes.OrEmpty(),
		}
		if !r.UpdatedAt.IsZero() {
			item.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
		}
		rep.Results = append(rep.Results, item)
	}
	return rep
}

// ResultRenderer prints search results and suggestions.
type ResultRenderer struct {
	out    io.Writer
	styles Styles
	opts   Options
	now    func() time.Time
}

// NewResultRenderer creates a result renderer.
func NewResultRenderer(out io.Writer, opts Options) *ResultRenderer {
	return &ResultRenderer{
		out:    out,
		styles: GetStyles(opts.NoColor),
		opts:   opts,
		now:    time.Now,
	}
}

// RenderSearch prints a search report.
func (r *ResultRenderer) RenderSearch(rep SearchReport) error {
	if r.opts.JSON {
		return writeJSON(r.out, rep)
	}

	if rep.Warning != "" {
		_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Warning.Render(rep.Warning))
	}

	if len(rep.Results) == 0 {
		_, _ = fmt.Fprintf(r.out, "No results for %q\n", rep.Query)
		return nil
	}

	noun := "results"
	if len(rep.Results) == 1 {
		noun = "result"
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n\n",
		r.styles.Header.Render(fmt.Sprintf("%d %s for %q", len(rep.Results), noun, rep.Query)),
		r.styles.Dim.Render(fmt.Sprintf("(%s, %s)", rep.Tier, rep.Elapsed)))

	width := len(fmt.Sprint(len(rep.Results)))
	for i, item := range rep.Results {
		r.renderItem(i+1, width, item)
	}
	return nil
}

func (r *ResultRenderer) renderItem(n, width int, item ResultItem) {
	_, _ = fmt.Fprintf(r.out, "%*d. %s %s\n", width, n,
		r.styles.Title.Render(item.Name),
		r.styles.Meta.Render("["+item.Kind+"]"))

	indent := strings.Repeat(" ", width+2)
	line := func(label, value string) {
		if value == "" {
			return
		}
		_, _ = fmt.Fprintf(r.out, "%s%s %s\n", indent, r.styles.Label.Render(label), value)
	}
	line("by", item.Author)
	line("publisher", item.Publisher)
	line("notes", item.Notes)

	meta := "id " + item.ID
	if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		meta += ", updated " + relativeTime(r.now(), t)
	}
	_, _ = fmt.Fprintf(r.out, "%s%s\n", indent, r.styles.Dim.Render(meta))
}

// RenderSuggestions prints query suggestions, one per line.
func (r *ResultRenderer) RenderSuggestions(partial string, suggestions []string) error {
	if r.opts.JSON {
		return writeJSON(r.out, struct {
			Partial     string   `json:"partial"`
			Suggestions []string `json:"suggestions"`
		}{partial, suggestions})
	}

	if len(suggestions) == 0 {
		_, _ = fmt.Fprintf(r.out, "No suggestions for %q\n", partial)
		return nil
	}
	for _, s := range suggestions {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.Accent.Render(">"), s)
	}
	return nil
}

// relativeTime formats t relative to now.
func relativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return t.Local().Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
