package ui

import (
	"fmt"
	"io"

	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
)

// StatsInfo is what `shelfsearch stats` prints.
type StatsInfo struct {
	CatalogPath string                          `json:"catalog_path"`
	Backend     string                          `json:"backend"`
	RecordCount int                             `json:"record_count"`
	Days        int                             `json:"days"`
	Queries     *telemetry.QueryMetricsSnapshot `json:"queries,omitempty"`
}

var latencyLabels = map[telemetry.LatencyBucket]string{
	telemetry.BucketP10:   "<10ms",
	telemetry.BucketP50:   "10-50ms",
	telemetry.BucketP100:  "50-100ms",
	telemetry.BucketP500:  "100-500ms",
	telemetry.BucketP1000: ">=500ms",
}

// StatsRenderer displays catalog and query statistics.
type StatsRenderer struct {
	out    io.Writer
	styles Styles
	opts   Options
}

// NewStatsRenderer creates a stats renderer.
func NewStatsRenderer(out io.Writer, opts Options) *StatsRenderer {
	return &StatsRenderer{
		out:    out,
		styles: GetStyles(opts.NoColor),
		opts:   opts,
	}
}

// Render prints info.
func (r *StatsRenderer) Render(info StatsInfo) error {
	if r.opts.JSON {
		return writeJSON(r.out, info)
	}

	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Catalog"))
	_, _ = fmt.Fprintf(r.out, "  Path:     %s\n", info.CatalogPath)
	_, _ = fmt.Fprintf(r.out, "  Backend:  %s\n", info.Backend)
	_, _ = fmt.Fprintf(r.out, "  Records:  %d\n", info.RecordCount)
	_, _ = fmt.Fprintln(r.out)

	q := info.Queries
	if q == nil {
		_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render("  Query telemetry is disabled."))
		return nil
	}

	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render(fmt.Sprintf("Queries (last %d days)", info.Days)))
	_, _ = fmt.Fprintf(r.out, "  Total:        %d\n", q.TotalQueries)
	if q.TotalQueries == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(r.out, "  Indexed:      %d\n", q.TierCounts[telemetry.TierIndexed])
	_, _ = fmt.Fprintf(r.out, "  Fuzzy:        %d (%.0f%% escalated)\n", q.TierCounts[telemetry.TierFuzzy], q.EscalationRate()*100)
	_, _ = fmt.Fprintf(r.out, "  Zero results: %s\n", r.zeroRate(q.ZeroResultPercentage()))
	_, _ = fmt.Fprintf(r.out, "  Repeats:      %d\n", q.ExactRepeatCount)
	_, _ = fmt.Fprintln(r.out)

	if len(q.TopTerms) > 0 {
		_, _ = fmt.Fprintln(r.out, "  Top terms:")
		peak := q.TopTerms[0].Count
		for _, tc := range q.TopTerms {
			_, _ = fmt.Fprintf(r.out, "    %-20s %5d %s\n", tc.Term, tc.Count, r.styles.Accent.Render(Bar(tc.Count, peak, 20)))
		}
		_, _ = fmt.Fprintln(r.out)
	}

	counts := make([]int64, len(telemetry.AllBuckets))
	for i, b := range telemetry.AllBuckets {
		counts[i] = q.LatencyDistribution[b]
	}
	_, _ = fmt.Fprintf(r.out, "  Latency: %s\n", r.styles.Accent.Render(Sparkline(counts)))
	for i, b := range telemetry.AllBuckets {
		_, _ = fmt.Fprintf(r.out, "    %-10s %d\n", latencyLabels[b], counts[i])
	}

	if len(q.ZeroResultQueries) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, "  Recent zero-result queries:")
		for _, z := range q.ZeroResultQueries[:min(len(q.ZeroResultQueries), 10)] {
			_, _ = fmt.Fprintf(r.out, "    %s\n", r.styles.Warning.Render(z))
		}
	}
	return nil
}

func (r *StatsRenderer) zeroRate(pct float64) string {
	s := fmt.Sprintf("%.1f%%", pct)
	switch {
	case pct >= 25:
		return r.styles.Error.Render(s)
	case pct >= 10:
		return r.styles.Warning.Render(s)
	default:
		return r.styles.Success.Render(s)
	}
}
