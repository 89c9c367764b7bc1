package telemetry

import (
	"fmt"
	"time"
)

// LoadHistory builds a snapshot from persisted telemetry covering the last
// days calendar days up to now. Zero-result counts come from the bounded
// query log, so very old windows undercount them.
func LoadHistory(store QueryMetricsStore, days, topN int, now time.Time) (*QueryMetricsSnapshot, error) {
	if days <= 0 {
		days = 7
	}
	if topN <= 0 {
		topN = 10
	}

	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	from, to := since.Format("2006-01-02"), now.Format("2006-01-02")

	tiers, err := store.GetTierCounts(from, to)
	if err != nil {
		return nil, fmt.Errorf("load tier counts: %w", err)
	}
	terms, err := store.GetTopTerms(topN)
	if err != nil {
		return nil, fmt.Errorf("load top terms: %w", err)
	}
	zero, err := store.GetZeroResultQueries(ZeroResultLogSize)
	if err != nil {
		return nil, fmt.Errorf("load zero-result queries: %w", err)
	}
	latencies, err := store.GetLatencyCounts(from, to)
	if err != nil {
		return nil, fmt.Errorf("load latency counts: %w", err)
	}
	log, err := store.RecentQueries(QueryLogSize)
	if err != nil {
		return nil, fmt.Errorf("load query log: %w", err)
	}

	snap := &QueryMetricsSnapshot{
		TierCounts:          tiers,
		TopTerms:            terms,
		ZeroResultQueries:   zero,
		LatencyDistribution: latencies,
		Since:               since,
	}
	for _, n := range tiers {
		snap.TotalQueries += n
	}

	seen := make(map[string]struct{}, len(log))
	for _, e := range log {
		if e.Timestamp.Before(since) {
			continue
		}
		if e.ResultCount == 0 {
			snap.ZeroResultCount++
		}
		key := hashQuery(e.Query)
		if _, ok := seen[key]; ok {
			snap.ExactRepeatCount++
		}
		seen[key] = struct{}{}
	}
	return snap, nil
}
