// Package telemetry records how searches behave: which retrieval tier served
// them, what people search for, which queries find nothing, and how long
// they take. Everything is stored locally in the catalog database.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// =============================================================================
// Tiers
// =============================================================================

// Tier is the retrieval path that produced a search's results.
type Tier string

const (
	// TierIndexed means the cheap substring lookup returned enough hits.
	TierIndexed Tier = "indexed"
	// TierFuzzy means the search escalated to a full fuzzy scan.
	TierFuzzy Tier = "fuzzy"
	// TierEmpty means the query normalized to nothing.
	TierEmpty Tier = "empty"
)

// =============================================================================
// Latency Buckets
// =============================================================================

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// AllBuckets lists buckets from fastest to slowest.
var AllBuckets = []LatencyBucket{BucketP10, BucketP50, BucketP100, BucketP500, BucketP1000}

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// =============================================================================
// Events
// =============================================================================

// QueryEvent is one completed search.
type QueryEvent struct {
	Query       string // normalized
	Tier        Tier
	ResultCount int
	Latency     time.Duration
	Timestamp   time.Time
}

// IsZeroResult returns true if this query returned no results.
func (e QueryEvent) IsZeroResult() bool {
	return e.ResultCount == 0
}

// LogEntry is a persisted query log row.
type LogEntry struct {
	Seq         int64
	Query       string
	Tier        Tier
	ResultCount int
	Timestamp   time.Time
}

// ExtractTerms splits a query into terms worth counting: lowercased words of
// at least three characters.
func ExtractTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

// TermCount represents a term and its frequency count.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// =============================================================================
// Snapshot
// =============================================================================

// QueryMetricsSnapshot is an immutable copy of the in-process counters.
type QueryMetricsSnapshot struct {
	TierCounts          map[Tier]int64          `json:"tier_counts"`
	TopTerms            []TermCount             `json:"top_terms"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	TotalQueries        int64                   `json:"total_queries"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	ExactRepeatCount    int64                   `json:"exact_repeat_count"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the percentage of zero-result queries.
func (s *QueryMetricsSnapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// EscalationRate is the share of non-empty searches that needed the fuzzy scan.
func (s *QueryMetricsSnapshot) EscalationRate() float64 {
	served := s.TierCounts[TierIndexed] + s.TierCounts[TierFuzzy]
	if served == 0 {
		return 0
	}
	return float64(s.TierCounts[TierFuzzy]) / float64(served)
}

// =============================================================================
// Store
// =============================================================================

// QueryMetricsStore persists query metrics.
type QueryMetricsStore interface {
	// SaveTierCounts adds to the daily per-tier counts.
	SaveTierCounts(date string, counts map[Tier]int64) error

	// GetTierCounts sums tier counts over an inclusive date range.
	GetTierCounts(from, to string) (map[Tier]int64, error)

	// UpsertTermCounts adds to term frequency counts.
	UpsertTermCounts(terms map[string]int64) error

	// GetTopTerms retrieves the top N terms by frequency.
	GetTopTerms(limit int) ([]TermCount, error)

	// AddZeroResultQuery appends to the bounded zero-result log.
	AddZeroResultQuery(query string, timestamp time.Time) error

	// GetZeroResultQueries retrieves recent zero-result queries, newest first.
	GetZeroResultQueries(limit int) ([]string, error)

	// SaveLatencyCounts adds to the daily latency histogram.
	SaveLatencyCounts(date string, counts map[LatencyBucket]int64) error

	// GetLatencyCounts sums the latency histogram over a date range.
	GetLatencyCounts(from, to string) (map[LatencyBucket]int64, error)

	// AppendQueryLog appends completed searches to the bounded query log.
	AppendQueryLog(events []QueryEvent) error

	// RecentQueries returns up to limit logged queries, oldest first.
	RecentQueries(limit int) ([]LogEntry, error)

	// Close releases resources.
	Close() error
}

// =============================================================================
// Collector
// =============================================================================

// QueryMetricsConfig configures the query metrics collector.
type QueryMetricsConfig struct {
	TopTermsCapacity      int           // distinct terms tracked (default: 100)
	ZeroResultsCapacity   int           // zero-result queries kept (default: 100)
	RecentQueriesCapacity int           // query hashes kept for repeat detection (default: 500)
	FlushInterval         time.Duration // 0 disables the background flush
	Logger                *slog.Logger
}

// DefaultQueryMetricsConfig returns sensible defaults.
func DefaultQueryMetricsConfig() QueryMetricsConfig {
	return QueryMetricsConfig{
		TopTermsCapacity:      100,
		ZeroResultsCapacity:   100,
		RecentQueriesCapacity: 500,
		FlushInterval:         60 * time.Second,
	}
}

// pending holds what has been recorded since the last flush.
type pending struct {
	tiers       map[Tier]int64
	terms       map[string]int64
	latencies   map[LatencyBucket]int64
	zeroResults []QueryEvent
	events      []QueryEvent
}

func newPending() pending {
	return pending{
		tiers:     make(map[Tier]int64),
		terms:     make(map[string]int64),
		latencies: make(map[LatencyBucket]int64),
	}
}

func (p pending) empty() bool {
	return len(p.tiers) == 0 && len(p.terms) == 0 && len(p.latencies) == 0 &&
		len(p.zeroResults) == 0 && len(p.events) == 0
}

// QueryMetrics collects query telemetry. Safe for concurrent use.
type QueryMetrics struct {
	mu sync.RWMutex

	// totals since process start
	tiers           map[Tier]int64
	topTerms        *lru.Cache[string, int64]
	zeroResults     *CircularBuffer[string]
	latencies       map[LatencyBucket]int64
	totalQueries    int64
	zeroResultCount int64
	startTime       time.Time

	recentQueries    *lru.Cache[string, struct{}]
	exactRepeatCount int64

	// deltas not yet written to the store
	pending pending

	store       QueryMetricsStore
	logger      *slog.Logger
	flushTicker *time.Ticker
	stopCh      chan struct{}
	closed      bool
}

// NewQueryMetrics creates a collector with default configuration.
// A nil store keeps metrics in memory only.
func NewQueryMetrics(store QueryMetricsStore) *QueryMetrics {
	return NewQueryMetricsWithConfig(store, DefaultQueryMetricsConfig())
}

// NewQueryMetricsWithConfig creates a collector with custom configuration.
func NewQueryMetricsWithConfig(store QueryMetricsStore, cfg QueryMetricsConfig) *QueryMetrics {
	if cfg.TopTermsCapacity <= 0 {
		cfg.TopTermsCapacity = 100
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = 100
	}
	if cfg.RecentQueriesCapacity <= 0 {
		cfg.RecentQueriesCapacity = 500
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	topTerms, _ := lru.New[string, int64](cfg.TopTermsCapacity)
	recentQueries, _ := lru.New[string, struct{}](cfg.RecentQueriesCapacity)

	m := &QueryMetrics{
		tiers:         make(map[Tier]int64),
		topTerms:      topTerms,
		zeroResults:   NewCircularBuffer[string](cfg.ZeroResultsCapacity),
		latencies:     make(map[LatencyBucket]int64),
		startTime:     time.Now(),
		recentQueries: recentQueries,
		pending:       newPending(),
		store:         store,
		logger:        cfg.Logger,
		stopCh:        make(chan struct{}),
	}

	if cfg.FlushInterval > 0 && store != nil {
		m.flushTicker = time.NewTicker(cfg.FlushInterval)
		go m.flushLoop()
	}

	return m
}

func (m *QueryMetrics) flushLoop() {
	for {
		select {
		case <-m.flushTicker.C:
			if err := m.Flush(); err != nil {
				m.logger.Warn("telemetry_flush_failed", slog.String("error", err.Error()))
			}
		case <-m.stopCh:
			return
		}
	}
}

// Record captures one completed search.
func (m *QueryMetrics) Record(event QueryEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.tiers[event.Tier]++
	m.pending.tiers[event.Tier]++
	m.totalQueries++

	for _, term := range ExtractTerms(event.Query) {
		count, _ := m.topTerms.Get(term)
		m.topTerms.Add(term, count+1)
		m.pending.terms[term]++
	}

	if event.IsZeroResult() && event.Tier != TierEmpty {
		m.zeroResults.Add(event.Query)
		m.zeroResultCount++
		m.pending.zeroResults = append(m.pending.zeroResults, event)
	}

	bucket := LatencyToBucket(event.Latency)
	m.latencies[bucket]++
	m.pending.latencies[bucket]++

	key := hashQuery(event.Query)
	if _, seen := m.recentQueries.Get(key); seen {
		m.exactRepeatCount++
	}
	m.recentQueries.Add(key, struct{}{})

	if event.Tier != TierEmpty {
		m.pending.events = append(m.pending.events, event)
	}
}

// hashQuery keys repeat detection without keeping raw queries in the LRU.
func hashQuery(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(sum[:16])
}

// Snapshot returns the in-process totals.
func (m *QueryMetrics) Snapshot() *QueryMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tiers := make(map[Tier]int64, len(m.tiers))
	for k, v := range m.tiers {
		tiers[k] = v
	}

	topTerms := make([]TermCount, 0, m.topTerms.Len())
	for _, key := range m.topTerms.Keys() {
		if count, ok := m.topTerms.Peek(key); ok {
			topTerms = append(topTerms, TermCount{Term: key, Count: count})
		}
	}
	sort.SliceStable(topTerms, func(i, j int) bool {
		if topTerms[i].Count != topTerms[j].Count {
			return topTerms[i].Count > topTerms[j].Count
		}
		return topTerms[i].Term < topTerms[j].Term
	})

	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	return &QueryMetricsSnapshot{
		TierCounts:          tiers,
		TopTerms:            topTerms,
		ZeroResultQueries:   m.zeroResults.Items(),
		LatencyDistribution: latencies,
		TotalQueries:        m.totalQueries,
		ZeroResultCount:     m.zeroResultCount,
		ExactRepeatCount:    m.exactRepeatCount,
		Since:               m.startTime,
	}
}

// Flush writes everything recorded since the previous flush. Counts are
// deltas, so flushing twice never double counts.
func (m *QueryMetrics) Flush() error {
	if m.store == nil {
		return nil
	}

	m.mu.Lock()
	batch := m.pending
	m.pending = newPending()
	m.mu.Unlock()

	if batch.empty() {
		return nil
	}

	today := time.Now().Format("2006-01-02")
	if err := m.store.SaveTierCounts(today, batch.tiers); err != nil {
		m.restore(batch)
		return err
	}
	batch.tiers = nil
	if err := m.store.UpsertTermCounts(batch.terms); err != nil {
		m.restore(batch)
		return err
	}
	batch.terms = nil
	if err := m.store.SaveLatencyCounts(today, batch.latencies); err != nil {
		m.restore(batch)
		return err
	}
	batch.latencies = nil
	for len(batch.zeroResults) > 0 {
		ev := batch.zeroResults[0]
		if err := m.store.AddZeroResultQuery(ev.Query, ev.Timestamp); err != nil {
			m.restore(batch)
			return err
		}
		batch.zeroResults = batch.zeroResults[1:]
	}
	if err := m.store.AppendQueryLog(batch.events); err != nil {
		m.restore(batch)
		return err
	}
	return nil
}

// restore puts the unwritten part of a failed batch back in front of
// whatever was recorded while the flush ran.
func (m *QueryMetrics) restore(batch pending) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for tier, n := range batch.tiers {
		m.pending.tiers[tier] += n
	}
	for term, n := range batch.terms {
		m.pending.terms[term] += n
	}
	for bucket, n := range batch.latencies {
		m.pending.latencies[bucket] += n
	}
	m.pending.zeroResults = append(batch.zeroResults, m.pending.zeroResults...)
	m.pending.events = append(batch.events, m.pending.events...)
}

// Close stops the background flush and writes what is pending.
func (m *QueryMetrics) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if m.flushTicker != nil {
		m.flushTicker.Stop()
		close(m.stopCh)
	}
	return m.Flush()
}
