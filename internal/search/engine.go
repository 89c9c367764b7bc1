package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
	"github.com/Aman-CERP/shelfsearch/internal/textsim"
)

// ErrNilDependency is returned when a required dependency is nil.
var ErrNilDependency = errors.New("nil dependency")

// Config configures the search engine.
type Config struct {
	// EscalationMinResults is the indexed hit count at or above which the
	// fuzzy scan is skipped (default: 3).
	EscalationMinResults int

	// FuzzyThreshold is the minimum score kept by the fuzzy scan (default: 0.3).
	FuzzyThreshold float64

	// MaxResults caps the merged fuzzy results (default: 50).
	MaxResults int

	// VariationCacheSize bounds the variation cache (default: 1024).
	VariationCacheSize int

	// ASCIINormalization selects the reduced normalization mode.
	ASCIINormalization bool

	// SuggestionCapacity bounds the query history (default: 1000).
	SuggestionCapacity int

	Scorer ScorerConfig
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		EscalationMinResults: 3,
		FuzzyThreshold:       DefaultThreshold,
		MaxResults:           50,
		VariationCacheSize:   DefaultVariationCacheSize,
		SuggestionCapacity:   DefaultSuggestionCapacity,
		Scorer:               DefaultScorerConfig(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.EscalationMinResults <= 0 {
		c.EscalationMinResults = d.EscalationMinResults
	}
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.VariationCacheSize <= 0 {
		c.VariationCacheSize = d.VariationCacheSize
	}
	if c.SuggestionCapacity <= 0 {
		c.SuggestionCapacity = d.SuggestionCapacity
	}
	if c.Scorer == (ScorerConfig{}) {
		c.Scorer = d.Scorer
	}
	return c
}

// Engine is the retrieval entry point: an indexed lookup first, escalating
// to a fuzzy scan of the whole catalog when the lookup finds too little.
type Engine struct {
	catalog     store.Catalog
	config      Config
	normalizer  textsim.Normalizer
	expander    *VariationExpander
	ranker      *Ranker
	suggestions *SuggestionStore
	metrics     *telemetry.QueryMetrics
	logger      *slog.Logger
}

// EngineOption configures the search engine.
type EngineOption func(*Engine)

// WithMetrics sets an optional query metrics collector.
func WithMetrics(m *telemetry.QueryMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithSuggestionStore shares a suggestion store instead of creating one.
func WithSuggestionStore(s *SuggestionStore) EngineOption {
	return func(e *Engine) {
		e.suggestions = s
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine over catalog.
func NewEngine(catalog store.Catalog, config Config, opts ...EngineOption) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrNilDependency)
	}

	e := &Engine{
		catalog: catalog,
		config:  config.withDefaults(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.normalizer = textsim.NewNormalizer(e.config.ASCIINormalization, e.logger)
	e.expander = NewVariationExpander(nil, e.config.VariationCacheSize)
	e.ranker = NewRanker(NewScorer(e.config.Scorer, e.expander, e.normalizer))
	if e.suggestions == nil {
		e.suggestions = NewSuggestionStore(e.config.SuggestionCapacity, e.normalizer)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.config }

// SuggestionStore returns the engine's query history.
func (e *Engine) SuggestionStore() *SuggestionStore { return e.suggestions }

// Expander returns the variation expander.
func (e *Engine) Expander() *VariationExpander { return e.expander }

// Ranker returns the ranker used by the fuzzy scan.
func (e *Engine) Ranker() *Ranker { return e.ranker }

// Search returns the records matching query, best first.
//
// Catalog failures are returned as coded errors and are not retried here.
// An empty query returns no records without touching the catalog.
func (e *Engine) Search(ctx context.Context, query string) ([]store.Record, error) {
	results, _, err := e.SearchWithTier(ctx, query)
	return results, err
}

// SearchWithTier is Search that also reports which tier served the results.
func (e *Engine) SearchWithTier(ctx context.Context, query string) ([]store.Record, telemetry.Tier, error) {
	start := time.Now()

	normalized := e.normalizer.Normalize(query)
	if normalized == "" {
		e.recordMetrics(normalized, telemetry.TierEmpty, 0, time.Since(start))
		return []store.Record{}, telemetry.TierEmpty, nil
	}

	indexed, err := e.catalog.IndexedLookup(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, "", catalogFailure("indexed lookup failed", err)
	}

	if len(indexed) >= e.config.EscalationMinResults {
		e.complete(normalized, telemetry.TierIndexed, len(indexed), start)
		return indexed, telemetry.TierIndexed, nil
	}

	candidates, err := e.catalog.FetchAllCandidates(ctx)
	if err != nil {
		return nil, "", catalogFailure("fetching candidates failed", err)
	}

	results := e.fuzzyScan(normalized, candidates)
	e.logger.Debug("search_escalated",
		slog.String("query", normalized),
		slog.Int("indexed_hits", len(indexed)),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(results)))

	e.complete(normalized, telemetry.TierFuzzy, len(results), start)
	return results, telemetry.TierFuzzy, nil
}

// fuzzyScan ranks candidates for the query and then for each of its
// variations, merging by record ID so the first occurrence wins.
func (e *Engine) fuzzyScan(query string, candidates []store.Record) []store.Record {
	passes := e.expander.VariationsOf(query)

	merged := make([]store.Record, 0, min(len(candidates), e.config.MaxResults))
	seen := make(map[string]struct{})
	for _, q := range passes {
		for _, r := range e.ranker.Rank(q, candidates, e.config.FuzzyThreshold) {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}

	if len(merged) > e.config.MaxResults {
		merged = merged[:e.config.MaxResults]
	}
	return merged
}

func (e *Engine) complete(query string, tier telemetry.Tier, n int, start time.Time) {
	e.suggestions.Record(query)
	e.recordMetrics(query, tier, n, time.Since(start))
}

func (e *Engine) recordMetrics(query string, tier telemetry.Tier, resultCount int, latency time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.Record(telemetry.QueryEvent{
		Query:       query,
		Tier:        tier,
		ResultCount: resultCount,
		Latency:     latency,
		Timestamp:   time.Now(),
	})
}

// Suggestions returns up to limit past queries matching partial.
func (e *Engine) Suggestions(partial string, limit int) []string {
	return e.suggestions.Suggest(partial, limit)
}

// catalogFailure keeps coded errors as they are and classifies the rest.
func catalogFailure(msg string, err error) error {
	if shelferrors.GetCode(err) != "" {
		return err
	}
	return shelferrors.CatalogError(msg, err)
}
