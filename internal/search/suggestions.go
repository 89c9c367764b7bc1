package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
	"github.com/Aman-CERP/shelfsearch/internal/textsim"
)

const (
	// DefaultSuggestionCapacity is how many distinct queries are remembered.
	DefaultSuggestionCapacity = 1000
	// DefaultSuggestionLimit is the number of suggestions returned when the
	// caller does not ask for a specific count.
	DefaultSuggestionLimit = 5

	suggestionRatio = 0.7
)

// SuggestionStore remembers recent normalized queries and offers them back
// as completions. Safe for concurrent use.
type SuggestionStore struct {
	mu         sync.Mutex
	buf        *telemetry.CircularBuffer[string]
	seen       map[string]struct{}
	normalizer textsim.Normalizer
}

// NewSuggestionStore creates a store holding at most capacity queries.
func NewSuggestionStore(capacity int, normalizer textsim.Normalizer) *SuggestionStore {
	if capacity <= 0 {
		capacity = DefaultSuggestionCapacity
	}
	return &SuggestionStore{
		buf:        telemetry.NewCircularBuffer[string](capacity),
		seen:       make(map[string]struct{}, capacity),
		normalizer: normalizer,
	}
}

// Record remembers query. Empty queries and queries already held are
// ignored; when full, the oldest query is forgotten.
func (s *SuggestionStore) Record(query string) {
	q := s.normalizer.Normalize(query)
	if q == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(q)
}

func (s *SuggestionStore) add(q string) {
	if _, ok := s.seen[q]; ok {
		return
	}
	if evicted, ok := s.buf.Add(q); ok {
		delete(s.seen, evicted)
	}
	s.seen[q] = struct{}{}
}

// Seed records queries in order, oldest first.
func (s *SuggestionStore) Seed(queries []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, query := range queries {
		if q := s.normalizer.Normalize(query); q != "" {
			s.add(q)
		}
	}
}

// Len returns the number of remembered queries.
func (s *SuggestionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Size()
}

// Entries returns the remembered queries, oldest first.
func (s *SuggestionStore) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Items()
}

// Suggest returns up to limit remembered queries matching partial: those
// containing it, or with a similarity ratio above 0.7. Queries starting with
// partial come first, then higher field-match scores; ties keep history order.
// limit <= 0 means DefaultSuggestionLimit.
func (s *SuggestionStore) Suggest(partial string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	p := s.normalizer.Normalize(partial)
	if p == "" {
		return []string{}
	}
	pWords := strings.Fields(p)

	type candidate struct {
		text   string
		prefix bool
		score  float64
	}

	var matches []candidate
	for _, entry := range s.Entries() {
		if !strings.Contains(entry, p) && textsim.SimilarityRatio(p, entry) <= suggestionRatio {
			continue
		}
		matches = append(matches, candidate{
			text:   entry,
			prefix: strings.HasPrefix(entry, p),
			score:  fieldScore(p, pWords, entry, strings.Fields(entry), textsim.DefaultFuzzyThreshold),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].score > matches[j].score
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.text)
	}
	return out
}
