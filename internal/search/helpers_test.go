package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/textsim"
)

// fakeCatalog serves canned lookup results and counts calls.
type fakeCatalog struct {
	mu        sync.Mutex
	indexed   []store.Record
	all       []store.Record
	lookupErr error
	fetchErr  error
	lookups   int
	fetches   int
	lastQuery string
}

func (f *fakeCatalog) IndexedLookup(_ context.Context, query string) ([]store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	f.lastQuery = query
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return append([]store.Record(nil), f.indexed...), nil
}

func (f *fakeCatalog) FetchAllCandidates(context.Context) ([]store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]store.Record(nil), f.all...), nil
}

func rec(id, name string) store.Record {
	return store.Record{ID: id, Kind: store.KindBook, Name: name}
}

func recBy(id, name, author string) store.Record {
	r := rec(id, name)
	r.Author = store.Optional(author)
	return r
}

func recordIDs(records []store.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func numbered(prefix, name string, n int) []store.Record {
	out := make([]store.Record, n)
	for i := range out {
		out[i] = rec(fmt.Sprintf("%s-%03d", prefix, i), name)
	}
	return out
}

func newTestScorer(phonetic bool) *Scorer {
	cfg := DefaultScorerConfig()
	cfg.PhoneticFallback = phonetic
	return NewScorer(cfg, NewVariationExpander(nil, 0), textsim.Normalizer{})
}
