package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/shelfsearch/internal/textsim"
)

func TestSuggest_PrefixMatchesFirst(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("hobbit")
	s.Record("harry potter")
	s.Record("harold")

	got := s.Suggest("har", 5)
	assert.Equal(t, []string{"harry potter", "harold"}, got)
	assert.NotContains(t, got, "hobbit")
}

func TestSuggest_PrefixBeforeScore(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("the potter")
	s.Record("pottery")

	// both contain the query; only one starts with it
	assert.Equal(t, []string{"pottery", "the potter"}, s.Suggest("potter", 5))
}

func TestSuggest_SimilarityMatch(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("harry potter")
	s.Record("xyz")

	assert.Equal(t, []string{"harry potter"}, s.Suggest("harry poter", 5))
}

func TestSuggest_Limit(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	for i := 0; i < 10; i++ {
		s.Record(fmt.Sprintf("dune %d", i))
	}

	assert.Len(t, s.Suggest("dune", 3), 3)
	assert.Len(t, s.Suggest("dune", 0), DefaultSuggestionLimit)
	assert.Equal(t, "dune 0", s.Suggest("dune", 1)[0])
}

func TestSuggest_EmptyPartial(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("harry potter")

	got := s.Suggest("  !! ", 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggest_NormalizesPartial(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("harry potter")

	assert.Equal(t, []string{"harry potter"}, s.Suggest("HARRY!", 5))
}

func TestRecord_NormalizesAndDeduplicates(t *testing.T) {
	s := NewSuggestionStore(0, textsim.Normalizer{})
	s.Record("Harry Potter")
	s.Record("  harry   potter!")
	s.Record("")
	s.Record("...")

	assert.Equal(t, []string{"harry potter"}, s.Entries())
}

func TestRecord_BoundedFIFO(t *testing.T) {
	s := NewSuggestionStore(DefaultSuggestionCapacity, textsim.Normalizer{})
	for i := 0; i <= DefaultSuggestionCapacity; i++ {
		s.Record(fmt.Sprintf("query %d", i))
	}

	entries := s.Entries()
	assert.Equal(t, DefaultSuggestionCapacity, s.Len())
	assert.NotContains(t, entries, "query 0")
	assert.Equal(t, "query 1", entries[0])
	assert.Equal(t, fmt.Sprintf("query %d", DefaultSuggestionCapacity), entries[len(entries)-1])

	// an evicted query can come back
	s.Record("query 0")
	assert.Contains(t, s.Entries(), "query 0")
	assert.Equal(t, DefaultSuggestionCapacity, s.Len())
}

func TestSeed_KeepsOrder(t *testing.T) {
	s := NewSuggestionStore(3, textsim.Normalizer{})
	s.Seed([]string{"alpha", "Bravo", "alpha", "", "charlie", "delta"})

	assert.Equal(t, []string{"bravo", "charlie", "delta"}, s.Entries())
}

func TestSuggestionStore_Concurrent(t *testing.T) {
	s := NewSuggestionStore(100, textsim.Normalizer{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Record(fmt.Sprintf("q %d %d", g, i))
				_ = s.Suggest("q", 5)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Len())
}
