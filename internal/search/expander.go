package search

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/shelfsearch/internal/translit"
)

// DefaultVariationCacheSize bounds the number of queries whose variations are
// remembered.
const DefaultVariationCacheSize = 1024

// VariationExpander produces the cross-script spellings of a query using the
// transliteration dictionary. Safe for concurrent use.
type VariationExpander struct {
	dict  *translit.Dictionary
	cache *lru.Cache[string, []string]
}

// NewVariationExpander creates an expander over dict. A nil dict uses the
// built-in catalog vocabulary.
func NewVariationExpander(dict *translit.Dictionary, cacheSize int) *VariationExpander {
	if dict == nil {
		dict = translit.Default()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultVariationCacheSize
	}
	cache, _ := lru.New[string, []string](cacheSize)
	return &VariationExpander{dict: dict, cache: cache}
}

// VariationsOf returns query followed by its Bangla-to-Latin and
// Latin-to-Bangla rewrites, without duplicates. A query with no dictionary
// words yields just itself.
func (x *VariationExpander) VariationsOf(query string) []string {
	if cached, ok := x.cache.Get(query); ok {
		return slices.Clone(cached)
	}

	out := []string{query}
	if latin, ok := x.dict.ToLatin(query); ok && !slices.Contains(out, latin) {
		out = append(out, latin)
	}
	if bangla, ok := x.dict.ToBangla(query); ok && !slices.Contains(out, bangla) {
		out = append(out, bangla)
	}

	x.cache.Add(query, out)
	return slices.Clone(out)
}
