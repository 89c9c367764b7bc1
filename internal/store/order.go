package store

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// foldCase is the case-insensitive key stored next to each searchable field.
// SQLite's lower() only folds ASCII, so folding happens here.
func foldCase(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// LookupTier ranks how a record matched a lookup query. Lower is better.
type LookupTier int

const (
	TierExactName LookupTier = iota
	TierNamePrefix
	TierAuthor
	TierOther
	// TierNone means the record does not match at all.
	TierNone
)

// TierOf classifies a record against an already folded query.
func TierOf(r Record, foldedQuery string) LookupTier {
	name := foldCase(r.Name)
	author := foldCase(r.Author.OrEmpty())
	publisher := foldCase(r.Publisher.OrEmpty())

	switch {
	case name == foldedQuery:
		return TierExactName
	case strings.HasPrefix(name, foldedQuery):
		return TierNamePrefix
	case strings.Contains(author, foldedQuery):
		return TierAuthor
	case strings.Contains(name, foldedQuery), strings.Contains(publisher, foldedQuery):
		return TierOther
	default:
		return TierNone
	}
}

// SortByLookupPriority orders records the way IndexedLookup must return
// them: by tier, then most recently updated, then ID. Records that do not
// match query are dropped.
func SortByLookupPriority(records []Record, query string) []Record {
	q := foldCase(strings.TrimSpace(query))
	if q == "" {
		return []Record{}
	}

	type tiered struct {
		rec  Record
		tier LookupTier
	}
	matched := make([]tiered, 0, len(records))
	for _, r := range records {
		if t := TierOf(r, q); t != TierNone {
			matched = append(matched, tiered{rec: r, tier: t})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if !a.rec.UpdatedAt.Equal(b.rec.UpdatedAt) {
			return a.rec.UpdatedAt.After(b.rec.UpdatedAt)
		}
		return a.rec.ID < b.rec.ID
	})

	out := make([]Record, len(matched))
	for i, m := range matched {
		out[i] = m.rec
	}
	return out
}
