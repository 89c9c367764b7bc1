package search

import (
	"sort"

	"github.com/Aman-CERP/shelfsearch/internal/store"
)

// DefaultThreshold is the minimum score a record needs to be ranked.
const DefaultThreshold = 0.3

// ScoredRecord pairs a record with its score for one query.
type ScoredRecord struct {
	Record store.Record
	Score  float64
}

// Ranker scores and orders a candidate set.
type Ranker struct {
	scorer *Scorer
}

// NewRanker creates a ranker over scorer.
func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Scorer returns the scorer used for ranking.
func (rk *Ranker) Scorer() *Scorer { return rk.scorer }

// RankScored scores every record, drops those below threshold and sorts the
// rest by descending score. Equal scores keep their input order.
func (rk *Ranker) RankScored(query string, records []store.Record, threshold float64) []ScoredRecord {
	out := []ScoredRecord{}
	if len(records) == 0 {
		return out
	}

	cq := rk.scorer.compile(query)
	if cq.direct.norm == "" {
		return out
	}

	for _, r := range records {
		score := rk.scorer.scoreCompiled(cq, rk.scorer.fields(r))
		if score < threshold {
			continue
		}
		out = append(out, ScoredRecord{Record: r, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Rank is RankScored without the scores.
func (rk *Ranker) Rank(query string, records []store.Record, threshold float64) []store.Record {
	scored := rk.RankScored(query, records, threshold)
	out := make([]store.Record, len(scored))
	for i, sr := range scored {
		out[i] = sr.Record
	}
	return out
}
