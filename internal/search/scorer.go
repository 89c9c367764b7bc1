package search

import (
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/textsim"
	"github.com/Aman-CERP/shelfsearch/internal/translit"
)

// Field weights.
const (
	NameWeight      = 5.0
	AuthorWeight    = 3.0
	PublisherWeight = 2.0
	NotesWeight     = 1.0
)

// MaxScore caps a record's total score.
const MaxScore = 10.0

// MinPhoneticQueryRunes is the shortest Latin query the phonetic fallback
// considers. Shorter ones occur in nearly every phoneme stream.
const MinPhoneticQueryRunes = 3

// DefaultVariationWeight scales the score earned by each transliterated
// variation of the query.
const DefaultVariationWeight = 0.8

// ScorerConfig tunes CandidateScore.
type ScorerConfig struct {
	// WordThreshold is the ratio a query word needs against some field word
	// to count toward the field score (default: 0.6).
	WordThreshold float64

	// VariationWeight multiplies each variation's score (default: 0.8).
	VariationWeight float64

	// PhoneticFallback lets a Latin query match a Bangla field by sound when
	// nothing else in that field matched.
	PhoneticFallback bool
}

// DefaultScorerConfig returns the standard weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		WordThreshold:    textsim.DefaultFuzzyThreshold,
		VariationWeight:  DefaultVariationWeight,
		PhoneticFallback: true,
	}
}

// Scorer computes how well a record matches a query. Safe for concurrent use.
type Scorer struct {
	cfg        ScorerConfig
	expander   *VariationExpander
	normalizer textsim.Normalizer
}

// NewScorer creates a scorer. A nil expander disables variation scoring.
func NewScorer(cfg ScorerConfig, expander *VariationExpander, normalizer textsim.Normalizer) *Scorer {
	if cfg.WordThreshold <= 0 {
		cfg.WordThreshold = textsim.DefaultFuzzyThreshold
	}
	if cfg.VariationWeight < 0 {
		cfg.VariationWeight = 0
	}
	return &Scorer{cfg: cfg, expander: expander, normalizer: normalizer}
}

// queryForm is a query normalized once for a ranking pass.
type queryForm struct {
	norm  string
	words []string
	latin bool
}

// compiledQuery is the query plus its variations.
type compiledQuery struct {
	direct     queryForm
	variations []queryForm
}

func (s *Scorer) form(q string) queryForm {
	n := s.normalizer.Normalize(q)
	return queryForm{norm: n, words: strings.Fields(n), latin: translit.IsLatin(n)}
}

func (s *Scorer) compile(query string) compiledQuery {
	cq := compiledQuery{direct: s.form(query)}
	if cq.direct.norm == "" || s.expander == nil {
		return cq
	}
	for _, v := range s.expander.VariationsOf(cq.direct.norm)[1:] {
		if f := s.form(v); f.norm != "" && f.norm != cq.direct.norm {
			cq.variations = append(cq.variations, f)
		}
	}
	return cq
}

// fieldForm is a record field normalized once per record.
type fieldForm struct {
	norm   string
	words  []string
	bangla bool
	weight float64
}

func (s *Scorer) fields(r store.Record) []fieldForm {
	out := make([]fieldForm, 0, 4)
	add := func(text string, weight float64) {
		n := s.normalizer.Normalize(text)
		if n == "" {
			return
		}
		out = append(out, fieldForm{
			norm:   n,
			words:  strings.Fields(n),
			bangla: translit.ContainsBangla(n),
			weight: weight,
		})
	}

	add(r.Name, NameWeight)
	if v, ok := r.Author.Get(); ok {
		add(v, AuthorWeight)
	}
	if v, ok := r.Publisher.Get(); ok {
		add(v, PublisherWeight)
	}
	if v, ok := r.Notes.Get(); ok {
		add(v, NotesWeight)
	}
	return out
}

// Score returns the capped relevance of r to query, in [0, MaxScore].
// An empty normalized query scores 0 against everything.
func (s *Scorer) Score(query string, r store.Record) float64 {
	return s.scoreCompiled(s.compile(query), s.fields(r))
}

func (s *Scorer) scoreCompiled(cq compiledQuery, fields []fieldForm) float64 {
	if cq.direct.norm == "" {
		return 0
	}
	total := s.direct(cq.direct, fields)
	for _, v := range cq.variations {
		total += s.cfg.VariationWeight * s.direct(v, fields)
	}
	return min(total, MaxScore)
}

func (s *Scorer) direct(q queryForm, fields []fieldForm) float64 {
	total := 0.0
	for _, f := range fields {
		fs := fieldScore(q.norm, q.words, f.norm, f.words, s.cfg.WordThreshold)
		if fs == 0 && s.cfg.PhoneticFallback && q.latin && f.bangla &&
			utf8.RuneCountInString(q.norm) >= MinPhoneticQueryRunes &&
			translit.PhoneticMatches(q.norm, f.norm) {
			fs = s.cfg.WordThreshold
		}
		total += f.weight * fs
	}
	return total
}

// FieldMatchScore scores one field value against a query in [0, 1]: 1 when
// the normalized field contains the normalized query, otherwise the mean
// best-word ratio over the query words that reach wordThreshold. Words below
// the threshold are left out of the mean; if none reach it the score is 0.
func FieldMatchScore(query, field string, wordThreshold float64) float64 {
	q := textsim.Normalize(query)
	f := textsim.Normalize(field)
	return fieldScore(q, strings.Fields(q), f, strings.Fields(f), wordThreshold)
}

func fieldScore(q string, qWords []string, f string, fWords []string, threshold float64) float64 {
	if q == "" || f == "" {
		return 0
	}
	if strings.Contains(f, q) {
		return 1.0
	}

	sum, n := 0.0, 0
	for _, w := range qWords {
		if r := textsim.BestWordRatio(w, fWords); r >= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
