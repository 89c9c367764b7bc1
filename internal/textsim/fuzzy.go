package textsim

import "strings"

// DefaultFuzzyThreshold is the per-word similarity a query word needs
// against some text word for FuzzyContains to accept it.
const DefaultFuzzyThreshold = 0.6

// FuzzyContains reports whether text contains query after normalization, or
// every query word is close (ratio >= threshold) to at least one text word.
// An empty normalized query matches nothing.
func FuzzyContains(query, text string, threshold float64) bool {
	return defaultNormalizer.FuzzyContains(query, text, threshold)
}

// FuzzyContains is the Normalizer-specific form of the package function.
func (n Normalizer) FuzzyContains(query, text string, threshold float64) bool {
	q := n.Normalize(query)
	if q == "" {
		return false
	}
	t := n.Normalize(text)
	if strings.Contains(t, q) {
		return true
	}

	textWords := strings.Fields(t)
	if len(textWords) == 0 {
		return false
	}
	for _, qw := range strings.Fields(q) {
		if BestWordRatio(qw, textWords) < threshold {
			return false
		}
	}
	return true
}

// BestWordRatio returns the highest SimilarityRatio between word and any
// candidate, or 0 when there are no candidates.
func BestWordRatio(word string, candidates []string) float64 {
	best := 0.0
	for _, c := range candidates {
		if r := SimilarityRatio(word, c); r > best {
			best = r
			if best == 1.0 {
				break
			}
		}
	}
	return best
}
