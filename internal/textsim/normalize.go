package textsim

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes text for comparison. The zero value uses
// Unicode category stripping.
type Normalizer struct {
	asciiOnly bool
}

// NewNormalizer returns a Normalizer. asciiOnly selects the reduced mode that
// strips ASCII punctuation only and leaves non-Latin punctuation (such as the
// Bangla danda) in place; it is logged because it hurts multi-script matching.
func NewNormalizer(asciiOnly bool, logger *slog.Logger) Normalizer {
	if asciiOnly && logger != nil {
		logger.Warn("ascii_normalization_enabled",
			slog.String("effect", "non-ASCII punctuation is kept in normalized text"))
	}
	return Normalizer{asciiOnly: asciiOnly}
}

// ASCIIOnly reports whether the reduced mode is active.
func (n Normalizer) ASCIIOnly() bool { return n.asciiOnly }

// Normalize lowercases, composes to NFC, strips everything that is not a
// letter, combining mark, digit or space, collapses whitespace runs and trims.
// normalize(normalize(s)) == normalize(s).
func (n Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(norm.NFC.String(s))

	keep := keepUnicode
	if n.asciiOnly {
		keep = keepASCIIMode
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if keep(r) {
			return r
		}
		return -1
	}, s)

	// removing characters can bring a base letter and a mark together again
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Words splits normalized text into its words.
func (n Normalizer) Words(s string) []string {
	return strings.Fields(n.Normalize(s))
}

// Bangla vowel signs are category M, so marks must survive or "বই" and
// "বৌ" would both collapse to their consonants.
func keepUnicode(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func keepASCIIMode(r rune) bool {
	if r >= 0x80 {
		return true
	}
	return !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsControl(r)
}

var defaultNormalizer Normalizer

// Normalize applies the default Unicode normalizer.
func Normalize(s string) string {
	return defaultNormalizer.Normalize(s)
}
