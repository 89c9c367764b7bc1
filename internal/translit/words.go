package translit

import "unicode"

// segment is a run of either word or separator runes.
type segment struct {
	text string
	word bool
}

// isWordRune treats marks and the zero-width joiners as part of a word so
// conjuncts like "প্র" stay in one piece.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) ||
		r == '\u200C' || r == '\u200D'
}

// segments splits s on Unicode word boundaries, keeping the separators so
// the text can be reassembled after substitution.
func segments(s string) []segment {
	var out []segment
	start := 0
	inWord := false
	for i, r := range s {
		w := isWordRune(r)
		if i == 0 {
			inWord = w
			continue
		}
		if w != inWord {
			out = append(out, segment{text: s[start:i], word: inWord})
			start = i
			inWord = w
		}
	}
	if start < len(s) {
		out = append(out, segment{text: s[start:], word: inWord})
	}
	return out
}
