package translit

import (
	"strings"
	"sync"
	"unicode"

	"github.com/Aman-CERP/shelfsearch/internal/textsim"
)

// PhoneticMatchRatio is the similarity a Latin query must exceed against the
// folded phoneme stream when it is not a plain substring of it.
const PhoneticMatchRatio = 0.7

const nukta = '\u09BC'

// phoneticTable maps Bangla characters to every Latin spelling they are
// commonly written with. Candidates are emitted together, never chosen.
var phoneticTable = sync.OnceValue(func() map[rune][]string {
	return map[rune][]string{
		// independent vowels
		'অ': {"o", "a"}, 'আ': {"a"}, 'ই': {"i"}, 'ঈ': {"i", "ee"},
		'উ': {"u"}, 'ঊ': {"u", "oo"}, 'ঋ': {"ri"}, 'এ': {"e"},
		'ঐ': {"oi"}, 'ও': {"o"}, 'ঔ': {"ou"},

		// vowel signs
		'া': {"a"}, 'ি': {"i"}, 'ী': {"i", "ee"}, 'ু': {"u"},
		'ূ': {"u", "oo"}, 'ৃ': {"ri"}, 'ে': {"e"}, 'ৈ': {"oi"},
		'ো': {"o"}, 'ৌ': {"ou"},

		// consonants
		'ক': {"k"}, 'খ': {"kh"}, 'গ': {"g"}, 'ঘ': {"gh"}, 'ঙ': {"ng"},
		'চ': {"ch", "c"}, 'ছ': {"chh", "ch"}, 'জ': {"j"}, 'ঝ': {"jh"}, 'ঞ': {"n"},
		'ট': {"t"}, 'ঠ': {"th"}, 'ড': {"d"}, 'ঢ': {"dh"}, 'ণ': {"n"},
		'ত': {"t"}, 'থ': {"th"}, 'দ': {"d"}, 'ধ': {"dh"}, 'ন': {"n"},
		'প': {"p"}, 'ফ': {"ph", "f"}, 'ব': {"b"}, 'ভ': {"bh", "v"}, 'ম': {"m"},
		'য': {"j", "y"}, 'র': {"r"}, 'ল': {"l"},
		'শ': {"sh"}, 'ষ': {"sh"}, 'স': {"s", "sh"}, 'হ': {"h"},
		'\u09DC': {"r"}, '\u09DD': {"rh"}, '\u09DF': {"y"}, 'ৎ': {"t"},

		// modifiers
		'ং': {"ng"}, 'ঃ': {"h"}, 'ঁ': {"n"},
	}
})

// nuktaForms resolves base+nukta, which is how NFC stores ড়, ঢ় and য়.
var nuktaForms = map[rune]rune{
	'ড': '\u09DC',
	'ঢ': '\u09DD',
	'য': '\u09DF',
}

// ToPhoneticSequence folds Bangla text into Latin phoneme tokens. Every
// candidate spelling of a mapped character is emitted; ASCII letters pass
// through lowercased; everything else is dropped.
func ToPhoneticSequence(text string) []string {
	table := phoneticTable()
	runes := []rune(text)
	out := make([]string, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if composed, ok := nuktaForms[r]; ok && i+1 < len(runes) && runes[i+1] == nukta {
			r = composed
			i++
		}
		if spellings, ok := table[r]; ok {
			out = append(out, spellings...)
			continue
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			out = append(out, string(unicode.ToLower(r)))
		}
	}
	return out
}

// PhoneticMatches reports whether a Latin query plausibly spells text. The
// query is lowercased with whitespace removed and compared against the
// joined phoneme stream: substring, or similarity above PhoneticMatchRatio.
func PhoneticMatches(latinQuery, text string) bool {
	q := strings.Join(strings.Fields(strings.ToLower(latinQuery)), "")
	if q == "" {
		return false
	}
	stream := strings.Join(ToPhoneticSequence(text), "")
	if stream == "" {
		return false
	}
	return strings.Contains(stream, q) || textsim.SimilarityRatio(q, stream) > PhoneticMatchRatio
}

// ContainsBangla reports whether s has at least one Bangla letter.
func ContainsBangla(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Bengali, r) && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsLatin reports whether every letter in s is ASCII and there is at least one.
func IsLatin(s string) bool {
	seen := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if r >= unicode.MaxASCII {
			return false
		}
		seen = true
	}
	return seen
}
