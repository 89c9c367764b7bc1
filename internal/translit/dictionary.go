package translit

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Entry pairs a Bangla word with its usual Latin spelling.
type Entry struct {
	Bangla string
	Latin  string
}

// catalogTerms are the words people type when looking for items in the
// catalog, in either script. Order matters only for duplicate Latin values:
// the later entry owns the reverse mapping.
var catalogTerms = []Entry{
	{"বই", "boi"},
	{"পুস্তক", "pustok"},
	{"লেখক", "lekhok"},
	{"লেখিকা", "lekhika"},
	{"প্রকাশক", "prokashok"},
	{"প্রকাশনী", "prokashoni"},
	{"উপন্যাস", "uponnash"},
	{"কবিতা", "kobita"},
	{"গল্প", "golpo"},
	{"প্রবন্ধ", "probondho"},
	{"নাটক", "natok"},
	{"ছড়া", "chhora"},
	{"ইতিহাস", "itihash"},
	{"বিজ্ঞান", "biggan"},
	{"জীবনী", "jiboni"},
	{"ভ্রমণ", "bhromon"},
	{"ধর্ম", "dhormo"},
	{"রান্না", "ranna"},
	{"শিশু", "shishu"},
	{"কিশোর", "kishor"},
	{"রহস্য", "rohossho"},
	{"গোয়েন্দা", "goyenda"},
	{"অনুবাদ", "onubad"},
	{"সাহিত্য", "sahitto"},
	{"অর্ডার", "order"},
	{"নোট", "note"},
	{"রিমাইন্ডার", "reminder"},
	{"দাম", "dam"},
	{"খণ্ড", "khondo"},
	{"সংস্করণ", "songskoron"},
}

// Dictionary is an immutable bidirectional word table.
type Dictionary struct {
	toLatin  map[string]string
	toBangla map[string]string
}

// NewDictionary builds both directions from entries. Keys are NFC-composed
// and Latin keys lowercased; a repeated value keeps its last entry.
func NewDictionary(entries []Entry) *Dictionary {
	d := &Dictionary{
		toLatin:  make(map[string]string, len(entries)),
		toBangla: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		bn := norm.NFC.String(e.Bangla)
		lat := strings.ToLower(e.Latin)
		d.toLatin[bn] = lat
		d.toBangla[lat] = bn
	}
	return d
}

var defaultDictionary = sync.OnceValue(func() *Dictionary {
	return NewDictionary(catalogTerms)
})

// Default returns the built-in catalog dictionary.
func Default() *Dictionary {
	return defaultDictionary()
}

// Len returns the number of Bangla headwords.
func (d *Dictionary) Len() int { return len(d.toLatin) }

// Latin looks up the Latin spelling of a single Bangla word.
func (d *Dictionary) Latin(bangla string) (string, bool) {
	v, ok := d.toLatin[norm.NFC.String(bangla)]
	return v, ok
}

// Bangla looks up the Bangla spelling of a single Latin word, ignoring case.
func (d *Dictionary) Bangla(latin string) (string, bool) {
	v, ok := d.toBangla[strings.ToLower(latin)]
	return v, ok
}

// ToLatin rewrites every Bangla dictionary word in text to Latin.
// The second result reports whether anything was replaced.
func (d *Dictionary) ToLatin(text string) (string, bool) {
	return substitute(text, d.Latin)
}

// ToBangla rewrites every Latin dictionary word in text to Bangla.
func (d *Dictionary) ToBangla(text string) (string, bool) {
	return substitute(text, d.Bangla)
}

// substitute replaces whole words in a single pass: output of one
// replacement is never looked up again.
func substitute(text string, lookup func(string) (string, bool)) (string, bool) {
	if text == "" {
		return text, false
	}

	var sb strings.Builder
	sb.Grow(len(text))
	changed := false
	for _, seg := range segments(norm.NFC.String(text)) {
		if seg.word {
			if repl, ok := lookup(seg.text); ok {
				sb.WriteString(repl)
				changed = true
				continue
			}
		}
		sb.WriteString(seg.text)
	}
	if !changed {
		return text, false
	}
	return sb.String(), true
}
