package translit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsShared(t *testing.T) {
	require.Same(t, Default(), Default())
	assert.Equal(t, len(catalogTerms), Default().Len())
}

func TestDictionary_Lookup(t *testing.T) {
	d := Default()

	lat, ok := d.Latin("বই")
	require.True(t, ok)
	assert.Equal(t, "boi", lat)

	bn, ok := d.Bangla("BOI")
	require.True(t, ok)
	assert.Equal(t, "বই", bn)

	_, ok = d.Latin("অজানা")
	assert.False(t, ok)
}

func TestDictionary_EveryEntryRoundTrips(t *testing.T) {
	d := Default()
	for _, e := range catalogTerms {
		lat, ok := d.Latin(e.Bangla)
		require.True(t, ok, e.Bangla)
		assert.Equal(t, e.Latin, lat)

		bn, ok := d.Bangla(lat)
		require.True(t, ok, lat)
		back, _ := d.Latin(bn)
		assert.Equal(t, lat, back)
	}
}

func TestNewDictionary_DuplicateValueLastWins(t *testing.T) {
	d := NewDictionary([]Entry{
		{"বই", "boi"},
		{"পুস্তক", "boi"},
	})

	bn, ok := d.Bangla("boi")
	require.True(t, ok)
	assert.Equal(t, "পুস্তক", bn)

	// forward direction keeps both
	lat, _ := d.Latin("বই")
	assert.Equal(t, "boi", lat)
	assert.Equal(t, 2, d.Len())
}

func TestDictionary_ToLatin(t *testing.T) {
	d := Default()

	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{"single word", "বই", "boi", true},
		{"keeps unknown words", "আমার বই", "আমার boi", true},
		{"keeps separators", "গল্প, কবিতা!", "golpo, kobita!", true},
		{"whole words only", "বইমেলা", "বইমেলা", false},
		{"no match returns input", "harry potter", "harry potter", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := d.ToLatin(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestDictionary_ToBangla(t *testing.T) {
	d := Default()

	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{"single word", "boi", "বই", true},
		{"case insensitive", "Golpo Kobita", "গল্প কবিতা", true},
		{"whole words only", "boiling", "boiling", false},
		{"mixed", "new uponnash 2024", "new উপন্যাস 2024", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := d.ToBangla(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestSubstitute_SinglePass(t *testing.T) {
	// "a" -> "b" and "b" -> "c": a simultaneous pass must not chain a -> c
	table := map[string]string{"a": "b", "b": "c"}
	lookup := func(w string) (string, bool) {
		v, ok := table[w]
		return v, ok
	}

	got, changed := substitute("a b", lookup)
	assert.True(t, changed)
	assert.Equal(t, "b c", got)
}

func TestSegments(t *testing.T) {
	segs := segments("প্রকাশক, boi!")

	require.Len(t, segs, 4)
	assert.Equal(t, segment{"প্রকাশক", true}, segs[0])
	assert.Equal(t, segment{", ", false}, segs[1])
	assert.Equal(t, segment{"boi", true}, segs[2])
	assert.Equal(t, segment{"!", false}, segs[3])
	assert.Empty(t, segments(""))
}
