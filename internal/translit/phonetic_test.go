package translit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPhoneticSequence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"consonant and vowel", "বই", []string{"b", "i"}},
		{"vowel sign", "কবিতা", []string{"k", "b", "i", "t", "a"}},
		{"all candidates emitted", "চা", []string{"ch", "c", "a"}},
		{"virama dropped", "গল্প", []string{"g", "l", "p"}},
		{"ascii letters lowercased", "AbC", []string{"a", "b", "c"}},
		{"digits and punctuation dropped", "বই ১২, 3!", []string{"b", "i"}},
		{"precomposed rra", "\u09DC", []string{"r"}},
		{"decomposed rra", "\u09A1\u09BC", []string{"r"}},
		{"decomposed ya", "\u09AF\u09BC", []string{"y"}},
		{"plain ddo without nukta", "ড", []string{"d"}},
		{"non latin letters dropped", "Ωmega", []string{"m", "e", "g", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPhoneticSequence(tt.input))
		})
	}
}

func TestPhoneticMatches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  bool
	}{
		{"substring of stream", "ami", "আমি", true},
		{"whitespace stripped", "a mi", "আমি", true},
		{"case insensitive", "AMI", "আমি", true},
		{"close spelling", "kobita", "কবিতা", true},
		{"name spelling", "rahim", "রহিম", true},
		{"unrelated", "xyz", "কবিতা", false},
		{"empty query", "", "কবিতা", false},
		{"no phonemes in text", "boi", "১২৩", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhoneticMatches(tt.query, tt.text))
		})
	}
}

func TestPhoneticTable_BuiltOnce(t *testing.T) {
	a := phoneticTable()
	b := phoneticTable()
	assert.Equal(t, reflect.ValueOf(a).Pointer(), reflect.ValueOf(b).Pointer())
}

func TestContainsBangla(t *testing.T) {
	assert.True(t, ContainsBangla("harry বই"))
	assert.False(t, ContainsBangla("harry potter"))
	assert.False(t, ContainsBangla("১২৩"), "digits are not letters")
	assert.False(t, ContainsBangla(""))
}

func TestIsLatin(t *testing.T) {
	assert.True(t, IsLatin("Harry Potter 7"))
	assert.False(t, IsLatin("বই"))
	assert.False(t, IsLatin("boi বই"))
	assert.False(t, IsLatin("123"))
	assert.False(t, IsLatin(""))
}
