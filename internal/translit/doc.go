// Package translit bridges Bangla and Latin spellings of the same words.
//
// Two static tables back it: a per-character phonetic mapping used for
// approximate cross-script matching, and a word dictionary used to rewrite
// whole queries from one script to the other. Both are built once on first
// use and are read-only afterwards.
package translit
