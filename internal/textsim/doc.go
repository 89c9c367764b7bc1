// Package textsim holds the string primitives every search path shares:
// rune-level Levenshtein distance, the similarity ratio derived from it,
// multi-script normalization and word-tolerant containment.
//
// All functions are pure and total, including on empty input.
package textsim
