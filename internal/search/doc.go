// Package search ranks catalog records against free-text queries that may
// contain typos, Bangla script, or Latin transliterations of Bangla words.
//
// Retrieval is two-tier. The catalog's cheap substring lookup runs first;
// when it returns too few records the Engine scans the whole catalog, scoring
// every record with weighted per-field similarity plus the contributions of
// the query's transliterated variations.
package search
