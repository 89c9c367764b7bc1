// Package store persists the shelf catalog and answers the two questions the
// search engine asks of it: a cheap ordered substring lookup and a full scan.
//
// SQLite (modernc.org/sqlite, WAL mode) is the system of record. An optional
// Bleve index can serve the lookup side instead of SQL.
package store

import (
	"context"
	"strings"
	"time"
)

// Kind is the type of catalog item.
type Kind string

const (
	KindBook     Kind = "book"
	KindOrder    Kind = "order"
	KindNote     Kind = "note"
	KindReminder Kind = "reminder"
)

// ParseKind maps free text to a Kind. Unknown or empty values are books.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindOrder:
		return KindOrder
	case KindNote:
		return KindNote
	case KindReminder:
		return KindReminder
	default:
		return KindBook
	}
}

// Text is an optional text field. The zero value is absent.
type Text struct {
	value string
	ok    bool
}

// Some returns a present Text.
func Some(s string) Text { return Text{value: s, ok: true} }

// None returns an absent Text.
func None() Text { return Text{} }

// Optional is Some for non-blank input and None otherwise.
func Optional(s string) Text {
	if strings.TrimSpace(s) == "" {
		return None()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (t Text) Get() (string, bool) { return t.value, t.ok }

// Present reports whether the field has a value.
func (t Text) Present() bool { return t.ok }

// OrEmpty returns the value, or "" when absent.
func (t Text) OrEmpty() string { return t.value }

// Record is one searchable catalog item. Search code treats it as read-only.
type Record struct {
	ID        string
	Kind      Kind
	Name      string
	Author    Text
	Publisher Text
	Notes     Text
	UpdatedAt time.Time
}

// Catalog is what the search engine needs from storage.
type Catalog interface {
	// IndexedLookup returns records whose name, author or publisher contains
	// query case-insensitively, ordered exact name match, name prefix,
	// author match, rest; most recently updated first within each tier.
	IndexedLookup(ctx context.Context, query string) ([]Record, error)

	// FetchAllCandidates returns every record in the catalog.
	FetchAllCandidates(ctx context.Context) ([]Record, error)
}

// CatalogStore is a Catalog that can also be written and inspected.
type CatalogStore interface {
	Catalog

	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []Record) error

	// Delete removes records by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Get returns one record. The bool is false when the ID is unknown.
	Get(ctx context.Context, id string) (Record, bool, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Backend names the lookup implementation ("sqlite" or "bleve").
	Backend() Backend

	// Close releases the underlying resources.
	Close() error
}
