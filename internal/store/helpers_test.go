package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func book(id, name, author string, age time.Duration) Record {
	return Record{
		ID:        id,
		Kind:      KindBook,
		Name:      name,
		Author:    Optional(author),
		UpdatedAt: baseTime.Add(-age),
	}
}

// fixtureRecords covers every lookup tier for the query "potter".
func fixtureRecords() []Record {
	return []Record{
		book("p-old-exact", "Potter", "", 48*time.Hour),
		book("p-new-exact", "potter", "", time.Hour),
		book("p-prefix", "Potter's Field", "Patricia Cornwell", 2*time.Hour),
		book("pottery", "Pottery Barn Catalog", "", 3*time.Hour),
		book("hp1", "Harry Potter and the Philosopher's Stone", "J.K. Rowling", 5*time.Hour),
		book("bio", "A Life in Clay", "Beatrix Potter", 4*time.Hour),
		{ID: "pub", Kind: KindBook, Name: "Garden Notes", Publisher: Some("Potter Press"), UpdatedAt: baseTime},
		book("hobbit", "The Hobbit", "J.R.R. Tolkien", 6*time.Hour),
	}
}

func newTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	c, err := NewSQLiteCatalog("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func seed(t *testing.T, cs CatalogStore, records []Record) {
	t.Helper()
	require.NoError(t, cs.Upsert(context.Background(), records))
}
