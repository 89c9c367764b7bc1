package mcp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/shelfsearch/internal/config"
	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/search"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// brokenCatalog fails every lookup while still answering Count.
type brokenCatalog struct {
	*store.SQLiteCatalog
	err error
}

func (b *brokenCatalog) IndexedLookup(context.Context, string) ([]store.Record, error) {
	return nil, b.err
}

func fixtureRecords() []store.Record {
	records := []store.Record{
		{ID: "hobbit", Kind: store.KindBook, Name: "The Hobbit", Author: store.Some("J.R.R. Tolkien"), UpdatedAt: baseTime},
		{ID: "boi", Kind: store.KindBook, Name: "বই মেলা", Author: store.Some("আহমেদ"), UpdatedAt: baseTime},
		{ID: "order1", Kind: store.KindOrder, Name: "Order for Dhaka shop", Notes: store.Some("deliver friday"), UpdatedAt: baseTime},
	}
	for i := 1; i <= 12; i++ {
		records = append(records, store.Record{
			ID:        fmt.Sprintf("potter%02d", i),
			Kind:      store.KindBook,
			Name:      fmt.Sprintf("Potter Volume %d", i),
			Author:    store.Some("J.K. Rowling"),
			UpdatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	return records
}

func newTestCatalog(t *testing.T) *store.SQLiteCatalog {
	t.Helper()
	c, err := store.NewSQLiteCatalog("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Upsert(context.Background(), fixtureRecords()))
	return c
}

func newTestServerWith(t *testing.T, catalog store.CatalogStore) *Server {
	t.Helper()
	engine, err := search.NewEngine(catalog, search.DefaultConfig())
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.Catalog.Path = "/tmp/shelf/catalog.db"

	s, err := NewServer(engine, catalog, cfg)
	require.NoError(t, err)
	return s
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, newTestCatalog(t))
}

func newBrokenServer(t *testing.T) *Server {
	t.Helper()
	broken := &brokenCatalog{
		SQLiteCatalog: newTestCatalog(t),
		err:           shelferrors.CatalogError("catalog lookup failed", fmt.Errorf("disk I/O error")),
	}
	return newTestServerWith(t, broken)
}

func newMetrics(t *testing.T) *telemetry.QueryMetrics {
	t.Helper()
	m := telemetry.NewQueryMetrics(nil)
	t.Cleanup(func() { _ = m.Close() })
	return m
}
