package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend selects how IndexedLookup is served.
type Backend string

const (
	// BackendSQLite answers lookups with instr() over folded columns (default).
	BackendSQLite Backend = "sqlite"

	// BackendBleve answers lookups from a Bleve keyword index kept beside
	// the database. Storage stays in SQLite.
	BackendBleve Backend = "bleve"
)

// ParseBackend validates a backend name. Empty means sqlite.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendSQLite, "":
		return BackendSQLite, nil
	case BackendBleve:
		return BackendBleve, nil
	default:
		return "", fmt.Errorf("unknown catalog backend: %s (valid options: sqlite, bleve)", s)
	}
}

// LookupIndexPath is where the Bleve backend keeps its index for a catalog.
func LookupIndexPath(catalogPath string) string {
	if catalogPath == "" {
		return ""
	}
	return catalogPath + ".bleve"
}

// OpenCatalog opens the catalog at path with the chosen lookup backend.
// An empty path gives an in-memory catalog.
func OpenCatalog(ctx context.Context, path string, backend Backend, logger *slog.Logger) (CatalogStore, error) {
	base, err := NewSQLiteCatalog(path)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendSQLite, "":
		return base, nil
	case BackendBleve:
		bc, err := NewBleveCatalog(ctx, base, LookupIndexPath(path), logger)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		return bc, nil
	default:
		_ = base.Close()
		return nil, fmt.Errorf("unknown catalog backend: %s (valid options: sqlite, bleve)", backend)
	}
}

// SQLiteOf returns the SQLite catalog underneath any CatalogStore opened by
// OpenCatalog, or nil.
func SQLiteOf(cs CatalogStore) *SQLiteCatalog {
	switch c := cs.(type) {
	case *SQLiteCatalog:
		return c
	case *BleveCatalog:
		return c.SQLiteCatalog
	default:
		return nil
	}
}
