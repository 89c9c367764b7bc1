package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
)

// SQLiteCatalog is the system of record for catalog items.
type SQLiteCatalog struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

var _ CatalogStore = (*SQLiteCatalog)(nil)

const recordColumns = `id, kind, name, author, publisher, notes, updated_at`

// checkIntegrity runs PRAGMA integrity_check on an existing database file.
// Unlike a derived index the catalog is never deleted on failure.
func checkIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// NewSQLiteCatalog opens (or creates) the catalog at path.
// An empty path gives an in-memory catalog for tests.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	dsn := ":memory:"
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		if err := checkIntegrity(path); err != nil {
			return nil, shelferrors.New(shelferrors.ErrCodeCatalogCorrupt, "catalog failed integrity check", err).
				WithDetail("path", path).
				WithSuggestion("Restore the catalog from a backup or re-import your seed files into a new --db path")
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection: a single writer, and :memory: stays one database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// modernc.org/sqlite ignores most DSN parameters, so pragmas go here
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -16384", // 16MB
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	c := &SQLiteCatalog{db: db, path: path}
	if err := c.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCatalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	-- *_lc columns hold Unicode-folded copies for case-insensitive instr()
	CREATE TABLE IF NOT EXISTS items (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL DEFAULT 'book',
		name         TEXT NOT NULL,
		author       TEXT,
		publisher    TEXT,
		notes        TEXT,
		name_lc      TEXT NOT NULL,
		author_lc    TEXT NOT NULL DEFAULT '',
		publisher_lc TEXT NOT NULL DEFAULT '',
		updated_at   INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_updated ON items(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := c.db.Exec(schema)
	return err
}

// DB exposes the connection so query analytics can live in the same file.
func (c *SQLiteCatalog) DB() *sql.DB { return c.db }

// Path returns the database path ("" for in-memory).
func (c *SQLiteCatalog) Path() string { return c.path }

// Backend implements CatalogStore.
func (c *SQLiteCatalog) Backend() Backend { return BackendSQLite }

// IndexedLookup implements Catalog with instr() over the folded columns.
func (c *SQLiteCatalog) IndexedLookup(ctx context.Context, query string) ([]Record, error) {
	q := foldCase(strings.TrimSpace(query))
	if q == "" {
		return []Record{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM items
		WHERE instr(name_lc, ?1) > 0 OR instr(author_lc, ?1) > 0 OR instr(publisher_lc, ?1) > 0
		ORDER BY
			CASE
				WHEN name_lc = ?1 THEN 0
				WHEN instr(name_lc, ?1) = 1 THEN 1
				WHEN instr(author_lc, ?1) > 0 THEN 2
				ELSE 3
			END,
			updated_at DESC,
			id
	`, q)
	if err != nil {
		return nil, fmt.Errorf("indexed lookup failed: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// FetchAllCandidates implements Catalog.
func (c *SQLiteCatalog) FetchAllCandidates(ctx context.Context) ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM items ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates failed: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetMany returns the records with the given IDs in no particular order.
// Unknown IDs are skipped.
func (c *SQLiteCatalog) GetMany(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return []Record{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE id IN (%s)`,
		recordColumns, strings.Join(placeholders, ","))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Get implements CatalogStore.
func (c *SQLiteCatalog) Get(ctx context.Context, id string) (Record, bool, error) {
	recs, err := c.GetMany(ctx, []string{id})
	if err != nil || len(recs) == 0 {
		return Record{}, false, err
	}
	return recs[0], true, nil
}

// Count implements CatalogStore.
func (c *SQLiteCatalog) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return 0, fmt.Errorf("catalog is closed")
	}

	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Upsert implements CatalogStore. All records are written in one transaction;
// a record without an ID or name rejects the whole batch.
func (c *SQLiteCatalog) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return err.WithDetail("index", fmt.Sprint(i))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("catalog is closed")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, kind, name, author, publisher, notes, name_lc, author_lc, publisher_lc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			author = excluded.author,
			publisher = excluded.publisher,
			notes = excluded.notes,
			name_lc = excluded.name_lc,
			author_lc = excluded.author_lc,
			publisher_lc = excluded.publisher_lc,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range records {
		updated := r.UpdatedAt
		if updated.IsZero() {
			updated = now
		}
		kind := r.Kind
		if kind == "" {
			kind = KindBook
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, string(kind), r.Name,
			nullable(r.Author), nullable(r.Publisher), nullable(r.Notes),
			foldCase(r.Name), foldCase(r.Author.OrEmpty()), foldCase(r.Publisher.OrEmpty()),
			updated.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Delete implements CatalogStore.
func (c *SQLiteCatalog) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("catalog is closed")
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM items WHERE id IN (%s)", strings.Join(placeholders, ","))
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database.
func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.path != "" {
		_, _ = c.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return c.db.Close()
}

func validateRecord(r Record) *shelferrors.ShelfError {
	if strings.TrimSpace(r.ID) == "" {
		return shelferrors.New(shelferrors.ErrCodeInvalidRecord, "record has no id", nil)
	}
	if strings.TrimSpace(r.Name) == "" {
		return shelferrors.New(shelferrors.ErrCodeInvalidRecord, "record has no name", nil).
			WithDetail("id", r.ID)
	}
	return nil
}

func nullable(t Text) sql.NullString {
	v, ok := t.Get()
	return sql.NullString{String: v, Valid: ok}
}

func fromNullable(ns sql.NullString) Text {
	if !ns.Valid {
		return None()
	}
	return Some(ns.String)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	out := []Record{}
	for rows.Next() {
		var (
			r                        Record
			kind                     string
			author, publisher, notes sql.NullString
			updated                  int64
		)
		if err := rows.Scan(&r.ID, &kind, &r.Name, &author, &publisher, &notes, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Kind = Kind(kind)
		r.Author = fromNullable(author)
		r.Publisher = fromNullable(publisher)
		r.Notes = fromNullable(notes)
		r.UpdatedAt = time.Unix(0, updated)
		out = append(out, r)
	}
	return out, rows.Err()
}
