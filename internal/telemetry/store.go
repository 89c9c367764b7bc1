package telemetry

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	// ZeroResultLogSize bounds the persisted zero-result log.
	ZeroResultLogSize = 100
	// QueryLogSize bounds the persisted query log. It matches the
	// suggestion buffer so a restart can refill it completely.
	QueryLogSize = 1000
)

// SQLiteMetricsStore implements QueryMetricsStore on the catalog database.
type SQLiteMetricsStore struct {
	db *sql.DB
}

// NewSQLiteMetricsStore wraps an open database. Call InitTelemetrySchema first.
func NewSQLiteMetricsStore(db *sql.DB) (*SQLiteMetricsStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &SQLiteMetricsStore{db: db}, nil
}

// InitTelemetrySchema creates the telemetry tables if they don't exist.
func InitTelemetrySchema(db *sql.DB) error {
	schema := `
	-- searches per retrieval tier, per day
	CREATE TABLE IF NOT EXISTS search_tier_stats (
		date TEXT NOT NULL,
		tier TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, tier)
	);

	CREATE TABLE IF NOT EXISTS search_terms (
		term TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		last_seen INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_search_terms_count ON search_terms(count DESC);

	CREATE TABLE IF NOT EXISTS zero_result_queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		ts INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS search_latency_stats (
		date TEXT NOT NULL,
		bucket TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, bucket)
	);

	CREATE TABLE IF NOT EXISTS query_log (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		tier TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		ts INTEGER NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create telemetry schema: %w", err)
	}
	return nil
}

// addDaily adds counts to a (date, key) keyed counter table.
func addDaily[K ~string](db *sql.DB, table, keyCol, date string, counts map[K]int64) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (date, %s, count) VALUES (?, ?, ?)
		ON CONFLICT(date, %s) DO UPDATE SET count = count + excluded.count
	`, table, keyCol, keyCol))
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for k, n := range counts {
		if _, err := stmt.Exec(date, string(k), n); err != nil {
			return fmt.Errorf("add %s count: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sumDaily totals a daily counter table over an inclusive date range.
func sumDaily[K ~string](db *sql.DB, table, keyCol, from, to string) (map[K]int64, error) {
	rows, err := db.Query(fmt.Sprintf(`
		SELECT %s, SUM(count) FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY %s
	`, keyCol, table, keyCol), from, to)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	counts := make(map[K]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[K(key)] = n
	}
	return counts, rows.Err()
}

// SaveTierCounts adds to the daily per-tier counts.
func (s *SQLiteMetricsStore) SaveTierCounts(date string, counts map[Tier]int64) error {
	return addDaily(s.db, "search_tier_stats", "tier", date, counts)
}

// GetTierCounts sums tier counts over an inclusive date range.
func (s *SQLiteMetricsStore) GetTierCounts(from, to string) (map[Tier]int64, error) {
	return sumDaily[Tier](s.db, "search_tier_stats", "tier", from, to)
}

// SaveLatencyCounts adds to the daily latency histogram.
func (s *SQLiteMetricsStore) SaveLatencyCounts(date string, counts map[LatencyBucket]int64) error {
	return addDaily(s.db, "search_latency_stats", "bucket", date, counts)
}

// GetLatencyCounts sums the latency histogram over a date range.
func (s *SQLiteMetricsStore) GetLatencyCounts(from, to string) (map[LatencyBucket]int64, error) {
	return sumDaily[LatencyBucket](s.db, "search_latency_stats", "bucket", from, to)
}

// UpsertTermCounts adds to term frequency counts.
func (s *SQLiteMetricsStore) UpsertTermCounts(terms map[string]int64) error {
	if len(terms) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO search_terms (term, count, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			count = count + excluded.count,
			last_seen = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for term, n := range terms {
		if _, err := stmt.Exec(term, n, now); err != nil {
			return fmt.Errorf("upsert term count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetTopTerms retrieves the top N terms by frequency. Ties go to the
// alphabetically first term.
func (s *SQLiteMetricsStore) GetTopTerms(limit int) ([]TermCount, error) {
	rows, err := s.db.Query(`
		SELECT term, count FROM search_terms
		ORDER BY count DESC, term
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top terms: %w", err)
	}
	defer rows.Close()

	terms := []TermCount{}
	for rows.Next() {
		var tc TermCount
		if err := rows.Scan(&tc.Term, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		terms = append(terms, tc)
	}
	return terms, rows.Err()
}

// AddZeroResultQuery appends to the zero-result log, keeping the newest
// ZeroResultLogSize entries.
func (s *SQLiteMetricsStore) AddZeroResultQuery(query string, timestamp time.Time) error {
	if _, err := s.db.Exec(`INSERT INTO zero_result_queries (query, ts) VALUES (?, ?)`,
		query, timestamp.UnixNano()); err != nil {
		return fmt.Errorf("insert zero-result query: %w", err)
	}
	return s.trim("zero_result_queries", "id", ZeroResultLogSize)
}

// GetZeroResultQueries retrieves recent zero-result queries, newest first.
func (s *SQLiteMetricsStore) GetZeroResultQueries(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT query FROM zero_result_queries
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query zero-result queries: %w", err)
	}
	defer rows.Close()

	queries := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// AppendQueryLog appends completed searches, keeping the newest
// QueryLogSize rows.
func (s *SQLiteMetricsStore) AppendQueryLog(events []QueryEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO query_log (query, tier, result_count, ts) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.Query, string(ev.Tier), ev.ResultCount, ev.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("append query log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return s.trim("query_log", "seq", QueryLogSize)
}

// RecentQueries returns up to limit logged queries, oldest first.
func (s *SQLiteMetricsStore) RecentQueries(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = QueryLogSize
	}
	rows, err := s.db.Query(`
		SELECT seq, query, tier, result_count, ts FROM (
			SELECT * FROM query_log ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent queries: %w", err)
	}
	defer rows.Close()

	entries := []LogEntry{}
	for rows.Next() {
		var (
			e    LogEntry
			tier string
			ts   int64
		)
		if err := rows.Scan(&e.Seq, &e.Query, &tier, &e.ResultCount, &ts); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Tier = Tier(tier)
		e.Timestamp = time.Unix(0, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteMetricsStore) trim(table, idCol string, keep int) error {
	_, err := s.db.Exec(fmt.Sprintf(`
		DELETE FROM %s WHERE %s NOT IN (
			SELECT %s FROM %s ORDER BY %s DESC LIMIT ?
		)
	`, table, idCol, idCol, table, idCol), keep)
	if err != nil {
		return fmt.Errorf("trim %s: %w", table, err)
	}
	return nil
}

// Close is a no-op. The database belongs to the catalog.
func (s *SQLiteMetricsStore) Close() error {
	return nil
}
