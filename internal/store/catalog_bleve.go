package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// lookupDoc is what the Bleve index stores per record: folded copies of the
// fields the lookup matches on, each indexed as a single keyword term.
type lookupDoc struct {
	Name      string `json:"name_lc"`
	Author    string `json:"author_lc"`
	Publisher string `json:"publisher_lc"`
}

var lookupFields = []string{"name_lc", "author_lc", "publisher_lc"}

// BleveCatalog serves IndexedLookup from a Bleve keyword index and delegates
// storage to a SQLiteCatalog. Writes go to both.
type BleveCatalog struct {
	*SQLiteCatalog

	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
	logger *slog.Logger
}

var _ CatalogStore = (*BleveCatalog)(nil)

// validateLookupIndex checks index_meta.json before opening so a
// half-written index is rebuilt instead of failing every lookup.
func validateLookupIndex(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(path, "index_meta.json"))
	if err != nil {
		return fmt.Errorf("cannot read index_meta.json: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("index_meta.json is empty")
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("index_meta.json is corrupt: %w", err)
	}
	return nil
}

func lookupMapping() mapping.IndexMapping {
	field := bleve.NewTextFieldMapping()
	field.Analyzer = keyword.Name
	field.Store = false
	field.IncludeTermVectors = false

	doc := bleve.NewDocumentStaticMapping()
	for _, name := range lookupFields {
		doc.AddFieldMappingsAt(name, field)
	}

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = keyword.Name
	return m
}

// NewBleveCatalog opens the lookup index at indexPath ("" = in memory) on
// top of base, rebuilding it when its document count disagrees with base.
func NewBleveCatalog(ctx context.Context, base *SQLiteCatalog, indexPath string, logger *slog.Logger) (*BleveCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		idx bleve.Index
		err error
	)
	if indexPath == "" {
		idx, err = bleve.NewMemOnly(lookupMapping())
	} else {
		if validErr := validateLookupIndex(indexPath); validErr != nil {
			logger.Warn("lookup_index_corrupted",
				slog.String("path", indexPath),
				slog.String("error", validErr.Error()))
			if rmErr := os.RemoveAll(indexPath); rmErr != nil {
				return nil, fmt.Errorf("lookup index corrupted at %s and cannot remove: %w", indexPath, rmErr)
			}
		}
		idx, err = bleve.Open(indexPath)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(indexPath, lookupMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create/open lookup index: %w", err)
	}

	bc := &BleveCatalog{SQLiteCatalog: base, index: idx, path: indexPath, logger: logger}
	if err := bc.syncWithBase(ctx); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return bc, nil
}

// syncWithBase rebuilds the index from SQLite when the counts differ.
func (b *BleveCatalog) syncWithBase(ctx context.Context) error {
	want, err := b.SQLiteCatalog.Count(ctx)
	if err != nil {
		return err
	}
	have, err := b.index.DocCount()
	if err != nil {
		return fmt.Errorf("failed to count lookup index: %w", err)
	}
	if int(have) == want {
		return nil
	}

	b.logger.Info("lookup_index_rebuild",
		slog.Int("catalog_records", want),
		slog.Uint64("indexed_records", have))

	records, err := b.SQLiteCatalog.FetchAllCandidates(ctx)
	if err != nil {
		return err
	}

	// drop stale IDs first
	all := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	all.Size = int(have)
	res, err := b.index.SearchInContext(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to list lookup index: %w", err)
	}
	batch := b.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	for _, r := range records {
		if err := batch.Index(r.ID, toLookupDoc(r)); err != nil {
			return fmt.Errorf("failed to index record %s: %w", r.ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to rebuild lookup index: %w", err)
	}
	return nil
}

func toLookupDoc(r Record) lookupDoc {
	return lookupDoc{
		Name:      foldCase(r.Name),
		Author:    foldCase(r.Author.OrEmpty()),
		Publisher: foldCase(r.Publisher.OrEmpty()),
	}
}

// Backend implements CatalogStore.
func (b *BleveCatalog) Backend() Backend { return BackendBleve }

// IndexedLookup matches the folded query as a literal substring of the
// keyword fields, then loads the hits from SQLite and applies the tier
// ordering in Go.
func (b *BleveCatalog) IndexedLookup(ctx context.Context, q string) ([]Record, error) {
	folded := foldCase(strings.TrimSpace(q))
	if folded == "" {
		return []Record{}, nil
	}
	// regexp terms must match the whole keyword, hence the .* on both sides
	pattern := "(?s).*" + regexp.QuoteMeta(folded) + ".*"

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("lookup index is closed")
	}

	disjuncts := make([]query.Query, 0, len(lookupFields))
	for _, field := range lookupFields {
		rq := bleve.NewRegexpQuery(pattern)
		rq.SetField(field)
		disjuncts = append(disjuncts, rq)
	}

	count, err := b.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count lookup index: %w", err)
	}
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(disjuncts...))
	req.Size = int(count)
	req.Fields = []string{}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("indexed lookup failed: %w", err)
	}

	ids := make([]string, len(res.Hits))
	for i, hit := range res.Hits {
		ids[i] = hit.ID
	}
	records, err := b.SQLiteCatalog.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return SortByLookupPriority(records, folded), nil
}

// Upsert writes SQLite first, then the lookup index.
func (b *BleveCatalog) Upsert(ctx context.Context, records []Record) error {
	if err := b.SQLiteCatalog.Upsert(ctx, records); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("lookup index is closed")
	}

	batch := b.index.NewBatch()
	for _, r := range records {
		if err := batch.Index(r.ID, toLookupDoc(r)); err != nil {
			return fmt.Errorf("failed to index record %s: %w", r.ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

// Delete removes records from SQLite and the lookup index.
func (b *BleveCatalog) Delete(ctx context.Context, ids []string) error {
	if err := b.SQLiteCatalog.Delete(ctx, ids); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("lookup index is closed")
	}

	batch := b.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Close closes the lookup index and then the catalog.
func (b *BleveCatalog) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	idxErr := b.index.Close()
	b.mu.Unlock()

	if err := b.SQLiteCatalog.Close(); err != nil {
		return err
	}
	return idxErr
}
