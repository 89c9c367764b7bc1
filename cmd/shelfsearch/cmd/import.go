package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/ui"
)

// maxParallelSeedFiles bounds concurrent seed file parsing.
const maxParallelSeedFiles = 4

type importOptions struct {
	keepGoing bool
	jsonOut   bool
	watch     bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <seed.yaml>...",
		Short: "Import records from YAML seed files",
		Long: `Import catalog records from one or more YAML files. Each file is a list:

  - id: hobbit            # optional, derived from kind/name/author when missing
    kind: book            # book (default), order, note, reminder
    name: The Hobbit
    author: J.R.R. Tolkien
    publisher: Allen & Unwin
    notes: first edition

Records are upserted by id in one transaction. By default a file that
fails to parse aborts the import; --keep-going skips it instead.

With --watch the command keeps running and re-imports a file whenever it
is saved. Parse errors while watching are reported and the previous
records are kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Skip seed files that fail to parse")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output summary as JSON")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-import files when they change")

	return cmd
}

func runImport(ctx context.Context, cmd *cobra.Command, files []string, opts importOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lock := store.NewFileLock(cfg.Catalog.Path)
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return shelferrors.New(shelferrors.ErrCodeCatalogLocked, "another import is writing to the catalog", nil).
			WithDetail("lock", lock.Path()).
			WithSuggestion("Wait for the other import to finish and retry")
	}
	defer func() { _ = lock.Unlock() }()

	reporter := ui.NewImportReporter(cmd.OutOrStdout(), uiOptions(cmd, opts.jsonOut))
	batches, failed, err := loadSeedFiles(ctx, files, opts.keepGoing, reporter)
	if err != nil {
		return err
	}
	records := slices.Concat(batches...)

	catalog, err := store.OpenCatalog(ctx, cfg.Catalog.Path, cfg.Backend(), slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	if err := catalog.Upsert(ctx, records); err != nil {
		return err
	}
	total, err := catalog.Count(ctx)
	if err != nil {
		return err
	}

	summary := ui.ImportSummary{
		Files:    len(files) - failed,
		Records:  len(records),
		Failed:   failed,
		Total:    total,
		Duration: time.Since(start),
	}
	slog.Info("import_completed",
		slog.Int("files", summary.Files),
		slog.Int("records", summary.Records),
		slog.Int("failed", summary.Failed),
		slog.Int("catalog_total", total))

	if err := reporter.Complete(summary); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}
	return watchSeedFiles(ctx, catalog, files, reporter)
}

// loadSeedFiles parses files concurrently. Batches keep argument order so
// later files win when two define the same id. Without keepGoing the first
// failure cancels the rest and is returned.
func loadSeedFiles(ctx context.Context, files []string, keepGoing bool, reporter *ui.ImportReporter) ([][]store.Record, int, error) {
	now := time.Now()
	batches := make([][]store.Record, len(files))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSeedFiles)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := store.LoadSeedFile(path, now)
			if err != nil {
				reporter.FileFailed(path, err)
				failed.Add(1)
				if keepGoing {
					slog.Warn("seed_file_skipped", append([]any{slog.String("path", path)}, shelferrors.FormatForLog(err)...)...)
					return nil
				}
				return fmt.Errorf("%s: %w", path, err)
			}
			batches[i] = records
			reporter.FileLoaded(path, len(records))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, int(failed.Load()), err
	}
	return batches, int(failed.Load()), nil
}
