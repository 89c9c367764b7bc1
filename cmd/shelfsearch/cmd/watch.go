package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/ui"
	"github.com/Aman-CERP/shelfsearch/internal/watcher"
)

// watchSeedFiles re-imports seed files as they change until interrupted.
// The import lock stays held for the whole session.
func watchSeedFiles(ctx context.Context, catalog store.CatalogStore, files []string, reporter *ui.ImportReporter) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(files, watcher.DefaultOptions())
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("watcher_stopped", slog.String("error", err.Error()))
		}
	}()

	slog.Info("watch_started", slog.Int("files", len(files)))
	for {
		select {
		case <-ctx.Done():
			slog.Info("watch_stopped")
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("watcher_error", slog.String("error", err.Error()))
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := reimport(ctx, catalog, batch, reporter); err != nil {
				return err
			}
		}
	}
}

// reimport upserts every written file in batch. A file that fails to parse
// is reported and skipped; a catalog write failure ends the session.
func reimport(ctx context.Context, catalog store.CatalogStore, batch []watcher.FileEvent, reporter *ui.ImportReporter) error {
	start := time.Now()
	var records []store.Record
	var files, failed int

	for _, ev := range batch {
		if ev.Operation != watcher.OpWrite {
			slog.Info("seed_file_removed", slog.String("path", ev.Path))
			continue
		}
		recs, err := store.LoadSeedFile(ev.Path, time.Now())
		if err != nil {
			reporter.FileFailed(ev.Path, err)
			slog.Warn("seed_file_skipped", append([]any{slog.String("path", ev.Path)}, shelferrors.FormatForLog(err)...)...)
			failed++
			continue
		}
		reporter.FileLoaded(ev.Path, len(recs))
		records = append(records, recs...)
		files++
	}
	if files == 0 && failed == 0 {
		return nil
	}

	if err := catalog.Upsert(ctx, records); err != nil {
		return err
	}
	total, err := catalog.Count(ctx)
	if err != nil {
		return err
	}
	return reporter.Complete(ui.ImportSummary{
		Files:    files,
		Records:  len(records),
		Failed:   failed,
		Total:    total,
		Duration: time.Since(start),
	})
}
