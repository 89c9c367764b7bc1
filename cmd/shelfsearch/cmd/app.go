package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/shelfsearch/internal/config"
	"github.com/Aman-CERP/shelfsearch/internal/search"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
)

// app is the wiring shared by commands that search: configuration, the
// catalog, optional telemetry and the engine.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog store.CatalogStore
	history *telemetry.SQLiteMetricsStore // nil when telemetry is off
	metrics *telemetry.QueryMetrics       // nil when telemetry is off
	engine  *search.Engine
}

// loadConfig loads configuration and applies --db.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Catalog.Path = dbPath
	}
	return cfg, nil
}

// openApp opens the catalog and builds the engine. Telemetry tables live in
// the catalog database, so they are only available when the catalog is
// backed by SQLite.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.Default()

	catalog, err := store.OpenCatalog(ctx, cfg.Catalog.Path, cfg.Backend(), logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, catalog: catalog}

	if cfg.Telemetry.Enabled {
		if err := a.openTelemetry(); err != nil {
			_ = catalog.Close()
			return nil, err
		}
	}

	a.engine, err = search.NewEngine(catalog, cfg.EngineConfig(),
		search.WithLogger(logger),
		search.WithMetrics(a.metrics))
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Suggestions.SeedFromHistory && a.history != nil {
		a.seedSuggestions()
	}
	return a, nil
}

func (a *app) openTelemetry() error {
	sq := store.SQLiteOf(a.catalog)
	if sq == nil {
		a.logger.Warn("telemetry_unavailable", slog.String("backend", string(a.catalog.Backend())))
		return nil
	}
	if err := telemetry.InitTelemetrySchema(sq.DB()); err != nil {
		return fmt.Errorf("failed to initialize telemetry schema: %w", err)
	}
	history, err := telemetry.NewSQLiteMetricsStore(sq.DB())
	if err != nil {
		return err
	}
	flush, err := a.cfg.Telemetry.FlushDuration()
	if err != nil {
		return err
	}

	a.history = history
	a.metrics = telemetry.NewQueryMetricsWithConfig(history, telemetry.QueryMetricsConfig{
		FlushInterval: flush,
		Logger:        a.logger,
	})
	return nil
}

// seedSuggestions restores the suggestion history from the query log.
// Failure only costs suggestions, so it is logged and ignored.
func (a *app) seedSuggestions() {
	entries, err := a.history.RecentQueries(a.engine.Config().SuggestionCapacity)
	if err != nil {
		a.logger.Warn("suggestion_seed_failed", slog.String("error", err.Error()))
		return
	}
	queries := make([]string, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, e.Query)
	}
	a.engine.SuggestionStore().Seed(queries)
	a.logger.Debug("suggestions_seeded", slog.Int("count", len(queries)))
}

// Close flushes telemetry and closes the catalog.
func (a *app) Close() error {
	var errs []error
	if a.metrics != nil {
		errs = append(errs, a.metrics.Close())
	}
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	errs = append(errs, a.catalog.Close())
	return errors.Join(errs...)
}
