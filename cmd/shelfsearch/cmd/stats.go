package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
	"github.com/Aman-CERP/shelfsearch/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var jsonOut bool
	var days int
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog size and query statistics",
		Long: `Display the catalog record count and persisted query telemetry:
  - indexed vs fuzzy tier mix
  - top query terms
  - zero-result queries
  - latency distribution`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, jsonOut, days, top)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to include")
	cmd.Flags().IntVar(&top, "top", 10, "Number of top terms to show")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, jsonOut bool, days, top int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog, err := store.OpenCatalog(ctx, cfg.Catalog.Path, cfg.Backend(), slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	count, err := catalog.Count(ctx)
	if err != nil {
		return err
	}

	info := ui.StatsInfo{
		CatalogPath: cfg.Catalog.Path,
		Backend:     string(catalog.Backend()),
		RecordCount: count,
		Days:        days,
	}

	if sq := store.SQLiteOf(catalog); cfg.Telemetry.Enabled && sq != nil {
		if err := telemetry.InitTelemetrySchema(sq.DB()); err != nil {
			return err
		}
		history, err := telemetry.NewSQLiteMetricsStore(sq.DB())
		if err != nil {
			return err
		}
		info.Queries, err = telemetry.LoadHistory(history, days, top, time.Now())
		if err != nil {
			return err
		}
	}

	return ui.NewStatsRenderer(cmd.OutOrStdout(), uiOptions(cmd, jsonOut)).Render(info)
}
