package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
	"github.com/Aman-CERP/shelfsearch/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit   int
	jsonOut bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search book names, authors, publishers and notes.

Examples:
  shelfsearch search "harry potter"
  shelfsearch search boi
  shelfsearch search "হ্যারি পটার" --json
  shelfsearch search hobit --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default: search.max_results)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")

	return cmd
}

type searchHit struct {
	records []store.Record
	tier    telemetry.Tier
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	slog.Info("search_started", slog.String("query", query), slog.Int("limit", opts.limit))

	retry := shelferrors.DefaultRetryConfig()
	retry.MaxRetries = max(a.cfg.Search.RetryAttempts, 0)

	start := time.Now()
	hit, err := shelferrors.RetryWithResult(ctx, retry, func() (searchHit, error) {
		records, tier, err := a.engine.SearchWithTier(ctx, query)
		return searchHit{records, tier}, err
	})
	elapsed := time.Since(start)

	var warning string
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Error("search_failed", shelferrors.FormatForLog(err)...)
		warning = strings.TrimSpace(shelferrors.FormatForUser(err, debugMode))
	}

	records := hit.records
	if opts.limit > 0 && len(records) > opts.limit {
		records = records[:opts.limit]
	}

	slog.Info("search_completed",
		slog.String("tier", string(hit.tier)),
		slog.Int("result_count", len(records)),
		slog.Duration("duration", elapsed))

	rep := ui.NewSearchReport(query, string(hit.tier), elapsed, records)
	rep.Warning = warning

	return newResultRenderer(cmd, opts.jsonOut).RenderSearch(rep)
}

func newResultRenderer(cmd *cobra.Command, jsonOut bool) *ui.ResultRenderer {
	return ui.NewResultRenderer(cmd.OutOrStdout(), uiOptions(cmd, jsonOut))
}

// uiOptions resolves color and JSON output for the command's writer.
func uiOptions(cmd *cobra.Command, jsonOut bool) ui.Options {
	opts := ui.NewOptions(cmd.OutOrStdout(), ui.WithJSON(jsonOut))
	if noColor {
		opts.NoColor = true
	}
	return opts
}
