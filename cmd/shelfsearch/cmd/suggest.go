package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "suggest <partial query>",
		Short: "Suggest past queries matching a partial query",
		Long: `Suggest previously searched queries. History is restored from the
query log when telemetry and suggestions.seed_from_history are enabled.

Examples:
  shelfsearch suggest har
  shelfsearch suggest kob --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.Context(), cmd, strings.Join(args, " "), limit, jsonOut)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of suggestions (default: suggestions.limit)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func runSuggest(ctx context.Context, cmd *cobra.Command, partial string, limit int, jsonOut bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if limit <= 0 {
		limit = a.cfg.Suggestions.Limit
	}
	suggestions := a.engine.Suggestions(partial, limit)

	return newResultRenderer(cmd, jsonOut).RenderSuggestions(partial, suggestions)
}
