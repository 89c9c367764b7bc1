// Package cmd provides the CLI commands for shelfsearch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/logging"
	"github.com/Aman-CERP/shelfsearch/internal/profiling"
	"github.com/Aman-CERP/shelfsearch/pkg/version"
)

// Persistent flags
var (
	dbPath     string
	configPath string
	debugMode  bool
	noColor    bool
)

// Profiling flags
var (
	profileCPU string
	profileMem string
)

var (
	loggingCleanup func()
	cpuCleanup     func()
	profiler       *profiling.Profiler
)

// NewRootCmd creates the root command for the shelfsearch CLI.
func NewRootCmd() *cobra.Command {
	dbPath, configPath, debugMode, noColor = "", "", false, false
	profileCPU, profileMem = "", ""
	profiler = profiling.NewProfiler()

	cmd := &cobra.Command{
		Use:   "shelfsearch",
		Short: "Typo-tolerant Latin/Bangla search over a local book and order catalog",
		Long: `shelfsearch finds books, orders and notes in a local catalog.

Queries may be typed in Bangla script or in Latin transliteration
("boi", "lekhok"), and misspellings are tolerated. A cheap indexed
lookup runs first; when it finds fewer than three records the whole
catalog is ranked by fuzzy similarity.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("shelfsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Catalog database path (overrides catalog.path)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file loaded after the user config")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.shelfsearch/logs/ and stderr")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write heap profile to file on exit")

	cmd.PersistentPreRunE = startLoggingAndProfiling
	cmd.PersistentPostRunE = stopLoggingAndProfiling

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLoggingAndProfiling routes slog to the rotating log file and starts
// CPU profiling when asked. Stdout stays reserved for command output, which
// matters for `serve`.
func startLoggingAndProfiling(_ *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if debugMode {
		slog.Debug("Debug logging enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("version", version.Version))
	}

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return err
		}
	}
	return nil
}

func stopLoggingAndProfiling(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			slog.Warn("heap_profile_failed", slog.String("error", err.Error()))
		}
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command and prints coded errors for the terminal.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		_, _ = fmt.Fprint(os.Stderr, shelferrors.FormatForCLI(err))
	}
	return err
}
