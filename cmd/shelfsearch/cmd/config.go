package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/shelfsearch/configs"
	"github.com/Aman-CERP/shelfsearch/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Configuration is merged from, in increasing precedence:
  1. built-in defaults
  2. the user config ($XDG_CONFIG_HOME/shelfsearch/config.yaml)
  3. the file given with --config
  4. SHELFSEARCH_* environment variables`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the commented config template to the user config path",
		Long: `Write the commented config template to the user config path.
An existing file is kept unless --force is given; with --force it is
backed up first (the newest three backups are kept).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config after backing it up")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := cmd.OutOrStdout()
	path := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			_, _ = fmt.Fprintf(out, "Config already exists: %s\nUse --force to overwrite it (a backup is kept).\n", path)
			return nil
		}
		backup, err := config.Backup(path)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Backed up existing config to %s\n", backup)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
