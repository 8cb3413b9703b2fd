package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/tally/internal/config"
)

// version is set at build time.
var version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string

	cfg config.Config
}

// NewRootCommand creates the root command for the tally CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "tally",
		Short:   "Shared daily trackers with streaks and community stats",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath != "" {
				if err := os.Setenv("TALLY_CONFIG_PATH", opts.ConfigPath); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if opts.DBPath != "" {
				cfg.DB.Path = opts.DBPath
			}
			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (overrides TALLY_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (overrides TALLY_DB_PATH)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewAPIKeyCommand(opts))

	return cmd
}
