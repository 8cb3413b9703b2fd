package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/tally/internal/sqlite"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd, opts.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "database ready: %s\n", opts.cfg.DB.Path)
			return nil
		},
	}
}

// openDB opens the database at path and applies migrations.
func openDB(cmd *cobra.Command, path string) (*sqlite.DB, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrationsContext(cmd.Context()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
