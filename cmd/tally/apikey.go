package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/tally/internal/sqlite"
)

// NewAPIKeyCommand creates the apikey command group.
func NewAPIKeyCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage bearer tokens",
	}
	cmd.AddCommand(newAPIKeyCreateCommand(opts))
	return cmd
}

func newAPIKeyCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		userID      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mint a bearer token for a user",
		Long: `Mint a bearer token for a user and print it once. Only a hash of the
token is stored.

Example:
  tally apikey create --user alice --description "phone"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}

			db, err := openDB(cmd, opts.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			token := newToken()
			if err := sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), token, userID, description); err != nil {
				return fmt.Errorf("failed to store api key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id the token authenticates as (required)")
	cmd.Flags().StringVar(&description, "description", "", "free-form note stored with the key")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newToken() string {
	return "tally_" + strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
