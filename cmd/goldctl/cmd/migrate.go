package cmd

import (
	"fmt"

	"github.com/amirasaad/goldvault/infra"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				// InitializeDependencies already migrates up.
				rt, done, err := opts.bootstrap(cmd)
				if err != nil {
					return err
				}
				defer done()
				success(cmd.OutOrStdout(), "database at %s is up to date", rt.cfg.DB.MigrationsPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations (postgres only)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, done, err := opts.bootstrap(cmd)
				if err != nil {
					return err
				}
				defer done()
				if err := infra.MigrateDown(rt.deps.DB, rt.cfg.DB.MigrationsPath); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				success(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			},
		},
	)
	return cmd
}
