package main

import (
	"fmt"

	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db, command, log); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}
			return nil
		},
	}
}
