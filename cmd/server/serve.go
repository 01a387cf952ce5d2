package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("failed to close database connection", "error", err)
				}
			}()
			log.Info("database connection established")

			if migrate {
				if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
					return err
				}
			}

			app, err := newApplication(ctx, cfg, log, db)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
