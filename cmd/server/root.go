package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/config"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "maintenance-api",
		Short:        "Maintenance task tracking service",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newNotifierCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)
	return root
}

// bootstrap loads configuration and sets up the default logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Debug("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"notification_driver", cfg.Notification.Driver)
	return cfg, log, nil
}

// commandContext returns the command's context, which cobra leaves nil when
// Execute is used instead of ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
