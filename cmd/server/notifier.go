package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldcrew/maintenance-api/internal/config"
	"github.com/fieldcrew/maintenance-api/internal/notify"
	"github.com/fieldcrew/maintenance-api/internal/platform/redisstream"
	"github.com/spf13/cobra"
)

// newNotifierCmd runs the consumer side of "performed" notifications.
// With the memory driver the API process delivers notifications itself, so
// there is nothing to consume.
func newNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Consume task performed events and notify managers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			nc := cfg.Notification
			if nc.Driver != config.NotificationDriverRedis {
				return errors.New("notifier requires the redis notification driver")
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := redisstream.NewClient(ctx, nc.RedisAddr)
			if err != nil {
				return err
			}
			defer client.Close()

			consumer, err := redisstream.NewConsumer(client, redisstream.ConsumerConfig{
				Stream:   nc.Stream,
				Group:    nc.ConsumerGroup,
				Consumer: nc.ConsumerName,
			}, notify.NewLogHandler(log), log)
			if err != nil {
				return err
			}
			if err := consumer.EnsureGroup(ctx); err != nil {
				return err
			}

			log.Info("notifier started", "stream", nc.Stream, "group", nc.ConsumerGroup)
			err = consumer.Run(ctx)
			log.Info("notifier stopped")
			return err
		},
	}
}
