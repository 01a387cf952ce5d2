package redisstream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// EventField is the stream entry field holding the encoded event.
const EventField = "event"

// NewClient connects to the Redis server at addr and verifies it answers.
func NewClient(ctx context.Context, addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
