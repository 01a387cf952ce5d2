package redisstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/redis/rueidis"
)

const (
	defaultBatchSize = 16
	defaultBlock     = 5 * time.Second
	retryBackoff     = time.Second
)

// ConsumerConfig identifies where a Consumer reads from.
type ConsumerConfig struct {
	Stream   string
	Group    string
	Consumer string

	// BatchSize caps entries fetched per read. Zero means 16.
	BatchSize int64
	// Block is how long a read waits for new entries. Zero means 5s.
	Block time.Duration
}

// Consumer reads a stream through a consumer group and passes every event to
// a handler. Entries are acknowledged only after the handler returns nil.
type Consumer struct {
	client  rueidis.Client
	cfg     ConsumerConfig
	handler events.EventHandler
	logger  *slog.Logger
}

// NewConsumer creates a Consumer.
func NewConsumer(client rueidis.Client, cfg ConsumerConfig, handler events.EventHandler, logger *slog.Logger) (*Consumer, error) {
	if cfg.Stream == "" || cfg.Group == "" || cfg.Consumer == "" {
		return nil, errors.New("stream, group and consumer names are required")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Block <= 0 {
		cfg.Block = defaultBlock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		client:  client,
		cfg:     cfg,
		handler: handler,
		logger: logger.With(
			"component", "redis_stream_consumer",
			"stream", cfg.Stream,
			"group", cfg.Group,
			"consumer", cfg.Consumer),
	}, nil
}

// EnsureGroup creates the consumer group, and the stream if needed.
// An existing group is not an error.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	cmd := c.client.B().XgroupCreate().Key(c.cfg.Stream).Group(c.cfg.Group).Id("0").Mkstream().Build()
	err := c.client.Do(ctx, cmd).Error()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", c.cfg.Group, err)
	}
	return nil
}

// Run consumes until ctx is cancelled. Pending entries (left by an earlier
// run or by a failed handler) are replayed at start and whenever the stream
// goes idle.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}
	c.logger.Info("consumer started")

	cursor := cursorPending
	for {
		if ctx.Err() != nil {
			c.logger.Info("consumer stopped")
			return nil
		}

		read, acked, err := c.poll(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			c.logger.Error("failed to read stream", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}
			continue
		}
		cursor = nextCursor(cursor, read, acked)
	}
}

const (
	cursorPending = "0"
	cursorNew     = ">"
)

// nextCursor leaves replay once a pass acknowledges nothing, and returns to
// it when a blocking read for new entries comes back empty.
func nextCursor(cursor string, read, acked int) string {
	switch {
	case cursor == cursorPending && acked == 0:
		return cursorNew
	case cursor == cursorNew && read == 0:
		return cursorPending
	default:
		return cursor
	}
}

// poll reads one batch and handles it. It returns how many entries were read
// and how many of them were acknowledged.
func (c *Consumer) poll(ctx context.Context, cursor string) (read, acked int, err error) {
	cmd := c.client.B().Xreadgroup().
		Group(c.cfg.Group, c.cfg.Consumer).
		Count(c.cfg.BatchSize).
		Block(c.cfg.Block.Milliseconds()).
		Streams().Key(c.cfg.Stream).Id(cursor).
		Build()

	streams, err := c.client.Do(ctx, cmd).AsXRead()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	entries := streams[c.cfg.Stream]
	for _, entry := range entries {
		if c.process(ctx, entry) {
			acked++
		}
	}
	return len(entries), acked, nil
}

// process handles one entry and reports whether it was acknowledged.
func (c *Consumer) process(ctx context.Context, entry rueidis.XRangeEntry) bool {
	log := c.logger.With("entry_id", entry.ID)

	event, err := events.Decode([]byte(entry.FieldValues[EventField]))
	if err != nil {
		// Unreadable entries would be redelivered forever.
		log.Error("dropping malformed entry", "error", err)
		return c.ack(ctx, entry.ID)
	}

	if err := c.handler.HandleEvent(ctx, event); err != nil {
		log.Error("handler failed, entry left pending",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		return false
	}
	return c.ack(ctx, entry.ID)
}

func (c *Consumer) ack(ctx context.Context, id string) bool {
	cmd := c.client.B().Xack().Key(c.cfg.Stream).Group(c.cfg.Group).Id(id).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Error("failed to acknowledge entry", "error", err, "entry_id", id)
		return false
	}
	return true
}
