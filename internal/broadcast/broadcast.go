package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/zaapr0x/mc-hook/pkg/event"
)

// Channel is the Redis Pub/Sub channel carrying live hook events.
const Channel = "mchook:events"

// Publisher publishes hook events to Redis Pub/Sub for live
// distribution to consoles and stream clients.
type Publisher struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewPublisher creates a new event publisher. The client is owned by
// the caller.
func NewPublisher(redisClient *redis.Client, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish sends one event to the live channel.
func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	data, err := e.Marshal()
	if err != nil {
		p.logger.Error("Failed to marshal event", "error", err, "event_id", e.ID)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, Channel, data).Err(); err != nil {
		p.logger.Error("Failed to publish event", "error", err, "channel", Channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"channel", Channel,
		"event_type", e.Type,
		"event_id", e.ID,
	)
	return nil
}

// Append implements the event sink interface, so a recorder pump can
// feed the live channel alongside the journal.
func (p *Publisher) Append(ctx context.Context, e event.Event) error {
	return p.Publish(ctx, e)
}

// Subscribe delivers decoded live events until ctx is cancelled. The
// returned channel closes when the subscription ends.
func Subscribe(ctx context.Context, redisClient *redis.Client, logger *slog.Logger) (<-chan event.Event, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pubsub := redisClient.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel, err)
	}

	out := make(chan event.Event, 64)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				e, err := event.Unmarshal([]byte(msg.Payload))
				if err != nil {
					logger.Warn("Skipping unreadable event", "error", err, "channel", Channel)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
