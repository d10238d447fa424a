package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/zaapr0x/mc-hook/pkg/event"
)

const journalKey = "mchook:journal"

// Redis keeps the newest events in a capped Redis list. The client is
// owned by the caller and may be shared with other components.
type Redis struct {
	rdb       *redis.Client
	retention int
	log       *slog.Logger
}

// Ensure Redis implements the Journal interface
var _ Journal = (*Redis)(nil)

// NewRedis creates a Redis-backed journal keeping at most retention
// events. retention zero keeps everything.
func NewRedis(rdb *redis.Client, retention int, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Redis{rdb: rdb, retention: retention, log: log}
}

// Append prepends the event and trims the list to the retention cap.
func (r *Redis) Append(ctx context.Context, e event.Event) error {
	raw, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := r.rdb.LPush(ctx, journalKey, raw).Err(); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	if r.retention > 0 {
		if err := r.rdb.LTrim(ctx, journalKey, 0, int64(r.retention-1)).Err(); err != nil {
			return fmt.Errorf("failed to trim journal: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *Redis) Recent(ctx context.Context, limit int) ([]event.Event, error) {
	end := int64(limit - 1)
	if limit <= 0 {
		end = -1
	}
	rows, err := r.rdb.LRange(ctx, journalKey, 0, end).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		e, err := event.Unmarshal([]byte(row))
		if err != nil {
			r.log.Warn("Skipping unreadable journal entry", "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client belongs to the caller.
func (r *Redis) Close() error {
	return nil
}
