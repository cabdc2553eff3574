// Package telemetry optionally publishes splitwing-cli operation outcomes
// to Redis, adapted from pkg/redis/client.go's WriteAndPublishString
// pipeline (hash write + channel publish in one round trip) narrowed to
// the one event shape the CLI emits.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateKey is the Redis hash the CLI's last operation is recorded under.
const StateKey = "splitwing:cli"

// Channel is the pub/sub channel each event is published on.
const Channel = "splitwing:cli:events"

// Sink publishes CLI operation outcomes. A nil *Sink is valid and treats
// every call as a no-op, so callers don't need to branch on whether
// --redis-addr was set.
type Sink struct {
	client *redis.Client
	ctx    context.Context
}

// Connect dials addr. Pass an empty addr to get a nil, no-op Sink.
func Connect(addr string) (*Sink, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("telemetry: connect to %s: %w", addr, err)
	}

	return &Sink{client: client, ctx: context.Background()}, nil
}

// Record writes the named operation's outcome to the state hash and
// publishes it on Channel.
func (s *Sink) Record(operation, outcome string) error {
	if s == nil {
		return nil
	}
	pipe := s.client.Pipeline()
	pipe.HSet(s.ctx, StateKey, operation, outcome)
	pipe.Publish(s.ctx, Channel, fmt.Sprintf("%s:%s", operation, outcome))
	_, err := pipe.Exec(s.ctx)
	return err
}

// Close releases the underlying connection. Safe to call on a nil Sink.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
