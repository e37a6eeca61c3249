package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WebhookEventTTL is how long a processed webhook event id is remembered
const WebhookEventTTL = 48 * time.Hour

// EventStore remembers processed webhook deliveries
type EventStore interface {
	// MarkProcessed returns true when the event id was not seen before
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// Forget releases an event id whose processing failed so a retry is accepted
	Forget(ctx context.Context, eventID string) error
}

// RedisEventStore implements EventStore with SETNX
type RedisEventStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisEventStore creates an event store on an existing client
func NewRedisEventStore(client *redis.Client) *RedisEventStore {
	return &RedisEventStore{client: client, keyPrefix: "webhook:event:"}
}

func (s *RedisEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event as processed: %w", err)
	}
	return ok, nil
}

func (s *RedisEventStore) Forget(ctx context.Context, eventID string) error {
	return s.client.Del(ctx, s.keyPrefix+eventID).Err()
}
