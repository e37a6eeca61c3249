package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenKey is the Redis key holding the shared aggregator token
const TokenKey = "shiprocket:auth_token"

// TokenStore shares the aggregator token between processes
type TokenStore interface {
	// Load returns the stored token, or an empty token when none is stored
	Load(ctx context.Context) (string, time.Time, error)
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context) error
}

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisTokenStore keeps the token in Redis with a TTL equal to its remaining validity
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

// NewRedisTokenStore creates a Redis backed token store
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: TokenKey}
}

// Load implements TokenStore
func (s *RedisTokenStore) Load(ctx context.Context) (string, time.Time, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}

	var tok storedToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", time.Time{}, err
	}
	return tok.Token, tok.ExpiresAt, nil
}

// Save implements TokenStore
func (s *RedisTokenStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(storedToken{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, raw, ttl).Err()
}

// Delete implements TokenStore
func (s *RedisTokenStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
