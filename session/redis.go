package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	olleh "github.com/olleh-rw/olleh-go"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key the session pair is stored under.
const DefaultRedisKey = "olleh:session"

// Redis shares one session across processes through a Redis key.
type Redis struct {
	client *redis.Client
	key    string
}

var _ olleh.SessionStore = (*Redis)(nil)

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKey overrides the Redis key, e.g. to hold one session per user.
func WithKey(key string) RedisOption {
	return func(r *Redis) { r.key = key }
}

// NewRedis creates a Redis-backed store on an existing client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, key: DefaultRedisKey}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Get reads the stored token pair, or returns nil when the key is absent.
func (r *Redis) Get(ctx context.Context) (*olleh.TokenPair, error) {
	data, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get %s: %w", r.key, err)
	}

	var pair olleh.TokenPair
	if err := json.Unmarshal([]byte(data), &pair); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", r.key, err)
	}
	return &pair, nil
}

// Set replaces the stored token pair. No TTL: the tokens carry their own expiry.
func (r *Redis) Set(ctx context.Context, pair olleh.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set %s: %w", r.key, err)
	}
	return nil
}

// Clear deletes the session key.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("session: redis del %s: %w", r.key, err)
	}
	return nil
}
