package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is an adapter backed by a go-redis universal client. Values are
// stored as JSON, so they come back in the generic decoded form
// (map[string]any, float64, ...).
//
// The client's lifecycle belongs to the caller; the adapter never closes it.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a Redis adapter.
type RedisOption func(*Redis)

// WithKeyPrefix prepends prefix to every key. Useful when several cache
// instances share one Redis database.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// NewRedis creates a Redis adapter from an initialized client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Get retrieves a value. redis.Nil is a normal miss; every other error is a
// backend failure.
func (r *Redis) Get(ctx context.Context, key string) (any, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false, fmt.Errorf("store: failed to decode cached value: %w", err)
	}
	return value, true, nil
}

// Set stores a value. A positive ttlHint maps to native Redis expiry.
func (r *Redis) Set(ctx context.Context, key string, value any, ttlHint time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: failed to encode cached value: %w", err)
	}
	if ttlHint < 0 {
		ttlHint = 0
	}
	return r.client.Set(ctx, r.prefix+key, data, ttlHint).Err()
}

// Destroy removes a value. Idempotent - no error on miss.
func (r *Redis) Destroy(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// ID reports the adapter identity.
func (r *Redis) ID() string {
	return "redis"
}

// Ensure Redis implements Adapter
var _ Adapter = (*Redis)(nil)
