package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// RedisClient defines the interface for Redis operations.
// This interface is compatible with github.com/redis/go-redis/v9.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd
	Get(ctx context.Context, key string) RedisStringCmd
	Del(ctx context.Context, keys ...string) RedisIntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) RedisBoolCmd
	Close() error
}

// RedisStatusCmd represents a Redis status command result.
type RedisStatusCmd interface {
	Err() error
}

// RedisStringCmd represents a Redis string command result.
type RedisStringCmd interface {
	Bytes() ([]byte, error)
	Err() error
}

// RedisIntCmd represents a Redis int command result.
type RedisIntCmd interface {
	Err() error
}

// RedisBoolCmd represents a Redis bool command result.
type RedisBoolCmd interface {
	Err() error
}

// ErrRedisNil is returned when a key doesn't exist in Redis.
// This should match redis.Nil from go-redis.
var ErrRedisNil = errors.New("redis: nil")

// RedisStore is a Redis-backed Store.
// It's suitable for multi-server deployments with shared state.
type RedisStore struct {
	client RedisClient
	prefix string
	closed bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix for stored entries.
// Default: "gouse:state:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "gouse:state:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
	}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

// Save stores a value with an expiration time. A zero expiresAt stores
// the value without a TTL.
func (r *RedisStore) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	if r.closed {
		return ErrStoreClosed{}
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			// Already expired, delete instead.
			return r.Delete(ctx, key)
		}
	}

	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Load retrieves a value if it exists. Redis handles expiry itself,
// so a missing key and an expired key look the same.
func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if r.closed {
		return nil, ErrStoreClosed{}
	}

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if isRedisNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a key from Redis.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.closed {
		return ErrStoreClosed{}
	}
	return r.client.Del(ctx, r.key(key)).Err()
}

// Touch updates the TTL for a key. A zero expiresAt is a no-op since
// Redis cannot cheaply clear a TTL through this interface.
func (r *RedisStore) Touch(ctx context.Context, key string, expiresAt time.Time) error {
	if r.closed {
		return ErrStoreClosed{}
	}
	if expiresAt.IsZero() {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}

	err := r.client.Expire(ctx, r.key(key), ttl).Err()
	if err != nil && isRedisNil(err) {
		return nil
	}
	return err
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.client.Close()
}

func isRedisNil(err error) bool {
	return errors.Is(err, ErrRedisNil) || strings.Contains(err.Error(), "redis: nil")
}
