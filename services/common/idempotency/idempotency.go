// Package idempotency remembers which order a client-supplied
// Idempotency-Key produced, so a retried POST returns the same order.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyOrder   = "idem:order:%s:%s"
	pending    = "pending"
	DefaultTTL = 24 * time.Hour
	pendingTTL = 2 * time.Minute
)

// ErrInProgress means another request holding the same key has not finished.
var ErrInProgress = errors.New("a request with this idempotency key is in progress")

// Store reserves keys before work starts and records the result after.
type Store interface {
	// Reserve returns the stored order ID when the key already completed.
	// reserved is true when the caller now owns the key.
	Reserve(ctx context.Context, userID, key string) (orderID string, reserved bool, err error)
	Complete(ctx context.Context, userID, key, orderID string) error
	Release(ctx context.Context, userID, key string)
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	return redis.NewClient(opts), nil
}

type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(userID, key string) string {
	return fmt.Sprintf(keyOrder, userID, key)
}

func (s *RedisStore) Reserve(ctx context.Context, userID, key string) (string, bool, error) {
	k := redisKey(userID, key)
	ok, err := s.client.SetNX(ctx, k, pending, pendingTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// expired between SETNX and GET; try once more
		return s.Reserve(ctx, userID, key)
	case err != nil:
		return "", false, fmt.Errorf("read idempotency key: %w", err)
	case val == pending:
		return "", false, ErrInProgress
	}
	return val, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := s.client.Set(ctx, redisKey(userID, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("store idempotency result: %w", err)
	}
	return nil
}

// Release frees a reserved key after a failed attempt so the client may retry.
func (s *RedisStore) Release(ctx context.Context, userID, key string) {
	_ = s.client.Del(ctx, redisKey(userID, key)).Err()
}

// Nop is used when Redis is not configured; every request is treated as new.
type Nop struct{}

func (Nop) Reserve(context.Context, string, string) (string, bool, error) { return "", true, nil }
func (Nop) Complete(context.Context, string, string, string) error        { return nil }
func (Nop) Release(context.Context, string, string)                       {}
