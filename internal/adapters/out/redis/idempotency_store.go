// Package redis keeps request idempotency keys in Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces idempotency keys.
const DefaultKeyPrefix = "fulfillment:idem:"

// IdempotencyStore records keys with SETNX and a TTL.
type IdempotencyStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewIdempotencyStore(rdb redis.Cmdable, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &IdempotencyStore{rdb: rdb, prefix: prefix}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// Seen records key for ttl and reports whether it was already recorded.
func (s *IdempotencyStore) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, errs.NewValueIsRequiredError("idempotency key")
	}
	if ttl <= 0 {
		return false, errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "unbounded")
	}

	ok, err := s.rdb.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("record idempotency key: %w", err)
	}
	return !ok, nil
}

// Forget removes key so a failed request can be retried with it.
func (s *IdempotencyStore) Forget(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("forget idempotency key: %w", err)
	}
	return nil
}

// NewClient connects to addr and pings it.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}
