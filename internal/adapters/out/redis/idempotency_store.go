// Package redis keeps idempotency keys for order creation.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps two keys per request: a lock held while the order is
// being created and a mapping to the created order id. Both expire after ttl.
type IdempotencyStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyStore(rdb goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

const (
	lockKeyPrefix = "idemp:lock:"
	mapKeyPrefix  = "idemp:map:"
)

// Scope and key are escaped so a ':' in either cannot reach another
// customer's entry.
func lockKey(scope, key string) string {
	return lockKeyPrefix + url.QueryEscape(scope) + ":" + url.QueryEscape(key)
}

func mapKey(scope, key string) string {
	return mapKeyPrefix + url.QueryEscape(scope) + ":" + url.QueryEscape(key)
}

func (s *IdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, lockKey(scope, key), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock idempotency key: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.rdb.Del(ctx, lockKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Remember(ctx context.Context, scope, key string, orderID kernel.UUID) error {
	if err := s.rdb.Set(ctx, mapKey(scope, key), orderID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("remember idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Recall(ctx context.Context, scope, key string) (kernel.UUID, bool, error) {
	val, err := s.rdb.Get(ctx, mapKey(scope, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("recall idempotency key: %w", err)
	}

	id, err := kernel.UUIDFromString(val)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	return id, true, nil
}

// Ping is used by the health check.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
