// Package querycache caches serialized list responses in redis, keyed by
// resource name plus the canonical listquery key. Any mutation on a resource
// invalidates the whole resource prefix so every mounted list view refetches.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Store is a redis-backed response cache.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// New creates a cache store. A nil tracer falls back to the global provider.
func New(rdb *redis.Client, ttl time.Duration, tracer trace.Tracer) *Store {
	if rdb == nil {
		panic("querycache: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("upcharify.internal.querycache")
	}
	return &Store{redis: rdb, ttl: ttl, tracer: tracer}
}

// Get loads a cached response into dest. The bool result reports a hit; a
// miss is not an error.
func (s *Store) Get(ctx context.Context, resource, key string, dest any) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "querycache.get")
	defer span.End()

	data, err := s.redis.Get(ctx, cacheKey(resource, key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("querycache: failed to load %s entry: %w", resource, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("querycache: failed to decode %s entry: %w", resource, err)
	}
	return true, nil
}

// Set stores a response under the resource/key pair with the store TTL.
func (s *Store) Set(ctx context.Context, resource, key string, value any) error {
	ctx, span := s.tracer.Start(ctx, "querycache.set")
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("querycache: failed to marshal %s entry: %w", resource, err)
	}
	if err := s.redis.Set(ctx, cacheKey(resource, key), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("querycache: failed to persist %s entry: %w", resource, err)
	}
	return nil
}

// Invalidate drops every cached entry for a resource. Invalidating a resource
// with no entries is a no-op, so repeated invalidation is safe.
func (s *Store) Invalidate(ctx context.Context, resource string) error {
	ctx, span := s.tracer.Start(ctx, "querycache.invalidate")
	defer span.End()

	var cursor uint64
	pattern := cacheKey(resource, "*")
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("querycache: failed to scan %s entries: %w", resource, err)
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				span.RecordError(err)
				return fmt.Errorf("querycache: failed to invalidate %s entries: %w", resource, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func cacheKey(resource, key string) string {
	return fmt.Sprintf("cache:%s:%s", resource, key)
}
