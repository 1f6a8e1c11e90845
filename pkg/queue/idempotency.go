package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore records which event IDs have already been processed so
// redelivered messages are acknowledged without reprocessing.
type IdempotencyStore interface {
	// MarkProcessed records the event ID. It returns true if this is the
	// first time the ID was seen, false if it was already recorded.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}

// MemoryIdempotencyStore keeps processed IDs in memory. Suitable for tests
// and single-instance deployments.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewMemoryIdempotencyStore creates an in-memory store with the given TTL.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// MarkProcessed implements IdempotencyStore.
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expires, ok := s.seen[eventID]; ok && now.Before(expires) {
		return false, nil
	}

	// Opportunistic sweep of expired entries.
	for id, expires := range s.seen {
		if now.After(expires) {
			delete(s.seen, id)
		}
	}

	s.seen[eventID] = now.Add(s.ttl)
	return true, nil
}

// RedisIdempotencyStore records processed IDs in Redis so deduplication
// holds across consumer instances and restarts.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed store.
func NewRedisIdempotencyStore(client *redis.Client, prefix string, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// MarkProcessed implements IdempotencyStore using SETNX.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("%s:%s", s.prefix, eventID)
	ok, err := s.client.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

// IdempotentHandler wraps a handler with event-ID deduplication. Already-seen
// events are acknowledged without invoking the inner handler. Store errors
// fail open: processing proceeds and the worst case is a duplicate apply,
// which downstream writes tolerate.
func IdempotentHandler(store IdempotencyStore, logger *slog.Logger, next Handler) Handler {
	return func(ctx context.Context, event *Event) error {
		first, err := store.MarkProcessed(ctx, event.EventID)
		if err != nil {
			logger.Warn("idempotency check failed, processing anyway",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return next(ctx, event)
		}
		if !first {
			logger.Info("duplicate event skipped", slog.String("event_id", event.EventID))
			duplicatesSkipped.WithLabelValues(event.EventType).Inc()
			return nil
		}
		return next(ctx, event)
	}
}
