package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryIdempotencyStore_FirstAndDuplicate(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := store.MarkProcessed(ctx, "ev-2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestMemoryIdempotencyStore_ExpiredIDCanBeReprocessed(t *testing.T) {
	store := NewMemoryIdempotencyStore(10 * time.Millisecond)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)

	time.Sleep(20 * time.Millisecond)

	again, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisIdempotencyStore_MarkProcessed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "ingest:processed", time.Hour)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, again)

	assert.True(t, mr.Exists("ingest:processed:ev-1"))
}

func TestRedisIdempotencyStore_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "ingest:processed", time.Minute)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	first, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)
}

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)

	calls := 0
	handler := IdempotentHandler(store, discardLogger(), func(context.Context, *Event) error {
		calls++
		return nil
	})

	ev, err := NewEvent("movie.submitted", "corr-1", "movie", "test", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), ev))
	require.NoError(t, handler(context.Background(), ev))
	assert.Equal(t, 1, calls)
}

func TestIdempotentHandler_FailsOpenOnStoreError(t *testing.T) {
	calls := 0
	handler := IdempotentHandler(failingStore{}, discardLogger(), func(context.Context, *Event) error {
		calls++
		return nil
	})

	ev, err := NewEvent("movie.submitted", "corr-1", "movie", "test", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), ev))
	require.NoError(t, handler(context.Background(), ev))
	assert.Equal(t, 2, calls)
}
