// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) SessionStore {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newMiniredisStore(t)
	ctx := context.Background()

	seen, err := store.Has(ctx, "session-a", "content-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "session-a", "content-1"))

	seen, err = store.Has(ctx, "session-a", "content-1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Sessions are isolated from each other.
	seen, err = store.Has(ctx, "session-b", "content-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Remove(ctx, "session-a", "content-1"))
	seen, err = store.Has(ctx, "session-a", "content-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisStore_SetsExpiry(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	require.NoError(t, store.Add(context.Background(), "session-a", "content-1"))

	ttl := server.TTL("views:session-a")
	assert.Greater(t, ttl.Seconds(), 0.0, "dedup sets must expire")
}
