// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mizusawa-dev/kakeroku/internal/platform/constants"
)

// # Redis Session Store

// redisStore implements [SessionStore] on a Redis set per browser session.
//
// Key layout: views:{sessionID} → SET of content UUIDs. The whole set
// expires after [constants.ViewSetTTL] of inactivity, bounding memory to
// active sessions.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis backed session store.
func NewRedisStore(client *redis.Client) SessionStore {
	return &redisStore{client: client}
}

// key builds the dedup set key for one session.
func (store *redisStore) key(sessionID string) string {
	return "views:" + sessionID
}

func (store *redisStore) Has(ctx context.Context, sessionID, contentID string) (bool, error) {
	seen, err := store.client.SIsMember(ctx, store.key(sessionID), contentID).Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to check view membership: %w", err)
	}
	return seen, nil
}

func (store *redisStore) Add(ctx context.Context, sessionID, contentID string) error {
	key := store.key(sessionID)

	// SADD and the TTL refresh ride one pipeline round-trip.
	pipe := store.client.TxPipeline()
	pipe.SAdd(ctx, key, contentID)
	pipe.Expire(ctx, key, constants.ViewSetTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: failed to mark view: %w", err)
	}
	return nil
}

func (store *redisStore) Remove(ctx context.Context, sessionID, contentID string) error {
	if err := store.client.SRem(ctx, store.key(sessionID), contentID).Err(); err != nil {
		return fmt.Errorf("redis: failed to unmark view: %w", err)
	}
	return nil
}
