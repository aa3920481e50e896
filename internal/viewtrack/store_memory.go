// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"context"
	"sync"
)

// memoryStore is an in-process SessionStore for tests and single-node
// development runs. It never expires entries.
type memoryStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

// NewMemoryStore constructs an in-memory session store.
func NewMemoryStore() SessionStore {
	return &memoryStore{sets: make(map[string]map[string]struct{})}
}

func (store *memoryStore) Has(_ context.Context, sessionID, contentID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.sets[sessionID][contentID]
	return ok, nil
}

func (store *memoryStore) Add(_ context.Context, sessionID, contentID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.sets[sessionID] == nil {
		store.sets[sessionID] = make(map[string]struct{})
	}
	store.sets[sessionID][contentID] = struct{}{}
	return nil
}

func (store *memoryStore) Remove(_ context.Context, sessionID, contentID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sets[sessionID], contentID)
	return nil
}
