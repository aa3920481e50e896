// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// fakeRecorder counts durable writes and optionally fails them.
type fakeRecorder struct {
	views map[string]int
	fail  bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{views: make(map[string]int)}
}

func (f *fakeRecorder) RecordView(_ context.Context, _, contentID, _ string) error {
	if f.fail {
		return errors.New("database unavailable")
	}
	f.views[contentID]++
	return nil
}

func newTestTracker(recorder Recorder) (*Tracker, SessionStore) {
	sessions := NewMemoryStore()
	return NewTracker(sessions, recorder, slog.Default()), sessions
}

func TestRecord_CountsOncePerSession(t *testing.T) {
	recorder := newFakeRecorder()
	tracker, _ := newTestTracker(recorder)

	contentID := uuid.New()
	ctx := context.Background()

	// Three views from the same session count once.
	tracker.Record(ctx, "session-a", "annotation", contentID)
	tracker.Record(ctx, "session-a", "annotation", contentID)
	tracker.Record(ctx, "session-a", "annotation", contentID)
	assert.Equal(t, 1, recorder.views[contentID])

	// A different session counts again.
	tracker.Record(ctx, "session-b", "annotation", contentID)
	assert.Equal(t, 2, recorder.views[contentID])
}

func TestRecord_SkipsInvalidInput(t *testing.T) {
	recorder := newFakeRecorder()
	tracker, sessions := newTestTracker(recorder)

	ctx := context.Background()
	contentID := uuid.New()

	// Empty session: cookie minting failed upstream, tracking degrades.
	tracker.Record(ctx, "", "annotation", contentID)

	// Garbage IDs and unknown types never reach the recorder.
	tracker.Record(ctx, "session-a", "annotation", "not-a-uuid")
	tracker.Record(ctx, "session-a", "annotation", "42")
	tracker.Record(ctx, "session-a", "poem", contentID)

	assert.Empty(t, recorder.views)

	seen, err := sessions.Has(ctx, "session-a", contentID)
	require.NoError(t, err)
	assert.False(t, seen, "rejected input must not mark the session")
}

func TestRecord_RollsBackMarkOnRecorderFailure(t *testing.T) {
	recorder := newFakeRecorder()
	recorder.fail = true
	tracker, sessions := newTestTracker(recorder)

	ctx := context.Background()
	contentID := uuid.New()

	// The failed write must not leave the session marked, so the view
	// stays retryable.
	tracker.Record(ctx, "session-a", "guide", contentID)

	seen, err := sessions.Has(ctx, "session-a", contentID)
	require.NoError(t, err)
	assert.False(t, seen)

	// Once the sink recovers the same session's view counts.
	recorder.fail = false
	tracker.Record(ctx, "session-a", "guide", contentID)
	assert.Equal(t, 1, recorder.views[contentID])

	seen, err = sessions.Has(ctx, "session-a", contentID)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seen, err := store.Has(ctx, "s", "c")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "s", "c"))
	seen, _ = store.Has(ctx, "s", "c")
	assert.True(t, seen)

	require.NoError(t, store.Remove(ctx, "s", "c"))
	seen, _ = store.Has(ctx, "s", "c")
	assert.False(t, seen)
}
