// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package reader

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

type fakeStore struct {
	progress map[string]spoiler.Progress
}

func (f *fakeStore) GetProgress(_ context.Context, userID string) (spoiler.Progress, error) {
	progress, ok := f.progress[userID]
	if !ok {
		return 0, apperr.NotFound("user")
	}
	return progress, nil
}

func (f *fakeStore) SetProgress(_ context.Context, userID string, progress spoiler.Progress) error {
	if _, ok := f.progress[userID]; !ok {
		return apperr.NotFound("user")
	}
	f.progress[userID] = progress
	return nil
}

type fakeIndex struct{ max int64 }

func (f *fakeIndex) MaxChapterNumber(context.Context) (int64, error) {
	return f.max, nil
}

func newTestService(max int64) (*Service, *fakeStore) {
	store := &fakeStore{progress: map[string]spoiler.Progress{"reader-1": 25}}
	return NewService(store, &fakeIndex{max: max}, slog.Default()), store
}

func TestUpdate_WithinBounds(t *testing.T) {
	service, store := newTestService(100)

	status, err := service.Update(context.Background(), "reader-1", UpdateInput{Progress: 60})
	require.NoError(t, err)
	assert.Equal(t, spoiler.Progress(60), status.Progress)
	assert.Equal(t, int64(100), status.MaxChapter)
	assert.Equal(t, spoiler.Progress(60), store.progress["reader-1"])

	// Lowering progress is an explicit, legitimate request.
	status, err = service.Update(context.Background(), "reader-1", UpdateInput{Progress: 10})
	require.NoError(t, err)
	assert.Equal(t, spoiler.Progress(10), status.Progress)
}

func TestUpdate_RejectsOutOfRange(t *testing.T) {
	service, store := newTestService(100)

	for _, progress := range []int64{-1, 101} {
		_, err := service.Update(context.Background(), "reader-1", UpdateInput{Progress: progress})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}

	assert.Equal(t, spoiler.Progress(25), store.progress["reader-1"], "failed updates must not persist")
}

func TestAdminSet_RequiresAdminRole(t *testing.T) {
	service, store := newTestService(100)

	moderator := moderation.Actor{ID: "mod-1", Role: sec.RoleModerator}
	_, err := service.AdminSet(context.Background(), moderator, "reader-1", UpdateInput{Progress: 50})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	admin := moderation.Actor{ID: "admin-1", Role: sec.RoleAdmin}
	status, err := service.AdminSet(context.Background(), admin, "reader-1", UpdateInput{Progress: 50})
	require.NoError(t, err)
	assert.Equal(t, spoiler.Progress(50), status.Progress)
	assert.Equal(t, spoiler.Progress(50), store.progress["reader-1"])
}

func TestAdminSet_UnrestrictedSentinel(t *testing.T) {
	service, store := newTestService(100)
	admin := moderation.Actor{ID: "admin-1", Role: sec.RoleAdmin}

	// The sentinel sits far above the chapter bound, yet the admin path
	// accepts it and lifts every gate for the account.
	status, err := service.AdminSet(context.Background(), admin, "reader-1", UpdateInput{
		Progress: int64(spoiler.Unrestricted),
	})
	require.NoError(t, err)
	assert.Equal(t, spoiler.Unrestricted, status.Progress)
	assert.Equal(t, int64(100), status.MaxChapter)
	assert.Equal(t, spoiler.Unrestricted, store.progress["reader-1"])

	// Self-service updates can never reach it.
	_, err = service.Update(context.Background(), "reader-1", UpdateInput{
		Progress: int64(spoiler.Unrestricted),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Concrete admin values still obey the bound.
	_, err = service.AdminSet(context.Background(), admin, "reader-1", UpdateInput{Progress: 101})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestGet_ReturnsProgressAndBound(t *testing.T) {
	service, _ := newTestService(77)

	status, err := service.Get(context.Background(), "reader-1")
	require.NoError(t, err)
	assert.Equal(t, spoiler.Progress(25), status.Progress)
	assert.Equal(t, int64(77), status.MaxChapter)
}
