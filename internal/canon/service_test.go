// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package canon

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
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # Test Fakes

type fakeRepository struct {
	entities map[string]*Entity
	edits    []*EntityEdit
	maxCh    int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{entities: make(map[string]*Entity)}
}

func (f *fakeRepository) FindBySlug(_ context.Context, kind Kind, entitySlug string) (*Entity, error) {
	for _, entity := range f.entities {
		if entity.Kind == kind && entity.Slug == entitySlug {
			copied := *entity
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("entity")
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Entity, error) {
	entity, ok := f.entities[id]
	if !ok {
		return nil, apperr.NotFound("entity")
	}
	copied := *entity
	return &copied, nil
}

func (f *fakeRepository) List(_ context.Context, filter EntityFilter, _ pagination.Params) ([]*Entity, int, error) {
	var result []*Entity
	for _, entity := range f.entities {
		if filter.Kind != "" && entity.Kind != filter.Kind {
			continue
		}
		copied := *entity
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (f *fakeRepository) Create(_ context.Context, entity *Entity) error {
	for _, existing := range f.entities {
		if existing.Kind == entity.Kind && existing.Slug == entity.Slug {
			return apperr.Conflict("entity already exists")
		}
	}
	copied := *entity
	f.entities[entity.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, entity *Entity, edit *EntityEdit) error {
	stored, ok := f.entities[entity.ID]
	if !ok {
		return apperr.NotFound("entity")
	}
	stored.Name = entity.Name
	stored.Summary = entity.Summary
	stored.Body = entity.Body
	stored.Spoiler = entity.Spoiler
	f.edits = append(f.edits, edit)
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	if _, ok := f.entities[id]; !ok {
		return apperr.NotFound("entity")
	}
	delete(f.entities, id)
	return nil
}

func (f *fakeRepository) ListChapters(_ context.Context, _ pagination.Params) ([]*Chapter, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) MaxChapterNumber(_ context.Context) (int64, error) {
	return f.maxCh, nil
}

func (f *fakeRepository) ListEditsByEditor(_ context.Context, editorID string, _ pagination.Params) ([]*EntityEdit, int, error) {
	var result []*EntityEdit
	for _, edit := range f.edits {
		if edit.EditorID == editorID {
			result = append(result, edit)
		}
	}
	return result, len(result), nil
}

func (f *fakeRepository) CountEditsByEditor(_ context.Context, editorID string) (map[Kind]int64, error) {
	counts := make(map[Kind]int64)
	for _, edit := range f.edits {
		if edit.EditorID == editorID {
			counts[edit.EntityKind]++
		}
	}
	return counts, nil
}

type fakeProgress struct {
	values map[string]spoiler.Progress
}

func (f *fakeProgress) ProgressFor(_ context.Context, userID string) (spoiler.Progress, error) {
	return f.values[userID], nil
}

// # Fixtures

var (
	testMember    = moderation.Actor{ID: "member-1", Role: sec.RoleMember}
	testModerator = moderation.Actor{ID: "mod-1", Role: sec.RoleModerator}
)

func newTestService() (*Service, *fakeRepository, *fakeProgress) {
	repository := newFakeRepository()
	progress := &fakeProgress{values: map[string]spoiler.Progress{}}
	return NewService(repository, progress, slog.Default()), repository, progress
}

func seedEntity(repository *fakeRepository, marker spoiler.Marker) *Entity {
	entity := &Entity{
		ID:      uuid.New(),
		Kind:    KindCharacter,
		Slug:    "yumeko-jabami",
		Name:    "Yumeko Jabami",
		Summary: "A transfer student with a taste for risk.",
		Body:    "Full biography with late-arc revelations.",
		Spoiler: marker,
	}
	repository.entities[entity.ID] = entity
	return entity
}

// # Retrieval

func TestGetBySlug_RedactsBodyByProgress(t *testing.T) {
	service, repository, progress := newTestService()
	entity := seedEntity(repository, spoiler.ForChapter(40))
	progress.values[testMember.ID] = 10

	// Below the threshold: identity stays, body is replaced.
	view, err := service.GetBySlug(context.Background(), &testMember, KindCharacter, entity.Slug)
	require.NoError(t, err)
	assert.Equal(t, entity.Name, view.Name)
	assert.Equal(t, entity.Summary, view.Summary)
	assert.False(t, view.Visible)
	assert.Empty(t, view.Body)
	assert.Contains(t, view.Placeholder, "40")

	// At the threshold: fully visible.
	progress.values[testMember.ID] = 40
	view, err = service.GetBySlug(context.Background(), &testMember, KindCharacter, entity.Slug)
	require.NoError(t, err)
	assert.True(t, view.Visible)
	assert.Equal(t, entity.Body, view.Body)
}

func TestGetBySlug_AnonymousSeesNonSpoilerOnly(t *testing.T) {
	service, repository, _ := newTestService()

	open := seedEntity(repository, spoiler.None)
	view, err := service.GetBySlug(context.Background(), nil, KindCharacter, open.Slug)
	require.NoError(t, err)
	assert.True(t, view.Visible)

	open.Spoiler = spoiler.ForChapter(1)
	view, err = service.GetBySlug(context.Background(), nil, KindCharacter, open.Slug)
	require.NoError(t, err)
	assert.False(t, view.Visible)
}

func TestGetBySlug_UnknownKindIsValidationError(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.GetBySlug(context.Background(), nil, Kind("weapon"), "anything")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Curation

func TestCreate_StaffOnlyAndSlugged(t *testing.T) {
	service, repository, _ := newTestService()

	input := CreateEntityInput{
		Kind: KindGamble,
		Name: "Double Concentration",
		Body: "Rules and known cheats.",
	}

	_, err := service.Create(context.Background(), testMember, input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Empty(t, repository.entities)

	entity, err := service.Create(context.Background(), testModerator, input)
	require.NoError(t, err)
	assert.Equal(t, "double-concentration", entity.Slug)
	assert.Len(t, repository.entities, 1)
}

func TestUpdate_JournalsEveryEdit(t *testing.T) {
	service, repository, _ := newTestService()
	entity := seedEntity(repository, spoiler.None)

	summary := "Revised summary."
	updated, err := service.Update(context.Background(), testModerator, entity.ID, UpdateEntityInput{
		Summary: &summary,
		Note:    "Tightened the summary wording",
	})

	require.NoError(t, err)
	assert.Equal(t, summary, updated.Summary)

	require.Len(t, repository.edits, 1)
	edit := repository.edits[0]
	assert.Equal(t, entity.ID, edit.EntityID)
	assert.Equal(t, KindCharacter, edit.EntityKind)
	assert.Equal(t, testModerator.ID, edit.EditorID)
	assert.Equal(t, "Tightened the summary wording", edit.Note)
}

func TestUpdate_RequiresJournalNote(t *testing.T) {
	service, repository, _ := newTestService()
	entity := seedEntity(repository, spoiler.None)

	summary := "New summary."
	_, err := service.Update(context.Background(), testModerator, entity.ID, UpdateEntityInput{
		Summary: &summary,
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Empty(t, repository.edits)
}

func TestUpdate_MemberIsForbidden(t *testing.T) {
	service, repository, _ := newTestService()
	entity := seedEntity(repository, spoiler.None)

	summary := "hijack"
	_, err := service.Update(context.Background(), testMember, entity.ID, UpdateEntityInput{
		Summary: &summary,
		Note:    "n",
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
