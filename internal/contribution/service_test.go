// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package contribution

import (
	"context"
	"errors"
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

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	contents map[string]*Content
	likes    map[string]map[string]bool

	// statusWrites counts UpdateStatus calls to verify failed transitions
	// never reach storage.
	statusWrites int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		contents: make(map[string]*Content),
		likes:    make(map[string]map[string]bool),
	}
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Content, error) {
	content, ok := f.contents[id]
	if !ok {
		return nil, apperr.NotFound("contribution")
	}
	copied := *content
	return &copied, nil
}

func (f *fakeRepository) ListByEntity(_ context.Context, entityKind, entityID string, filter Filter, _ pagination.Params) ([]*Content, int, error) {
	var result []*Content
	for _, content := range f.contents {
		if content.EntityKind != entityKind || content.EntityID != entityID {
			continue
		}
		if filter.PublicOnly && content.Status != moderation.StatusApproved {
			continue
		}
		copied := *content
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (f *fakeRepository) ListByAuthor(_ context.Context, authorID string, _ Filter, _ pagination.Params) ([]*Content, int, error) {
	var result []*Content
	for _, content := range f.contents {
		if content.AuthorID == authorID {
			copied := *content
			result = append(result, &copied)
		}
	}
	return result, len(result), nil
}

func (f *fakeRepository) List(_ context.Context, filter Filter, _ pagination.Params) ([]*Content, int, error) {
	var result []*Content
	for _, content := range f.contents {
		if filter.Status != "" && content.Status != filter.Status {
			continue
		}
		copied := *content
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (f *fakeRepository) Create(_ context.Context, content *Content) error {
	copied := *content
	f.contents[content.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, content *Content) error {
	stored, ok := f.contents[content.ID]
	if !ok {
		return apperr.NotFound("contribution")
	}
	stored.Title = content.Title
	stored.Body = content.Body
	stored.MediaURL = content.MediaURL
	stored.Spoiler = content.Spoiler
	return nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, id string, status moderation.Status, reason *string) error {
	f.statusWrites++
	stored, ok := f.contents[id]
	if !ok {
		return apperr.NotFound("contribution")
	}
	stored.Status = status
	stored.RejectionReason = reason
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.contents[id]; !ok {
		return apperr.NotFound("contribution")
	}
	delete(f.contents, id)
	return nil
}

func (f *fakeRepository) ToggleLike(_ context.Context, contentID, userID string) (bool, int64, error) {
	stored, ok := f.contents[contentID]
	if !ok {
		return false, 0, apperr.NotFound("contribution")
	}
	if f.likes[contentID] == nil {
		f.likes[contentID] = make(map[string]bool)
	}

	if f.likes[contentID][userID] {
		delete(f.likes[contentID], userID)
		stored.LikeCount--
		return false, stored.LikeCount, nil
	}

	f.likes[contentID][userID] = true
	stored.LikeCount++
	return true, stored.LikeCount, nil
}

// fakeProgress serves fixed per-user progress values.
type fakeProgress struct {
	values map[string]spoiler.Progress
	err    error
}

func (f *fakeProgress) ProgressFor(_ context.Context, userID string) (spoiler.Progress, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.values[userID], nil
}

// # Fixtures

var (
	testAuthor    = moderation.Actor{ID: "author-1", Role: sec.RoleMember}
	testMember    = moderation.Actor{ID: "member-2", Role: sec.RoleMember}
	testModerator = moderation.Actor{ID: "mod-1", Role: sec.RoleModerator}
)

func newTestService(progress *fakeProgress) (*Service, *fakeRepository) {
	repository := newFakeRepository()
	if progress == nil {
		progress = &fakeProgress{values: map[string]spoiler.Progress{}}
	}
	service := NewService(repository, progress, slog.Default())
	return service, repository
}

// seedContent stores a contribution directly, bypassing Submit.
func seedContent(repository *fakeRepository, status moderation.Status, marker spoiler.Marker) *Content {
	content := &Content{
		ID:         uuid.New(),
		Type:       moderation.TypeAnnotation,
		EntityKind: "character",
		EntityID:   uuid.New(),
		AuthorID:   testAuthor.ID,
		Body:       "The pet bottle gamble hinges on the caps.",
		Status:     status,
		Spoiler:    marker,
	}
	repository.contents[content.ID] = content
	return content
}

// # Submission

func TestSubmit_AnnotationStartsPending(t *testing.T) {
	service, repository := newTestService(nil)

	view, err := service.Submit(context.Background(), testAuthor, SubmitInput{
		Type:       moderation.TypeAnnotation,
		EntityKind: "character",
		EntityID:   uuid.New(),
		Body:       "An observation about the protagonist.",
		AsDraft:    true, // ignored: annotations have no draft phase
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, view.Status)
	assert.Equal(t, testAuthor.ID, view.AuthorID)
	assert.Len(t, repository.contents, 1)
}

func TestSubmit_GuideDraftIsHonored(t *testing.T) {
	service, _ := newTestService(nil)

	view, err := service.Submit(context.Background(), testAuthor, SubmitInput{
		Type:       moderation.TypeGuide,
		EntityKind: "gamble",
		EntityID:   uuid.New(),
		Title:      "Reading the room",
		Body:       "Draft notes.",
		AsDraft:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusDraft, view.Status)
}

func TestSubmit_ValidationFailures(t *testing.T) {
	service, repository := newTestService(nil)

	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"unknown_type", SubmitInput{Type: "poem", EntityKind: "character", EntityID: uuid.New(), Body: "x"}},
		{"unknown_entity_kind", SubmitInput{Type: moderation.TypeQuote, EntityKind: "weapon", EntityID: uuid.New(), Body: "x"}},
		{"bad_entity_id", SubmitInput{Type: moderation.TypeQuote, EntityKind: "character", EntityID: "42", Body: "x"}},
		{"spoiler_without_chapter", SubmitInput{Type: moderation.TypeQuote, EntityKind: "character", EntityID: uuid.New(), Body: "x", IsSpoiler: true}},
		{"chapter_without_spoiler_flag", SubmitInput{Type: moderation.TypeQuote, EntityKind: "character", EntityID: uuid.New(), Body: "x", SpoilerChapter: 12}},
		{"media_without_url", SubmitInput{Type: moderation.TypeMedia, EntityKind: "character", EntityID: uuid.New(), Title: "t", Body: "x"}},
		{"empty_body", SubmitInput{Type: moderation.TypeAnnotation, EntityKind: "character", EntityID: uuid.New(), Body: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Submit(context.Background(), testAuthor, tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}

	assert.Empty(t, repository.contents, "failed submissions must not persist anything")
}

// # Moderation Flow

func TestTransitionStatus_RejectWithoutReasonWritesNothing(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	_, err := service.TransitionStatus(context.Background(), testModerator, content.ID, StatusInput{
		Status: moderation.StatusRejected,
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// The failed transition must leave storage untouched.
	assert.Zero(t, repository.statusWrites)
	assert.Equal(t, moderation.StatusPending, repository.contents[content.ID].Status)
	assert.Nil(t, repository.contents[content.ID].RejectionReason)
}

func TestTransitionStatus_RejectPersistsStatusAndReasonTogether(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	view, err := service.TransitionStatus(context.Background(), testModerator, content.ID, StatusInput{
		Status: moderation.StatusRejected,
		Reason: "Unverified claim",
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusRejected, view.Status)
	require.NotNil(t, view.RejectionReason)
	assert.Equal(t, "Unverified claim", *view.RejectionReason)

	stored := repository.contents[content.ID]
	assert.Equal(t, moderation.StatusRejected, stored.Status)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "Unverified claim", *stored.RejectionReason)
}

func TestTransitionStatus_AuthorResubmitClearsReason(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusRejected, spoiler.None)
	reason := "Too short"
	repository.contents[content.ID].RejectionReason = &reason

	view, err := service.TransitionStatus(context.Background(), testAuthor, content.ID, StatusInput{
		Status: moderation.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, view.Status)
	assert.Nil(t, view.RejectionReason)
	assert.Nil(t, repository.contents[content.ID].RejectionReason)
}

func TestTransitionStatus_StrangerCannotApprove(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	// Pending content a stranger cannot see reads as absent, not forbidden.
	_, err := service.TransitionStatus(context.Background(), testMember, content.ID, StatusInput{
		Status: moderation.StatusApproved,
	})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, moderation.StatusPending, repository.contents[content.ID].Status)

	// On visible content the role check answers instead.
	approved := seedContent(repository, moderation.StatusApproved, spoiler.None)
	_, err = service.TransitionStatus(context.Background(), testMember, approved.ID, StatusInput{
		Status: moderation.StatusPending,
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Equal(t, moderation.StatusApproved, repository.contents[approved.ID].Status)
}

func TestTransitionStatus_SameStateSkipsWrite(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	view, err := service.TransitionStatus(context.Background(), testModerator, content.ID, StatusInput{
		Status: moderation.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, view.Status)
	assert.Zero(t, repository.statusWrites, "same-state transitions must not write")
}

func TestTransitionStatus_SameStateNoOpHidesUnapprovedContent(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	// Posting the current status back is a no-op in the state machine; it
	// must not turn into a read path around the visibility rules.
	view, err := service.TransitionStatus(context.Background(), testMember, content.ID, StatusInput{
		Status: moderation.StatusPending,
	})

	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Zero(t, repository.statusWrites)

	// The author's own same-state no-op keeps working, body included.
	ownerView, err := service.TransitionStatus(context.Background(), testAuthor, content.ID, StatusInput{
		Status: moderation.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, content.Body, ownerView.Body)
}

// # Visibility

func TestGet_UnapprovedIsNotFoundForStrangers(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusPending, spoiler.None)

	// Hidden content is indistinguishable from absent content.
	_, err := service.Get(context.Background(), &testMember, content.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = service.Get(context.Background(), nil, content.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Owner and staff still see it.
	ownerView, err := service.Get(context.Background(), &testAuthor, content.ID)
	require.NoError(t, err)
	assert.True(t, ownerView.Visible)

	staffView, err := service.Get(context.Background(), &testModerator, content.ID)
	require.NoError(t, err)
	assert.True(t, staffView.Visible)
}

func TestGet_ApprovedSpoilerIsGatedByProgress(t *testing.T) {
	progress := &fakeProgress{values: map[string]spoiler.Progress{testMember.ID: 250}}
	service, repository := newTestService(progress)
	content := seedContent(repository, moderation.StatusApproved, spoiler.ForChapter(300))

	// Progress 250 < 300: metadata returned, body replaced by placeholder.
	view, err := service.Get(context.Background(), &testMember, content.ID)
	require.NoError(t, err)
	assert.False(t, view.Visible)
	assert.Empty(t, view.Body)
	assert.Contains(t, view.Placeholder, "300")

	// Progress 300 >= 300: fully visible.
	progress.values[testMember.ID] = 300
	view, err = service.Get(context.Background(), &testMember, content.ID)
	require.NoError(t, err)
	assert.True(t, view.Visible)
	assert.Equal(t, content.Body, view.Body)
}

func TestGet_ProgressLookupFailureFailsClosed(t *testing.T) {
	progress := &fakeProgress{err: errors.New("store down")}
	service, repository := newTestService(progress)
	content := seedContent(repository, moderation.StatusApproved, spoiler.ForChapter(10))

	// The reader temporarily sees less, never more.
	view, err := service.Get(context.Background(), &testMember, content.ID)
	require.NoError(t, err)
	assert.False(t, view.Visible)
	assert.NotEmpty(t, view.Placeholder)
}

func TestGet_StaffBypassTheGate(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.ForChapter(9999))

	view, err := service.Get(context.Background(), &testModerator, content.ID)
	require.NoError(t, err)
	assert.True(t, view.Visible)
}

func TestListForEntity_NonStaffOnlySeeApproved(t *testing.T) {
	service, repository := newTestService(nil)

	approved := seedContent(repository, moderation.StatusApproved, spoiler.None)
	pending := seedContent(repository, moderation.StatusPending, spoiler.None)
	pending.EntityKind = approved.EntityKind
	pending.EntityID = approved.EntityID

	views, meta, err := service.ListForEntity(context.Background(), &testMember,
		approved.EntityKind, approved.EntityID, Filter{}, pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, approved.ID, views[0].ID)
	assert.Equal(t, 1, meta.Total)
}

// # Likes

func TestToggleLike_FlipsStateAndCount(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	result, err := service.ToggleLike(context.Background(), testMember, content.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)

	// The same user toggling again removes the like.
	result, err = service.ToggleLike(context.Background(), testMember, content.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikeCount)
}

func TestToggleLike_SelfLikeIsRejected(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	_, err := service.ToggleLike(context.Background(), testAuthor, content.ID)

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, int64(0), repository.contents[content.ID].LikeCount)
}

func TestToggleLike_HiddenContentIsNotFound(t *testing.T) {
	progress := &fakeProgress{values: map[string]spoiler.Progress{testMember.ID: 5}}
	service, repository := newTestService(progress)

	pending := seedContent(repository, moderation.StatusPending, spoiler.None)
	_, err := service.ToggleLike(context.Background(), testMember, pending.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	gated := seedContent(repository, moderation.StatusApproved, spoiler.ForChapter(100))
	_, err = service.ToggleLike(context.Background(), testMember, gated.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Editing

func TestEdit_OwnerUpdatesFields(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	body := "A longer, corrected annotation."
	view, err := service.Edit(context.Background(), testAuthor, content.ID, EditInput{Body: &body})

	require.NoError(t, err)
	assert.Equal(t, body, view.Body)
	// Editing never changes the moderation status.
	assert.Equal(t, moderation.StatusApproved, view.Status)
	assert.Equal(t, body, repository.contents[content.ID].Body)
}

func TestEdit_StrangerIsForbidden(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	body := "hijack"
	_, err := service.Edit(context.Background(), testMember, content.ID, EditInput{Body: &body})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestEdit_MalformedSpoilerIsRejected(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	flag := true
	_, err := service.Edit(context.Background(), testAuthor, content.ID, EditInput{IsSpoiler: &flag})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestDelete_OwnerAndStaffOnly(t *testing.T) {
	service, repository := newTestService(nil)
	content := seedContent(repository, moderation.StatusApproved, spoiler.None)

	err := service.Delete(context.Background(), testMember, content.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.Delete(context.Background(), testAuthor, content.ID))
	assert.Empty(t, repository.contents)
}
