// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package contribution

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mizusawa-dev/kakeroku/internal/canon"
	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/validate"
	"github.com/mizusawa-dev/kakeroku/internal/policy"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # Input Limits

const (
	maxTitleLength = 200
	maxBodyLength  = 50000
	maxURLLength   = 2048
)

// # Service Contracts

// ProgressProvider loads a reader's declared progress. Implemented by the
// reader service; decoupled by interface so contribution tests can fake it.
type ProgressProvider interface {
	ProgressFor(ctx context.Context, userID string) (spoiler.Progress, error)
}

// # Inputs

// SubmitInput is the payload for creating a new contribution.
type SubmitInput struct {
	Type           moderation.ContentType `json:"type"`
	EntityKind     string                 `json:"entity_kind"`
	EntityID       string                 `json:"entity_id"`
	Title          string                 `json:"title"`
	Body           string                 `json:"body"`
	MediaURL       string                 `json:"media_url"`
	IsSpoiler      bool                   `json:"is_spoiler"`
	SpoilerChapter int64                  `json:"spoiler_chapter"`

	// AsDraft requests the private draft phase. Honored only for types that
	// support it; everything else starts pending.
	AsDraft bool `json:"as_draft"`
}

// EditInput is the payload for updating a contribution's editable fields.
// Nil fields are left unchanged.
type EditInput struct {
	Title          *string `json:"title"`
	Body           *string `json:"body"`
	MediaURL       *string `json:"media_url"`
	IsSpoiler      *bool   `json:"is_spoiler"`
	SpoilerChapter *int64  `json:"spoiler_chapter"`
}

// StatusInput is the payload for a moderation status change.
type StatusInput struct {
	Status moderation.Status `json:"status"`
	Reason string            `json:"reason"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// # Service

// Service implements the contribution business logic.
type Service struct {
	repository Repository
	progress   ProgressProvider
	logger     *slog.Logger
}

// NewService constructs the contribution service.
func NewService(repository Repository, progress ProgressProvider, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		progress:   progress,
		logger:     logger,
	}
}

// progressOf resolves the effective reading progress for an actor.
//
// Staff get [spoiler.Unrestricted] so review queues are never gated. A
// provider failure is logged and degrades to [spoiler.Anonymous]: the
// reader temporarily sees less, never more.
func (service *Service) progressOf(ctx context.Context, actor *moderation.Actor) spoiler.Progress {
	if actor == nil {
		return spoiler.Anonymous
	}
	if actor.IsStaff() {
		return spoiler.Unrestricted
	}

	progress, err := service.progress.ProgressFor(ctx, actor.ID)
	if err != nil {
		service.logger.Warn("progress_lookup_failed",
			slog.String("user_id", actor.ID),
			slog.String("error", err.Error()),
		)
		return spoiler.Anonymous
	}

	return progress
}

/*
Submit creates a new contribution owned by the actor.

Description: The initial status comes from the content type's capability
(guides may start as drafts; everything else starts pending). Non-draft
submissions must already satisfy the minimum content bar.

Parameters:
  - ctx: context.Context
  - actor: moderation.Actor (authenticated author)
  - input: SubmitInput

Returns:
  - *View: The created contribution as seen by its author
  - error: apperr.ValidationError on bad input
*/
func (service *Service) Submit(ctx context.Context, actor moderation.Actor, input SubmitInput) (*View, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────
	if err := validateSubmitInput(input); err != nil {
		return nil, err
	}

	// ── 2. Entity Construction ────────────────────────────────────────────
	content := &Content{
		ID:         uuid.New(),
		Type:       input.Type,
		EntityKind: input.EntityKind,
		EntityID:   input.EntityID,
		AuthorID:   actor.ID,
		Title:      strings.TrimSpace(input.Title),
		Body:       strings.TrimSpace(input.Body),
		MediaURL:   strings.TrimSpace(input.MediaURL),
		Status:     input.Type.InitialStatus(input.AsDraft),
	}
	if input.IsSpoiler {
		content.Spoiler = spoiler.ForChapter(input.SpoilerChapter)
	}

	// Non-draft submissions enter the review queue immediately, so they must
	// clear the same bar the draft→pending transition enforces.
	if content.Status != moderation.StatusDraft {
		if err := submittableErr(content); err != nil {
			return nil, err
		}
	}

	// ── 3. Persistence ────────────────────────────────────────────────────
	if err := service.repository.Create(ctx, content); err != nil {
		return nil, err
	}

	service.logger.Info("contribution_submitted",
		slog.String("content_id", content.ID),
		slog.String("content_type", string(content.Type)),
		slog.String("status", string(content.Status)),
		slog.String("author_id", actor.ID),
	)

	view := viewFor(content, policy.For(&actor, spoiler.Unrestricted, content.Subject()), spoiler.Unrestricted, true)
	return &view, nil
}

/*
Get returns one contribution redacted for the requesting actor.

Description: Unapproved content an actor may not see returns NotFound
rather than Forbidden, so its existence is not leaked. Approved spoiler
content the actor's progress does not cover IS returned — with the body
replaced by the placeholder.

Parameters:
  - ctx: context.Context
  - actor: *moderation.Actor (nil = anonymous)
  - id: string (contribution UUID)

Returns:
  - *View: The redacted contribution
  - error: apperr.NotFound when absent or withheld
*/
func (service *Service) Get(ctx context.Context, actor *moderation.Actor, id string) (*View, error) {
	content, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	progress := service.progressOf(ctx, actor)
	actions := policy.For(actor, progress, content.Subject())

	// Withheld unapproved content is indistinguishable from absent content.
	if !actions.View && content.Status != moderation.StatusApproved {
		return nil, apperr.NotFound("contribution")
	}

	isOwner := actor != nil && actor.ID == content.AuthorID
	view := viewFor(content, actions, progress, isOwner)
	return &view, nil
}

/*
ListForEntity returns contributions attached to a canon entity, redacted
for the requesting actor.

Description: Non-staff actors only ever see approved content here; their own
unapproved submissions are listed through [ListOwn] instead. Spoiler-gated
items appear with placeholders, keeping pagination totals stable across
readers with different progress.
*/
func (service *Service) ListForEntity(ctx context.Context, actor *moderation.Actor, entityKind, entityID string, filter Filter, params pagination.Params) ([]View, pagination.Meta, error) {

	if !canon.Kind(entityKind).IsValid() {
		return nil, pagination.Meta{}, validate.RequiredError(FieldEntityKind, "Must be one of: "+strings.Join(canon.Kinds(), ", "))
	}

	// Only staff may browse non-approved content on an entity page.
	if actor == nil || !actor.IsStaff() {
		filter.PublicOnly = true
	}

	contents, total, err := service.repository.ListByEntity(ctx, entityKind, entityID, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return service.views(ctx, actor, contents), pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
ListOwn returns the actor's own contributions in every status.
*/
func (service *Service) ListOwn(ctx context.Context, actor moderation.Actor, filter Filter, params pagination.Params) ([]View, pagination.Meta, error) {
	filter.PublicOnly = false

	contents, total, err := service.repository.ListByAuthor(ctx, actor.ID, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return service.views(ctx, &actor, contents), pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
ListQueue returns pending contributions for the review queue (staff only).
*/
func (service *Service) ListQueue(ctx context.Context, actor moderation.Actor, filter Filter, params pagination.Params) ([]View, pagination.Meta, error) {
	if !actor.IsStaff() {
		return nil, pagination.Meta{}, apperr.Forbidden("Moderator access required")
	}

	filter.PublicOnly = false
	if filter.Status == "" {
		filter.Status = moderation.StatusPending
	}

	contents, total, err := service.repository.List(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return service.views(ctx, &actor, contents), pagination.NewMeta(params.Page, params.Limit, total), nil
}

// views redacts a content page for one actor with a single progress lookup.
func (service *Service) views(ctx context.Context, actor *moderation.Actor, contents []*Content) []View {
	progress := service.progressOf(ctx, actor)

	views := make([]View, 0, len(contents))
	for _, content := range contents {
		isOwner := actor != nil && actor.ID == content.AuthorID
		views = append(views, viewFor(content, policy.For(actor, progress, content.Subject()), progress, isOwner))
	}
	return views
}

/*
Edit updates a contribution's editable fields.

Description: Only the owner or staff may edit. Status never changes here —
an approved item stays approved after an edit; re-review is a moderation
decision, not an automatic side effect.

Returns:
  - *View: The updated contribution
  - error: apperr.Forbidden, apperr.NotFound, or apperr.ValidationError
*/
func (service *Service) Edit(ctx context.Context, actor moderation.Actor, id string, input EditInput) (*View, error) {
	content, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.For(&actor, spoiler.Unrestricted, content.Subject()).Edit {
		return nil, apperr.Forbidden("You are not allowed to edit this content")
	}

	applyEdit(content, input)

	if err := validateEditedContent(content); err != nil {
		return nil, err
	}

	if err := service.repository.Update(ctx, content); err != nil {
		return nil, err
	}

	service.logger.Info("contribution_edited",
		slog.String("content_id", content.ID),
		slog.String("editor_id", actor.ID),
	)

	isOwner := actor.ID == content.AuthorID
	view := viewFor(content, policy.For(&actor, spoiler.Unrestricted, content.Subject()), spoiler.Unrestricted, isOwner)
	return &view, nil
}

/*
Delete removes a contribution (owner or staff only).
*/
func (service *Service) Delete(ctx context.Context, actor moderation.Actor, id string) error {
	content, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.For(&actor, spoiler.Unrestricted, content.Subject()).Delete {
		return apperr.Forbidden("You are not allowed to delete this content")
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Info("contribution_deleted",
		slog.String("content_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

/*
TransitionStatus applies a moderation status change.

Description: The pure state machine computes the outcome first; only on
success is anything written, and status + rejection reason are persisted in
one statement. A same-state request succeeds without a write.

Parameters:
  - ctx: context.Context
  - actor: moderation.Actor
  - id: string (contribution UUID)
  - input: StatusInput

Returns:
  - *View: The contribution after the transition
  - error: apperr.ValidationError, apperr.Forbidden, or apperr.NotFound
*/
func (service *Service) TransitionStatus(ctx context.Context, actor moderation.Actor, id string, input StatusInput) (*View, error) {
	content, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	progress := service.progressOf(ctx, &actor)
	actions := policy.For(&actor, progress, content.Subject())

	// Same rule as [Get]: unapproved content the actor may not see is
	// indistinguishable from absent content. Without this, a same-state
	// request would no-op through the state machine and hand a stranger the
	// unredacted item.
	if !actions.View && content.Status != moderation.StatusApproved {
		return nil, apperr.NotFound("contribution")
	}

	result, err := moderation.Transition(actor, content.ModerationItem(), input.Status, input.Reason)
	if err != nil {
		return nil, err
	}

	if result.Changed {
		if err := service.repository.UpdateStatus(ctx, id, result.Status, result.RejectionReason); err != nil {
			return nil, err
		}

		service.logger.Info("contribution_status_changed",
			slog.String("content_id", id),
			slog.String("from", string(content.Status)),
			slog.String("to", string(result.Status)),
			slog.String("actor_id", actor.ID),
		)
	}

	content.Status = result.Status
	content.RejectionReason = result.RejectionReason

	isOwner := actor.ID == content.AuthorID
	view := viewFor(content, policy.For(&actor, progress, content.Subject()), progress, isOwner)
	return &view, nil
}

/*
ToggleLike flips the actor's like on a contribution.

Description: Authors cannot like their own work, and only approved content
the actor can actually see may be liked.

Returns:
  - *LikeResult: Post-toggle like state and count
  - error: apperr.ValidationError on self-like, apperr.NotFound when hidden
*/
func (service *Service) ToggleLike(ctx context.Context, actor moderation.Actor, id string) (*LikeResult, error) {
	content, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if content.AuthorID == actor.ID {
		return nil, apperr.ValidationError("You cannot like your own content")
	}

	progress := service.progressOf(ctx, &actor)
	actions := policy.For(&actor, progress, content.Subject())

	if content.Status != moderation.StatusApproved || !actions.View {
		return nil, apperr.NotFound("contribution")
	}

	liked, likeCount, err := service.repository.ToggleLike(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{Liked: liked, LikeCount: likeCount}, nil
}

// # Validation Helpers

// validateSubmitInput checks the structural rules of a submission payload.
func validateSubmitInput(input SubmitInput) error {
	v := &validate.Validator{}

	v.Custom(FieldType, !input.Type.IsValid(),
		"Must be one of: "+strings.Join(moderation.ContentTypes(), ", "))
	v.Custom(FieldEntityKind, !canon.Kind(input.EntityKind).IsValid(),
		"Must be one of: "+strings.Join(canon.Kinds(), ", "))
	v.UUID(FieldEntityID, input.EntityID)

	v.MaxLen(FieldTitle, input.Title, maxTitleLength)
	v.MaxLen(FieldBody, input.Body, maxBodyLength)
	v.MaxLen(FieldMediaURL, input.MediaURL, maxURLLength)

	if input.Type == moderation.TypeMedia {
		v.Required(FieldMediaURL, input.MediaURL)
	}

	v.Custom(FieldSpoilerChapter, input.IsSpoiler && input.SpoilerChapter <= 0,
		"Spoiler chapter must be positive")
	v.Custom(FieldSpoilerChapter, !input.IsSpoiler && input.SpoilerChapter != 0,
		"Spoiler chapter requires the spoiler flag")

	return v.Err()
}

// submittableErr re-uses the state machine's minimum content bar for items
// that skip the draft phase.
func submittableErr(content *Content) error {
	_, err := moderation.Transition(
		moderation.Actor{ID: content.AuthorID},
		moderation.Item{
			AuthorID: content.AuthorID,
			Type:     content.Type,
			Status:   moderation.StatusDraft,
			Title:    content.Title,
			Body:     content.Body,
		},
		moderation.StatusPending,
		"",
	)
	return err
}

// applyEdit folds the non-nil input fields into the content.
func applyEdit(content *Content, input EditInput) {
	if input.Title != nil {
		content.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		content.Body = strings.TrimSpace(*input.Body)
	}
	if input.MediaURL != nil {
		content.MediaURL = strings.TrimSpace(*input.MediaURL)
	}
	if input.IsSpoiler != nil {
		content.Spoiler.IsSpoiler = *input.IsSpoiler
		if !*input.IsSpoiler {
			content.Spoiler.Chapter = 0
		}
	}
	if input.SpoilerChapter != nil {
		content.Spoiler.Chapter = *input.SpoilerChapter
	}
}

// validateEditedContent checks the invariants after an edit is applied.
func validateEditedContent(content *Content) error {
	v := &validate.Validator{}

	v.Required(FieldBody, content.Body)
	v.MaxLen(FieldTitle, content.Title, maxTitleLength)
	v.MaxLen(FieldBody, content.Body, maxBodyLength)
	v.MaxLen(FieldMediaURL, content.MediaURL, maxURLLength)

	if content.Type.RequiresTitle() {
		v.Required(FieldTitle, content.Title)
	}
	if content.Type == moderation.TypeMedia {
		v.Required(FieldMediaURL, content.MediaURL)
	}

	v.Custom(FieldSpoilerChapter, !content.Spoiler.WellFormed(),
		"Spoiler chapter must be positive when the spoiler flag is set")

	return v.Err()
}
