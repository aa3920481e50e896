// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package canon

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/validate"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
	"github.com/mizusawa-dev/kakeroku/pkg/slug"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # Input Limits

const (
	maxNameLength    = 150
	maxSummaryLength = 500
	maxBodyLength    = 100000
	maxNoteLength    = 500
)

// # Service Contracts

// ProgressProvider loads a reader's declared progress for spoiler gating.
type ProgressProvider interface {
	ProgressFor(ctx context.Context, userID string) (spoiler.Progress, error)
}

// # Inputs

// CreateEntityInput is the payload for creating a canon entity.
type CreateEntityInput struct {
	Kind           Kind   `json:"kind"`
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	Body           string `json:"body"`
	IsSpoiler      bool   `json:"is_spoiler"`
	SpoilerChapter int64  `json:"spoiler_chapter"`
}

// UpdateEntityInput is the payload for editing a canon entity. Nil fields
// are left unchanged. Note is the mandatory journal line.
type UpdateEntityInput struct {
	Name           *string `json:"name"`
	Summary        *string `json:"summary"`
	Body           *string `json:"body"`
	IsSpoiler      *bool   `json:"is_spoiler"`
	SpoilerChapter *int64  `json:"spoiler_chapter"`
	Note           string  `json:"note"`
}

// # Service

// Service implements the canon reference business logic.
type Service struct {
	repository Repository
	progress   ProgressProvider
	logger     *slog.Logger
}

// NewService constructs the canon service.
func NewService(repository Repository, progress ProgressProvider, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		progress:   progress,
		logger:     logger,
	}
}

// progressOf resolves the effective reading progress for an actor.
// Provider failures degrade to Anonymous: less visible, never more.
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
List returns canon entities redacted for the requesting actor.

Description: Entities themselves are always listed — only the Body is
spoiler-gated — so totals are identical for every reader.
*/
func (service *Service) List(ctx context.Context, actor *moderation.Actor, filter EntityFilter, params pagination.Params) ([]EntityView, pagination.Meta, error) {
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, pagination.Meta{}, validate.RequiredError("kind", "Must be one of: "+strings.Join(Kinds(), ", "))
	}

	entities, total, err := service.repository.List(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	progress := service.progressOf(ctx, actor)

	views := make([]EntityView, 0, len(entities))
	for _, entity := range entities {
		views = append(views, entity.ViewFor(progress))
	}

	return views, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
GetBySlug returns one canon entity redacted for the requesting actor.

Parameters:
  - ctx: context.Context
  - actor: *moderation.Actor (nil = anonymous)
  - kind: Kind
  - entitySlug: string

Returns:
  - *EntityView: The redacted entity
  - error: apperr.NotFound or apperr.ValidationError
*/
func (service *Service) GetBySlug(ctx context.Context, actor *moderation.Actor, kind Kind, entitySlug string) (*EntityView, error) {
	if !kind.IsValid() {
		return nil, validate.RequiredError("kind", "Must be one of: "+strings.Join(Kinds(), ", "))
	}

	entity, err := service.repository.FindBySlug(ctx, kind, entitySlug)
	if err != nil {
		return nil, err
	}

	view := entity.ViewFor(service.progressOf(ctx, actor))
	return &view, nil
}

/*
Create adds a new canon entity (staff only).

Description: The slug is derived from the name; a collision within the kind
surfaces as a conflict for the caller to resolve with a different name.
*/
func (service *Service) Create(ctx context.Context, actor moderation.Actor, input CreateEntityInput) (*Entity, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("Moderator access required")
	}

	if err := validateEntityInput(input); err != nil {
		return nil, err
	}

	entity := &Entity{
		ID:      uuid.New(),
		Kind:    input.Kind,
		Slug:    slug.From(input.Name),
		Name:    strings.TrimSpace(input.Name),
		Summary: strings.TrimSpace(input.Summary),
		Body:    strings.TrimSpace(input.Body),
	}
	if input.IsSpoiler {
		entity.Spoiler = spoiler.ForChapter(input.SpoilerChapter)
	}

	if err := service.repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	service.logger.Info("canon_entity_created",
		slog.String("entity_id", entity.ID),
		slog.String("kind", string(entity.Kind)),
		slog.String("slug", entity.Slug),
		slog.String("editor_id", actor.ID),
	)

	return entity, nil
}

/*
Update edits a canon entity (staff only) and journals the edit.

Description: The journal entry and the field changes are persisted in one
transaction, so the per-editor contribution counts always reflect every
applied edit.
*/
func (service *Service) Update(ctx context.Context, actor moderation.Actor, id string, input UpdateEntityInput) (*Entity, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("Moderator access required")
	}

	v := &validate.Validator{}
	v.Required("note", input.Note)
	v.MaxLen("note", input.Note, maxNoteLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	entity, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyEntityUpdate(entity, input)

	if err := validateEntity(entity); err != nil {
		return nil, err
	}

	edit := &EntityEdit{
		ID:         uuid.New(),
		EntityID:   entity.ID,
		EntityKind: entity.Kind,
		EditorID:   actor.ID,
		Note:       strings.TrimSpace(input.Note),
	}

	if err := service.repository.Update(ctx, entity, edit); err != nil {
		return nil, err
	}

	service.logger.Info("canon_entity_updated",
		slog.String("entity_id", entity.ID),
		slog.String("editor_id", actor.ID),
	)

	return entity, nil
}

/*
Delete soft-deletes a canon entity (staff only).
*/
func (service *Service) Delete(ctx context.Context, actor moderation.Actor, id string) error {
	if !actor.IsStaff() {
		return apperr.Forbidden("Moderator access required")
	}

	if err := service.repository.SoftDelete(ctx, id); err != nil {
		return err
	}

	service.logger.Info("canon_entity_deleted",
		slog.String("entity_id", id),
		slog.String("editor_id", actor.ID),
	)

	return nil
}

/*
ListChapters returns the paginated chapter index. Chapter metadata is
never spoiler-gated: numbers and titles are the scale progress is set on.
*/
func (service *Service) ListChapters(ctx context.Context, params pagination.Params) ([]*Chapter, pagination.Meta, error) {
	chapters, total, err := service.repository.ListChapters(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return chapters, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// MaxChapterNumber exposes the progress upper bound to the reader service.
func (service *Service) MaxChapterNumber(ctx context.Context) (int64, error) {
	return service.repository.MaxChapterNumber(ctx)
}

// # Validation Helpers

func validateEntityInput(input CreateEntityInput) error {
	v := &validate.Validator{}

	v.Custom("kind", !input.Kind.IsValid(), "Must be one of: "+strings.Join(Kinds(), ", "))
	v.Required("name", input.Name)
	v.MaxLen("name", input.Name, maxNameLength)
	v.MaxLen("summary", input.Summary, maxSummaryLength)
	v.MaxLen("body", input.Body, maxBodyLength)

	v.Custom("spoiler_chapter", input.IsSpoiler && input.SpoilerChapter <= 0,
		"Spoiler chapter must be positive")
	v.Custom("spoiler_chapter", !input.IsSpoiler && input.SpoilerChapter != 0,
		"Spoiler chapter requires the spoiler flag")

	return v.Err()
}

func applyEntityUpdate(entity *Entity, input UpdateEntityInput) {
	if input.Name != nil {
		entity.Name = strings.TrimSpace(*input.Name)
	}
	if input.Summary != nil {
		entity.Summary = strings.TrimSpace(*input.Summary)
	}
	if input.Body != nil {
		entity.Body = strings.TrimSpace(*input.Body)
	}
	if input.IsSpoiler != nil {
		entity.Spoiler.IsSpoiler = *input.IsSpoiler
		if !*input.IsSpoiler {
			entity.Spoiler.Chapter = 0
		}
	}
	if input.SpoilerChapter != nil {
		entity.Spoiler.Chapter = *input.SpoilerChapter
	}
}

func validateEntity(entity *Entity) error {
	v := &validate.Validator{}

	v.Required("name", entity.Name)
	v.MaxLen("name", entity.Name, maxNameLength)
	v.MaxLen("summary", entity.Summary, maxSummaryLength)
	v.MaxLen("body", entity.Body, maxBodyLength)
	v.Custom("spoiler_chapter", !entity.Spoiler.WellFormed(),
		"Spoiler chapter must be positive when the spoiler flag is set")

	return v.Err()
}
