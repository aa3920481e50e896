// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package reader manages declared reading progress.

Progress is the single input to spoiler gating: a reader states the chapter
they have read up to, and everything marked beyond it stays hidden. It is
changed only by explicit reader action or an admin override — never as a
side effect of browsing.
*/
package reader

import (
	"context"
	"log/slog"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/internal/platform/validate"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// # Contracts

// Store is the persistence contract for per-account progress.
type Store interface {
	// GetProgress returns a user's declared progress.
	GetProgress(ctx context.Context, userID string) (spoiler.Progress, error)

	// SetProgress overwrites a user's declared progress.
	SetProgress(ctx context.Context, userID string, progress spoiler.Progress) error
}

// ChapterIndex supplies the current upper bound for declared progress.
// Implemented by the canon service.
type ChapterIndex interface {
	MaxChapterNumber(ctx context.Context) (int64, error)
}

// # Types

// Status is a reader's progress together with the current index bound.
type Status struct {
	Progress   spoiler.Progress `json:"progress"`
	MaxChapter int64            `json:"max_chapter"`
}

// UpdateInput is the payload for a progress change.
type UpdateInput struct {
	Progress int64 `json:"progress"`
}

// # Service

// Service implements progress reads and explicit updates. It is the
// ProgressProvider behind every spoiler-gating call site.
type Service struct {
	store    Store
	chapters ChapterIndex
	logger   *slog.Logger
}

// NewService constructs the reader service.
func NewService(store Store, chapters ChapterIndex, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		chapters: chapters,
		logger:   logger,
	}
}

// ProgressFor loads a user's declared progress. Satisfies the progress
// provider interfaces of the contribution and canon services.
func (service *Service) ProgressFor(ctx context.Context, userID string) (spoiler.Progress, error) {
	return service.store.GetProgress(ctx, userID)
}

/*
Get returns the caller's progress alongside the current chapter bound.
*/
func (service *Service) Get(ctx context.Context, userID string) (*Status, error) {
	progress, err := service.store.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	maxChapter, err := service.chapters.MaxChapterNumber(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{Progress: progress, MaxChapter: maxChapter}, nil
}

/*
Update sets the caller's declared progress.

Description: Explicit updates may move progress in either direction — a
reader re-reading from an earlier point may lower it deliberately. The
value must lie within [0, highest published chapter].

Returns:
  - *Status: The new progress and bound
  - error: apperr.ValidationError when out of range
*/
func (service *Service) Update(ctx context.Context, userID string, input UpdateInput) (*Status, error) {
	maxChapter, err := service.chapters.MaxChapterNumber(ctx)
	if err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Custom("progress", input.Progress < 0, "Progress cannot be negative")
	v.Custom("progress", input.Progress > maxChapter, "Progress cannot exceed the latest published chapter")
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := service.store.SetProgress(ctx, userID, spoiler.Progress(input.Progress)); err != nil {
		return nil, err
	}

	service.logger.Info("progress_updated",
		slog.String("user_id", userID),
		slog.Int64("progress", input.Progress),
	)

	return &Status{Progress: spoiler.Progress(input.Progress), MaxChapter: maxChapter}, nil
}

/*
AdminSet overrides another user's progress (admin only).

Description: Concrete values obey the same [0, highest published chapter]
bound as self-service updates. Admins may additionally set the
[spoiler.Unrestricted] sentinel, which no regular update can reach: it lifts
every spoiler gate for the target account.
*/
func (service *Service) AdminSet(ctx context.Context, actor moderation.Actor, userID string, input UpdateInput) (*Status, error) {
	if !actor.Role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("Admin access required")
	}

	if spoiler.Progress(input.Progress) == spoiler.Unrestricted {
		maxChapter, err := service.chapters.MaxChapterNumber(ctx)
		if err != nil {
			return nil, err
		}
		if err := service.store.SetProgress(ctx, userID, spoiler.Unrestricted); err != nil {
			return nil, err
		}

		service.logger.Info("progress_admin_override",
			slog.String("admin_id", actor.ID),
			slog.String("user_id", userID),
			slog.String("progress", "unrestricted"),
		)

		return &Status{Progress: spoiler.Unrestricted, MaxChapter: maxChapter}, nil
	}

	status, err := service.Update(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	service.logger.Info("progress_admin_override",
		slog.String("admin_id", actor.ID),
		slog.String("user_id", userID),
		slog.Int64("progress", input.Progress),
	)

	return status, nil
}
