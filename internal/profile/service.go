// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package profile

import (
	"context"
	"log/slog"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
)

// Category labels used in the Unavailable list.
const (
	CategorySubmissions = "submissions"
	CategoryEdits       = "edits"
)

// # Service

// Service assembles profile overviews.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs the profile service.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Get assembles the profile overview for one account.

Description: The identity lookup is the only hard dependency — a missing
account is NotFound. The count categories are soft: a failing source logs,
lands in Unavailable, and leaves zero-valued counts so the response shape
never changes. Owners and staff see counts covering unpublished work;
everyone else sees approved-only numbers.

Parameters:
  - ctx: context.Context
  - actor: *moderation.Actor (nil = anonymous viewer)
  - username: string

Returns:
  - *Overview: The assembled profile
  - error: apperr.NotFound when the account does not exist
*/
func (service *Service) Get(ctx context.Context, actor *moderation.Actor, username string) (*Overview, error) {
	user, err := service.repository.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	isOwner := actor != nil && actor.ID == user.ID
	isStaff := actor != nil && actor.IsStaff()
	includeUnpublished := isOwner || isStaff

	overview := &Overview{
		User:                *user,
		IncludesUnpublished: includeUnpublished,
	}

	// Each category stands alone: one failing source degrades that section,
	// never the whole profile.
	submissions, err := service.repository.CountSubmissions(ctx, user.ID, !includeUnpublished)
	if err != nil {
		service.logger.Warn("profile_submissions_unavailable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		overview.Unavailable = append(overview.Unavailable, CategorySubmissions)
	} else {
		overview.Submissions = submissions
	}

	edits, err := service.repository.CountEdits(ctx, user.ID)
	if err != nil {
		service.logger.Warn("profile_edits_unavailable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		overview.Unavailable = append(overview.Unavailable, CategoryEdits)
	} else {
		overview.Edits = edits
	}

	return overview, nil
}

/*
Details assembles the itemized profile for one account.

Description: Same visibility and degradation rules as [Service.Get]: the
identity lookup is the only hard dependency, each listing degrades
independently, and unpublished submissions appear only for the owner and
staff. Listings are capped at the store level.

Returns:
  - *Details: The itemized profile
  - error: apperr.NotFound when the account does not exist
*/
func (service *Service) Details(ctx context.Context, actor *moderation.Actor, username string) (*Details, error) {
	user, err := service.repository.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	isOwner := actor != nil && actor.ID == user.ID
	isStaff := actor != nil && actor.IsStaff()
	includeUnpublished := isOwner || isStaff

	details := &Details{
		User:                *user,
		Submissions:         []SubmissionItem{},
		Edits:               []EditItem{},
		IncludesUnpublished: includeUnpublished,
	}

	submissions, err := service.repository.ListSubmissions(ctx, user.ID, !includeUnpublished)
	if err != nil {
		service.logger.Warn("profile_submissions_unavailable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		details.Unavailable = append(details.Unavailable, CategorySubmissions)
	} else {
		details.Submissions = submissions
	}

	edits, err := service.repository.ListEdits(ctx, user.ID)
	if err != nil {
		service.logger.Warn("profile_edits_unavailable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		details.Unavailable = append(details.Unavailable, CategoryEdits)
	} else {
		details.Edits = edits
	}

	return details, nil
}
