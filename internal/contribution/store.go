// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package contribution

import (
	"context"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # Repository Contracts

// Filter narrows contribution listings.
type Filter struct {
	// Type restricts results to one content type when non-empty.
	Type moderation.ContentType

	// Status restricts results to one moderation status when non-empty.
	// Ignored when PublicOnly is set.
	Status moderation.Status

	// PublicOnly restricts results to approved content. Listings for
	// non-staff readers always set it.
	PublicOnly bool

	// AuthorID restricts results to one author when non-empty.
	AuthorID string
}

/*
Repository defines the persistence contract for community contributions.

Description: Implementations must keep status and rejection reason updates
in a single write (UpdateStatus) and the like toggle transactional
(ToggleLike), because callers rely on both being all-or-nothing.
*/
type Repository interface {

	/*
		FindByID returns one contribution by its unique identifier.

		Returns:
		  - *Content: The contribution
		  - error: apperr.NotFound if the row does not exist
	*/
	FindByID(ctx context.Context, id string) (*Content, error)

	/*
		ListByEntity returns contributions attached to a canon entity.

		Parameters:
		  - entityKind/entityID: The canon entity the content annotates
		  - filter: Type/status/visibility narrowing
		  - params: Pagination window

		Returns:
		  - []*Content: The page of contributions, newest first
		  - int: Total matching rows (for pagination metadata)
	*/
	ListByEntity(ctx context.Context, entityKind, entityID string, filter Filter, params pagination.Params) ([]*Content, int, error)

	/*
		ListByAuthor returns contributions created by one user, newest first.
	*/
	ListByAuthor(ctx context.Context, authorID string, filter Filter, params pagination.Params) ([]*Content, int, error)

	/*
		List returns contributions matching the filter alone, newest first.
		Backs the staff review queue.
	*/
	List(ctx context.Context, filter Filter, params pagination.Params) ([]*Content, int, error)

	/*
		Create persists a new contribution.

		Returns:
		  - error: apperr.ValidationError on a missing entity reference
	*/
	Create(ctx context.Context, content *Content) error

	/*
		Update overwrites the editable fields (title, body, media URL,
		spoiler marker) of an existing contribution.
	*/
	Update(ctx context.Context, content *Content) error

	/*
		UpdateStatus persists a moderation outcome.

		Description: Status and rejection reason are written in ONE statement.
		The pair is never split across writes, so readers observe either the
		old (status, reason) pair or the new one — never a mix.
	*/
	UpdateStatus(ctx context.Context, id string, status moderation.Status, reason *string) error

	/*
		Delete removes a contribution and its like rows.
	*/
	Delete(ctx context.Context, id string) error

	/*
		ToggleLike flips the (content, user) like state inside a transaction.

		Description: If no like row exists one is created and the counter is
		incremented; if one exists it is removed and the counter decremented.
		Row and counter move together or not at all.

		Returns:
		  - bool: Whether the user likes the content after the toggle
		  - int64: The like count after the toggle
	*/
	ToggleLike(ctx context.Context, contentID, userID string) (bool, int64, error)
}
