// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package canon

import (
	"context"

	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # Repository Contracts

// EntityFilter narrows canon entity listings.
type EntityFilter struct {
	// Kind restricts results to one entity kind when non-empty.
	Kind Kind

	// Search matches against entity names when non-empty.
	Search string
}

/*
Repository defines the persistence contract for canon reference data.
*/
type Repository interface {

	/*
		FindBySlug returns one entity by kind and slug.

		Returns:
		  - *Entity: The entity
		  - error: apperr.NotFound if absent or soft-deleted
	*/
	FindBySlug(ctx context.Context, kind Kind, slug string) (*Entity, error)

	/*
		FindByID returns one entity by its unique identifier.
	*/
	FindByID(ctx context.Context, id string) (*Entity, error)

	/*
		List returns entities matching the filter, ordered by name.
	*/
	List(ctx context.Context, filter EntityFilter, params pagination.Params) ([]*Entity, int, error)

	/*
		Create persists a new entity.

		Returns:
		  - error: apperr.Conflict on a (kind, slug) collision
	*/
	Create(ctx context.Context, entity *Entity) error

	/*
		Update overwrites an entity's editable fields and appends the edit
		journal entry in the same transaction.
	*/
	Update(ctx context.Context, entity *Entity, edit *EntityEdit) error

	/*
		SoftDelete hides an entity from all listings and lookups.
	*/
	SoftDelete(ctx context.Context, id string) error

	/*
		ListChapters returns the chapter index ordered by chapter number.
	*/
	ListChapters(ctx context.Context, params pagination.Params) ([]*Chapter, int, error)

	/*
		MaxChapterNumber returns the highest published chapter number, the
		upper bound accepted for declared reading progress.
	*/
	MaxChapterNumber(ctx context.Context) (int64, error)

	/*
		ListEditsByEditor returns the journaled edits of one staff member,
		newest first.
	*/
	ListEditsByEditor(ctx context.Context, editorID string, params pagination.Params) ([]*EntityEdit, int, error)

	/*
		CountEditsByEditor returns the per-kind edit counts of one editor.
	*/
	CountEditsByEditor(ctx context.Context, editorID string) (map[Kind]int64, error)
}
