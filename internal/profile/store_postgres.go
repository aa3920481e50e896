// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package profile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/dberr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
)

// detailsItemCap bounds the itemized details listings. Profiles are a
// summary surface, not an archive browser.
const detailsItemCap = 200

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed profile store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
FindUserByUsername returns the public identity of an account.
*/
func (repository *postgresRepository) FindUserByUsername(ctx context.Context, username string) (*UserSummary, error) {
	s := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		s.ID, s.Username, s.DisplayName, s.Role, s.CreatedAt,
		s.Table,
		s.Username, s.DeletedAt,
	)

	var user UserSummary
	err := repository.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Role, &user.JoinedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user")
	}

	return &user, nil
}

/*
CountSubmissions returns per-type contribution counts for an author.
*/
func (repository *postgresRepository) CountSubmissions(ctx context.Context, authorID string, publishedOnly bool) (SubmissionCounts, error) {
	s := schema.ContribContent

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM %s
		WHERE %s = $1
	`,
		s.ContentType,
		s.Table,
		s.AuthorID,
	)

	args := []any{authorID}
	if publishedOnly {
		query += fmt.Sprintf(" AND %s = $2", s.Status)
		args = append(args, string(moderation.StatusApproved))
	}
	query += fmt.Sprintf(" GROUP BY %s", s.ContentType)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return SubmissionCounts{}, fmt.Errorf("postgres: failed to count submissions: %w", err)
	}
	defer rows.Close()

	var counts SubmissionCounts
	for rows.Next() {
		var contentType string
		var count int64
		if err := rows.Scan(&contentType, &count); err != nil {
			return SubmissionCounts{}, fmt.Errorf("postgres: failed to scan submission count: %w", err)
		}

		switch moderation.ContentType(contentType) {
		case moderation.TypeAnnotation:
			counts.Annotations = count
		case moderation.TypeGuide:
			counts.Guides = count
		case moderation.TypeMedia:
			counts.Media = count
		case moderation.TypeQuote:
			counts.Quotes = count
		}
	}

	return counts, nil
}

/*
CountEdits returns per-kind canon edit counts for an editor.
*/
func (repository *postgresRepository) CountEdits(ctx context.Context, editorID string) (EditCounts, error) {
	j := schema.CanonEntityEdit

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM %s
		WHERE %s = $1
		GROUP BY %s
	`,
		j.EntityKind,
		j.Table,
		j.EditorID,
		j.EntityKind,
	)

	rows, err := repository.pool.Query(ctx, query, editorID)
	if err != nil {
		return EditCounts{}, fmt.Errorf("postgres: failed to count edits: %w", err)
	}
	defer rows.Close()

	var counts EditCounts
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return EditCounts{}, fmt.Errorf("postgres: failed to scan edit count: %w", err)
		}

		switch kind {
		case "character":
			counts.Characters = count
		case "gamble":
			counts.Gambles = count
		case "arc":
			counts.Arcs = count
		case "organization":
			counts.Organizations = count
		case "event":
			counts.Events = count
		}
	}

	return counts, nil
}

/*
ListSubmissions returns an author's contributions, newest first.
*/
func (repository *postgresRepository) ListSubmissions(ctx context.Context, authorID string, publishedOnly bool) ([]SubmissionItem, error) {
	s := schema.ContribContent

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		s.ID, s.ContentType, s.Title, s.Status, s.EntityKind, s.EntityID, s.CreatedAt, s.UpdatedAt,
		s.Table,
		s.AuthorID,
	)

	args := []any{authorID}
	if publishedOnly {
		query += fmt.Sprintf(" AND %s = $2", s.Status)
		args = append(args, string(moderation.StatusApproved))
	}
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT %d", s.CreatedAt, detailsItemCap)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list submissions: %w", err)
	}
	defer rows.Close()

	items := make([]SubmissionItem, 0)
	for rows.Next() {
		var item SubmissionItem
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Title, &item.Status,
			&item.EntityKind, &item.EntityID, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan submission: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

/*
ListEdits returns an editor's canon edit journal entries, newest first.
*/
func (repository *postgresRepository) ListEdits(ctx context.Context, editorID string) ([]EditItem, error) {
	j := schema.CanonEntityEdit

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT %d
	`,
		j.ID, j.EntityID, j.EntityKind, j.Note, j.CreatedAt,
		j.Table,
		j.EditorID,
		j.CreatedAt,
		detailsItemCap,
	)

	rows, err := repository.pool.Query(ctx, query, editorID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list edits: %w", err)
	}
	defer rows.Close()

	items := make([]EditItem, 0)
	for rows.Next() {
		var item EditItem
		if err := rows.Scan(&item.ID, &item.EntityID, &item.EntityKind, &item.Note, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan edit: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}
