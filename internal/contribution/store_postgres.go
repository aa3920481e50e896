// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package contribution

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/dberr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed contribution store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// contentColumns lists the selected columns in scan order.
func contentColumns(prefix string) string {
	s := schema.ContribContent
	cols := []string{
		s.ID, s.ContentType, s.EntityKind, s.EntityID, s.AuthorID,
		s.Title, s.Body, s.MediaURL, s.Status, s.RejectionReason,
		s.IsSpoiler, s.SpoilerChapter, s.ViewCount, s.LikeCount,
		s.CreatedAt, s.UpdatedAt,
	}
	if prefix != "" {
		for i, c := range cols {
			cols[i] = prefix + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

// scanContent hydrates one row into a Content entity.
func scanContent(row pgx.Row, extra ...any) (*Content, error) {
	var content Content
	var title, mediaURL *string
	var spoilerChapter *int64

	targets := []any{
		&content.ID, &content.Type, &content.EntityKind, &content.EntityID, &content.AuthorID,
		&title, &content.Body, &mediaURL, &content.Status, &content.RejectionReason,
		&content.Spoiler.IsSpoiler, &spoilerChapter, &content.ViewCount, &content.LikeCount,
		&content.CreatedAt, &content.UpdatedAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if title != nil {
		content.Title = *title
	}
	if mediaURL != nil {
		content.MediaURL = *mediaURL
	}
	if spoilerChapter != nil {
		content.Spoiler.Chapter = *spoilerChapter
	}

	return &content, nil
}

/*
FindByID returns one contribution by its unique identifier.
*/
func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Content, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`,
		contentColumns(""),
		schema.ContribContent.Table,
		schema.ContribContent.ID,
	)

	content, err := scanContent(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "contribution")
	}

	return content, nil
}

/*
ListByEntity returns contributions attached to a canon entity, newest first.

Description: Uses a COUNT(*) window function so the total arrives with the
page in a single round-trip.
*/
func (repository *postgresRepository) ListByEntity(ctx context.Context, entityKind, entityID string, filter Filter, params pagination.Params) ([]*Content, int, error) {
	s := schema.ContribContent

	// Query construction
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		contentColumns(""),
		s.Table,
		s.EntityKind, s.EntityID,
	))
	args = append(args, entityKind, entityID)

	args = appendFilter(&queryBuilder, args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", s.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, params.Limit, params.Offset())

	return repository.list(ctx, queryBuilder.String(), args)
}

/*
ListByAuthor returns contributions created by one user, newest first.
*/
func (repository *postgresRepository) ListByAuthor(ctx context.Context, authorID string, filter Filter, params pagination.Params) ([]*Content, int, error) {
	s := schema.ContribContent

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
	`,
		contentColumns(""),
		s.Table,
		s.AuthorID,
	))
	args = append(args, authorID)

	args = appendFilter(&queryBuilder, args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", s.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, params.Limit, params.Offset())

	return repository.list(ctx, queryBuilder.String(), args)
}

/*
List returns contributions matching the filter alone, newest first.
*/
func (repository *postgresRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Content, int, error) {
	s := schema.ContribContent

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`,
		contentColumns(""),
		s.Table,
	))

	args = appendFilter(&queryBuilder, args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", s.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, params.Limit, params.Offset())

	return repository.list(ctx, queryBuilder.String(), args)
}

// appendFilter injects the optional Filter predicates into a listing query.
func appendFilter(queryBuilder *strings.Builder, args []any, filter Filter) []any {
	s := schema.ContribContent

	if filter.Type != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.ContentType, len(args)+1))
		args = append(args, string(filter.Type))
	}

	if filter.PublicOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.Status, len(args)+1))
		args = append(args, string(moderation.StatusApproved))
	} else if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.Status, len(args)+1))
		args = append(args, string(filter.Status))
	}

	if filter.AuthorID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.AuthorID, len(args)+1))
		args = append(args, filter.AuthorID)
	}

	return args
}

// list executes a windowed listing query and hydrates the result page.
func (repository *postgresRepository) list(ctx context.Context, query string, args []any) ([]*Content, int, error) {
	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contents []*Content
	var totalCount int

	for rows.Next() {
		content, err := scanContent(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan contribution: %w", err)
		}
		contents = append(contents, content)
	}

	return contents, totalCount, nil
}

/*
Create persists a new contribution.
*/
func (repository *postgresRepository) Create(ctx context.Context, content *Content) error {
	s := schema.ContribContent

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12
		)
	`,
		s.Table,
		s.ID, s.ContentType, s.EntityKind, s.EntityID, s.AuthorID,
		s.Title, s.Body, s.MediaURL, s.Status, s.RejectionReason,
		s.IsSpoiler, s.SpoilerChapter,
	)

	_, err := repository.pool.Exec(ctx, query,
		content.ID,
		string(content.Type),
		content.EntityKind,
		content.EntityID,
		content.AuthorID,
		nullable(content.Title),
		content.Body,
		nullable(content.MediaURL),
		string(content.Status),
		content.RejectionReason,
		content.Spoiler.IsSpoiler,
		nullableInt(content.Spoiler.Chapter),
	)

	if err != nil {
		return dberr.Wrap(err, "contribution")
	}

	return nil
}

/*
Update overwrites the editable fields of an existing contribution.
*/
func (repository *postgresRepository) Update(ctx context.Context, content *Content) error {
	s := schema.ContribContent

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6
	`,
		s.Table,
		s.Title, s.Body, s.MediaURL, s.IsSpoiler, s.SpoilerChapter, s.UpdatedAt,
		s.ID,
	)

	result, err := repository.pool.Exec(ctx, query,
		nullable(content.Title),
		content.Body,
		nullable(content.MediaURL),
		content.Spoiler.IsSpoiler,
		nullableInt(content.Spoiler.Chapter),
		content.ID,
	)

	if err != nil {
		return dberr.Wrap(err, "contribution")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "contribution")
	}

	return nil
}

/*
UpdateStatus persists a moderation outcome.

Description: Status and rejection reason are written in one statement so the
pair changes atomically.
*/
func (repository *postgresRepository) UpdateStatus(ctx context.Context, id string, status moderation.Status, reason *string) error {
	s := schema.ContribContent

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3
	`,
		s.Table,
		s.Status, s.RejectionReason, s.UpdatedAt,
		s.ID,
	)

	result, err := repository.pool.Exec(ctx, query, string(status), reason, id)
	if err != nil {
		return dberr.Wrap(err, "contribution")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "contribution")
	}

	return nil
}

/*
Delete removes a contribution. Like rows cascade at the schema level.
*/
func (repository *postgresRepository) Delete(ctx context.Context, id string) error {
	s := schema.ContribContent

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, s.Table, s.ID)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "contribution")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "contribution")
	}

	return nil
}

/*
ToggleLike flips the (content, user) like state.

Description: Runs in a transaction. The like row delete/insert and the
counter update commit together or roll back together, which keeps the
counter equal to the row count at all times.
*/
func (repository *postgresRepository) ToggleLike(ctx context.Context, contentID, userID string) (bool, int64, error) {
	like := schema.ContribLike
	content := schema.ContribContent

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("postgres: failed to begin like toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	// ── 1. Flip the like row ──────────────────────────────────────────────
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		like.Table, like.ContentID, like.UserID)

	deleted, err := tx.Exec(ctx, deleteQuery, contentID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("postgres: failed to toggle like: %w", err)
	}

	liked := deleted.RowsAffected() == 0
	delta := int64(-1)

	if liked {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
			like.Table, like.ContentID, like.UserID)
		if _, err := tx.Exec(ctx, insertQuery, contentID, userID); err != nil {
			return false, 0, dberr.Wrap(err, "contribution")
		}
		delta = 1
	}

	// ── 2. Move the counter with the row ──────────────────────────────────
	counterQuery := fmt.Sprintf(`
		UPDATE %s SET %s = %s + $1 WHERE %s = $2
		RETURNING %s
	`,
		content.Table, content.LikeCount, content.LikeCount, content.ID,
		content.LikeCount,
	)

	var likeCount int64
	if err := tx.QueryRow(ctx, counterQuery, delta, contentID).Scan(&likeCount); err != nil {
		return false, 0, dberr.Wrap(err, "contribution")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("postgres: failed to commit like toggle: %w", err)
	}

	return liked, likeCount, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// nullableInt maps a zero chapter to SQL NULL.
func nullableInt(value int64) *int64 {
	if value == 0 {
		return nil
	}
	return &value
}
