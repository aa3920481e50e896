// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package canon

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/platform/dberr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed canon store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// entityColumns lists the selected entity columns in scan order.
func entityColumns() string {
	s := schema.CanonEntity
	return strings.Join([]string{
		s.ID, s.Kind, s.Slug, s.Name, s.Summary, s.Body,
		s.IsSpoiler, s.SpoilerChapter, s.CreatedAt, s.UpdatedAt,
	}, ", ")
}

// scanEntity hydrates one row into an Entity.
func scanEntity(row pgx.Row, extra ...any) (*Entity, error) {
	var entity Entity
	var spoilerChapter *int64

	targets := []any{
		&entity.ID, &entity.Kind, &entity.Slug, &entity.Name, &entity.Summary, &entity.Body,
		&entity.Spoiler.IsSpoiler, &spoilerChapter, &entity.CreatedAt, &entity.UpdatedAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if spoilerChapter != nil {
		entity.Spoiler.Chapter = *spoilerChapter
	}

	return &entity, nil
}

/*
FindBySlug returns one entity by kind and slug, excluding soft-deleted rows.
*/
func (repository *postgresRepository) FindBySlug(ctx context.Context, kind Kind, slug string) (*Entity, error) {
	s := schema.CanonEntity

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
	`,
		entityColumns(),
		s.Table,
		s.Kind, s.Slug, s.DeletedAt,
	)

	entity, err := scanEntity(repository.pool.QueryRow(ctx, query, string(kind), slug))
	if err != nil {
		return nil, dberr.Wrap(err, "entity")
	}

	return entity, nil
}

/*
FindByID returns one entity by its unique identifier.
*/
func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Entity, error) {
	s := schema.CanonEntity

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		entityColumns(),
		s.Table,
		s.ID, s.DeletedAt,
	)

	entity, err := scanEntity(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "entity")
	}

	return entity, nil
}

/*
List returns entities matching the filter, ordered by name.
*/
func (repository *postgresRepository) List(ctx context.Context, filter EntityFilter, params pagination.Params) ([]*Entity, int, error) {
	s := schema.CanonEntity

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		entityColumns(),
		s.Table,
		s.DeletedAt,
	))

	if filter.Kind != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.Kind, len(args)+1))
		args = append(args, string(filter.Kind))
	}
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", s.Name, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", s.Name))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []*Entity
	var totalCount int

	for rows.Next() {
		entity, err := scanEntity(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}

	return entities, totalCount, nil
}

/*
Create persists a new entity.
*/
func (repository *postgresRepository) Create(ctx context.Context, entity *Entity) error {
	s := schema.CanonEntity

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		s.Table,
		s.ID, s.Kind, s.Slug, s.Name, s.Summary, s.Body, s.IsSpoiler, s.SpoilerChapter,
	)

	var spoilerChapter *int64
	if entity.Spoiler.Chapter != 0 {
		spoilerChapter = &entity.Spoiler.Chapter
	}

	_, err := repository.pool.Exec(ctx, query,
		entity.ID,
		string(entity.Kind),
		entity.Slug,
		entity.Name,
		entity.Summary,
		entity.Body,
		entity.Spoiler.IsSpoiler,
		spoilerChapter,
	)

	if err != nil {
		return dberr.Wrap(err, "entity")
	}

	return nil
}

/*
Update overwrites an entity's editable fields and appends the edit journal
entry in the same transaction, so the journal never misses an edit.
*/
func (repository *postgresRepository) Update(ctx context.Context, entity *Entity, edit *EntityEdit) error {
	s := schema.CanonEntity
	j := schema.CanonEntityEdit

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin entity update: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6 AND %s IS NULL
	`,
		s.Table,
		s.Name, s.Summary, s.Body, s.IsSpoiler, s.SpoilerChapter, s.UpdatedAt,
		s.ID, s.DeletedAt,
	)

	var spoilerChapter *int64
	if entity.Spoiler.Chapter != 0 {
		spoilerChapter = &entity.Spoiler.Chapter
	}

	result, err := tx.Exec(ctx, updateQuery,
		entity.Name,
		entity.Summary,
		entity.Body,
		entity.Spoiler.IsSpoiler,
		spoilerChapter,
		entity.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "entity")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "entity")
	}

	journalQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		j.Table,
		j.ID, j.EntityID, j.EntityKind, j.EditorID, j.Note,
	)

	if _, err := tx.Exec(ctx, journalQuery,
		edit.ID, edit.EntityID, string(edit.EntityKind), edit.EditorID, edit.Note,
	); err != nil {
		return dberr.Wrap(err, "entity edit")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit entity update: %w", err)
	}

	return nil
}

/*
SoftDelete hides an entity.
*/
func (repository *postgresRepository) SoftDelete(ctx context.Context, id string) error {
	s := schema.CanonEntity

	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		s.Table, s.DeletedAt, s.ID, s.DeletedAt)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "entity")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "entity")
	}

	return nil
}

// # Chapter Index

/*
ListChapters returns the chapter index ordered by chapter number.
*/
func (repository *postgresRepository) ListChapters(ctx context.Context, params pagination.Params) ([]*Chapter, int, error) {
	s := schema.CanonChapter

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		s.ID, s.Number, s.Title, s.Summary, s.ArcID, s.CreatedAt, s.UpdatedAt,
		s.Table,
		s.Number,
	)

	rows, err := repository.pool.Query(ctx, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	var totalCount int

	for rows.Next() {
		var chapter Chapter
		err := rows.Scan(
			&chapter.ID, &chapter.Number, &chapter.Title, &chapter.Summary,
			&chapter.ArcID, &chapter.CreatedAt, &chapter.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &chapter)
	}

	return chapters, totalCount, nil
}

/*
MaxChapterNumber returns the highest published chapter number, or zero for
an empty index.
*/
func (repository *postgresRepository) MaxChapterNumber(ctx context.Context) (int64, error) {
	s := schema.CanonChapter

	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s`, s.Number, s.Table)

	var max int64
	if err := repository.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("postgres: failed to read max chapter number: %w", err)
	}

	return max, nil
}

// # Edit Journal

/*
ListEditsByEditor returns the journaled edits of one staff member.
*/
func (repository *postgresRepository) ListEditsByEditor(ctx context.Context, editorID string, params pagination.Params) ([]*EntityEdit, int, error) {
	j := schema.CanonEntityEdit

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		j.ID, j.EntityID, j.EntityKind, j.EditorID, j.Note, j.CreatedAt,
		j.Table,
		j.EditorID,
		j.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, editorID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list entity edits: %w", err)
	}
	defer rows.Close()

	var edits []*EntityEdit
	var totalCount int

	for rows.Next() {
		var edit EntityEdit
		err := rows.Scan(
			&edit.ID, &edit.EntityID, &edit.EntityKind, &edit.EditorID, &edit.Note, &edit.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan entity edit: %w", err)
		}
		edits = append(edits, &edit)
	}

	return edits, totalCount, nil
}

/*
CountEditsByEditor returns the per-kind edit counts of one editor.
*/
func (repository *postgresRepository) CountEditsByEditor(ctx context.Context, editorID string) (map[Kind]int64, error) {
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
		return nil, fmt.Errorf("postgres: failed to count entity edits: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int64)
	for rows.Next() {
		var kind Kind
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan edit count: %w", err)
		}
		counts[kind] = count
	}

	return counts, nil
}
