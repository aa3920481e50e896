// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # PostgreSQL Recorder

// postgresRecorder implements [Recorder] using pgx.
type postgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder constructs a PostgreSQL backed view recorder.
func NewPostgresRecorder(pool *pgxpool.Pool) Recorder {
	return &postgresRecorder{pool: pool}
}

/*
RecordView appends a view record and bumps the content counter.

Description: Both writes run in one transaction: the audit row and the
denormalized counter move together or not at all, which is what lets the
tracker treat a failure as "this view never happened" and roll back its
session mark.
*/
func (recorder *postgresRecorder) RecordView(ctx context.Context, contentType, contentID, sessionID string) error {
	record := schema.LibraryViewRecord
	content := schema.ContribContent

	tx, err := recorder.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin view record: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		record.Table,
		record.ID, record.ContentType, record.ContentID, record.SessionID,
	)

	if _, err := tx.Exec(ctx, insertQuery, uuid.New(), contentType, contentID, sessionID); err != nil {
		return fmt.Errorf("postgres: failed to insert view record: %w", err)
	}

	counterQuery := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		content.Table, content.ViewCount, content.ViewCount, content.ID)

	if _, err := tx.Exec(ctx, counterQuery, contentID); err != nil {
		return fmt.Errorf("postgres: failed to increment view count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit view record: %w", err)
	}

	return nil
}
