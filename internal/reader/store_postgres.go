// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package reader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/platform/dberr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// # PostgreSQL Store

// postgresStore implements [Store] on the users.account progress column.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL backed progress store.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (store *postgresStore) GetProgress(ctx context.Context, userID string) (spoiler.Progress, error) {
	s := schema.UsersAccount

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		s.Progress, s.Table, s.ID, s.DeletedAt)

	var progress int64
	if err := store.pool.QueryRow(ctx, query, userID).Scan(&progress); err != nil {
		return 0, dberr.Wrap(err, "user")
	}

	return spoiler.Progress(progress), nil
}

func (store *postgresStore) SetProgress(ctx context.Context, userID string, progress spoiler.Progress) error {
	s := schema.UsersAccount

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s IS NULL`,
		s.Table, s.Progress, s.UpdatedAt, s.ID, s.DeletedAt)

	result, err := store.pool.Exec(ctx, query, int64(progress), userID)
	if err != nil {
		return dberr.Wrap(err, "user")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "user")
	}

	return nil
}
