// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizusawa-dev/kakeroku/internal/platform/dberr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/database/schema"
)

// # PostgreSQL Repositories

// userRepository implements [UserRepository] using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed account store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// userColumns lists the selected account columns in scan order.
func userColumns() string {
	s := schema.UsersAccount
	return strings.Join([]string{
		s.ID, s.Username, s.Email, s.PasswordHash, s.DisplayName,
		s.Role, s.Progress, s.CreatedAt, s.UpdatedAt,
	}, ", ")
}

// findBy runs a single-row account lookup with one predicate column.
func (repository *userRepository) findBy(ctx context.Context, column, value string) (*User, error) {
	s := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		userColumns(),
		s.Table,
		column, s.DeletedAt,
	)

	var user User
	err := repository.pool.QueryRow(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.Role, &user.Progress, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user")
	}

	return &user, nil
}

func (repository *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.UsersAccount.ID, id)
}

func (repository *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.UsersAccount.Username, username)
}

func (repository *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.UsersAccount.Email, email)
}

/*
Create persists a new account. Unique violations on username or email
surface as apperr.Conflict through the dberr mapping.
*/
func (repository *userRepository) Create(ctx context.Context, user *User) error {
	s := schema.UsersAccount

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		s.Table,
		s.ID, s.Username, s.Email, s.PasswordHash, s.DisplayName, s.Role, s.Progress,
	)

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		string(user.Role),
		int64(user.Progress),
	)

	if err != nil {
		return dberr.Wrap(err, "user")
	}

	return nil
}

func (repository *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s := schema.UsersAccount

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s IS NULL`,
		s.Table, s.PasswordHash, s.UpdatedAt, s.ID, s.DeletedAt)

	result, err := repository.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return dberr.Wrap(err, "user")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "user")
	}

	return nil
}

// # Session Repository

// sessionRepository implements [SessionRepository] using pgx.
type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs a PostgreSQL backed session store.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

/*
FindByTokenHash returns the live session matching a token hash. The query
filters revoked and expired sessions, so a hit is always a usable session.
*/
func (repository *sessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	s := schema.UsersSession

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()
	`,
		s.ID, s.UserID, s.TokenHash, s.UserAgent, s.IPAddress, s.ExpiresAt, s.IsRevoked, s.CreatedAt,
		s.Table,
		s.TokenHash, s.IsRevoked, s.ExpiresAt,
	)

	var session Session
	err := repository.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.UserAgent,
		&session.IPAddress, &session.ExpiresAt, &session.IsRevoked, &session.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "session")
	}

	return &session, nil
}

func (repository *sessionRepository) Create(ctx context.Context, session *Session) error {
	s := schema.UsersSession

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		s.Table,
		s.ID, s.UserID, s.TokenHash, s.UserAgent, s.IPAddress, s.ExpiresAt, s.IsRevoked,
	)

	_, err := repository.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
	)

	if err != nil {
		return dberr.Wrap(err, "session")
	}

	return nil
}

func (repository *sessionRepository) Revoke(ctx context.Context, id string) error {
	s := schema.UsersSession

	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		s.Table, s.IsRevoked, s.ID)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "session")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "session")
	}

	return nil
}

func (repository *sessionRepository) RevokeAll(ctx context.Context, userID string) error {
	s := schema.UsersSession

	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE`,
		s.Table, s.IsRevoked, s.UserID, s.IsRevoked)

	if _, err := repository.pool.Exec(ctx, query, userID); err != nil {
		return dberr.Wrap(err, "session")
	}

	return nil
}
