// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package auth

import (
	"context"
)

// # Repository Contracts

/*
UserRepository defines the persistence contract for accounts.
*/
type UserRepository interface {

	/*
		FindByID returns an account by its unique identifier.

		Returns:
		  - *User: The account
		  - error: apperr.NotFound if absent or deactivated
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByUsername returns an account by username.
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		FindByEmail returns an account by email address.
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: apperr.Conflict on a username or email collision
	*/
	Create(ctx context.Context, user *User) error

	/*
		UpdatePassword replaces an account's password hash.
	*/
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

/*
SessionRepository defines the persistence contract for refresh sessions.
*/
type SessionRepository interface {

	/*
		FindByTokenHash returns the live session matching a token hash.

		Description: Revoked and expired sessions are never returned — the
		lookup itself enforces session validity.
	*/
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	/*
		Create persists a new refresh session.
	*/
	Create(ctx context.Context, session *Session) error

	/*
		Revoke marks one session as revoked.
	*/
	Revoke(ctx context.Context, id string) error

	/*
		RevokeAll revokes every session of one user.
	*/
	RevokeAll(ctx context.Context, userID string) error
}
