// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package auth implements account registration and session management.

Access tokens are short-lived RSA-signed JWTs carrying the user's role and
username. Refresh tokens are opaque, stored hashed in Postgres, and rotated
on every use so a leaked token can be replayed at most once before the
rotation trips.
*/
package auth

import (
	"time"

	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	DisplayName  string           `json:"display_name"`
	Role         sec.UserRole     `json:"role"`
	Progress     spoiler.Progress `json:"progress"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Session is one refresh-token session. Only the SHA-256 hash of the token
// is stored; the plaintext exists client-side only.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}
