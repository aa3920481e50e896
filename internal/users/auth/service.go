// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/constants"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/internal/platform/validate"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # Contracts & Types

// TokenProvider generates signed access tokens. Implemented by
// [sec.TokenService]; decoupled by interface for tests.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginInput defines credentials for an authentication attempt. Login may
// be a username or an email address.
type LoginInput struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginSession is a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// # Service

// Service implements the account and session use cases.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

// NewService constructs the auth service.
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

/*
Register validates, hashes, and persists a new member account.

Description: New accounts always start as plain members with zero declared
progress; role changes are an admin operation, never self-service.

Returns:
  - *User: The created account
  - error: apperr.Conflict on a taken username/email, apperr.ValidationError
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(input.Username)),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hashedPassword,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         sec.RoleMember,
		Progress:     0,
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}

	// The unique indexes are the source of truth for collisions: a prior
	// existence check would only race against concurrent registrations.
	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("account_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

/*
Login validates credentials and issues a token pair.

Description: Lookup failures and password mismatches return the same
generic error, so responses never reveal whether an account exists.
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.users.FindByUsername(ctx, strings.ToLower(input.Login))
	if err != nil {
		user, err = service.users.FindByEmail(ctx, strings.ToLower(input.Login))
	}
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issueSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("login_succeeded",
		slog.String("user_id", user.ID),
	)

	return session, nil
}

/*
Refresh rotates a refresh token.

Description: The presented token's session is revoked before a new pair is
issued, so every refresh token is single-use. A replayed token finds its
session already revoked and fails.
*/
func (service *Service) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("auth: failed to rotate session: %w", err)
	}

	user, err := service.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found or deactivated")
	}

	return service.issueSession(ctx, user, userAgent, ipAddress)
}

/*
Logout revokes the presented refresh token's session. Logging out with an
unknown or already-revoked token succeeds: the operation is idempotent.
*/
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("auth: failed to revoke session: %w", err)
	}

	return nil
}

/*
ChangePassword rotates an account's password and revokes every session.
*/
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	v := &validate.Validator{}
	v.MinLen("new_password", newPassword, 10)
	if err := v.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: failed to hash password: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	// Every device re-authenticates after a password change.
	if err := service.sessions.RevokeAll(ctx, userID); err != nil {
		service.logger.Error("session_revocation_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// issueSession generates the access/refresh token pair and persists the
// refresh session.
func (service *Service) issueSession(ctx context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to sign access token: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth: failed to persist session: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// validateRegisterInput checks the structural rules of a registration.
func validateRegisterInput(input RegisterInput) error {
	v := &validate.Validator{}

	v.Required("username", input.Username)
	v.MinLen("username", input.Username, 3)
	v.MaxLen("username", input.Username, 30)
	v.Slug("username", strings.ToLower(input.Username))
	v.Email("email", input.Email)
	v.MinLen("password", input.Password, 10)
	v.MaxLen("display_name", input.DisplayName, 60)

	return v.Err()
}
