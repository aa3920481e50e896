// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
)

// # Test Fakes

type fakeUserRepository struct {
	users map[string]*User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("user")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	for _, existing := range repository.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("user already exists")
		}
	}
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeSessionRepository struct {
	sessions map[string]*Session // keyed by ID
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*Session)}
}

func (repository *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	for _, session := range repository.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("session")
}

func (repository *fakeSessionRepository) Create(_ context.Context, session *Session) error {
	repository.sessions[session.ID] = session
	return nil
}

func (repository *fakeSessionRepository) Revoke(_ context.Context, id string) error {
	session, ok := repository.sessions[id]
	if !ok {
		return apperr.NotFound("session")
	}
	session.IsRevoked = true
	return nil
}

func (repository *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repository.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-token-for-" + userID, nil
}

func newTestService(users *fakeUserRepository, sessions *fakeSessionRepository) *Service {
	return NewService(users, sessions, fakeTokenProvider{}, slog.Default())
}

func seedUser(t *testing.T, service *Service) *User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		Username: "yumeko",
		Email:    "yumeko@example.com",
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestRegister_NewAccountIsPlainMember(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())

	user, err := service.Register(context.Background(), RegisterInput{
		Username:    "Yumeko",
		Email:       "Yumeko@Example.com",
		Password:    "a-long-enough-password",
		DisplayName: "",
	})
	require.NoError(t, err)

	assert.Equal(t, "yumeko", user.Username, "username is normalized to lowercase")
	assert.Equal(t, "yumeko@example.com", user.Email)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.Zero(t, user.Progress, "new accounts start with zero declared progress")
	assert.Equal(t, "yumeko", user.DisplayName, "display name defaults to username")
	assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)
}

func TestRegister_DuplicateUsernameIsConflict(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())
	seedUser(t, service)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "yumeko",
		Email:    "other@example.com",
		Password: "a-long-enough-password",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"short password", RegisterInput{Username: "yumeko", Email: "y@example.com", Password: "short"}},
		{"bad email", RegisterInput{Username: "yumeko", Email: "not-an-email", Password: "a-long-enough-password"}},
		{"short username", RegisterInput{Username: "yu", Email: "y@example.com", Password: "a-long-enough-password"}},
		{"username with spaces", RegisterInput{Username: "yu me ko", Email: "y@example.com", Password: "a-long-enough-password"}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), testCase.input)
			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		})
	}
}

// # Login

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())
	seedUser(t, service)

	for _, login := range []string{"yumeko", "yumeko@example.com"} {
		session, err := service.Login(context.Background(), LoginInput{
			Login:    login,
			Password: "a-long-enough-password",
		})
		require.NoError(t, err, "login via %q", login)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())
	seedUser(t, service)

	_, wrongPassword := service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "wrong-password-here"})
	_, unknownUser := service.Login(context.Background(), LoginInput{Login: "nobody", Password: "wrong-password-here"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(),
		"responses must not reveal whether the account exists")
}

// # Refresh Rotation

func TestRefresh_RotatesAndKillsOldToken(t *testing.T) {
	sessions := newFakeSessionRepository()
	service := newTestService(newFakeUserRepository(), sessions)
	seedUser(t, service)

	first, err := service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "a-long-enough-password"})
	require.NoError(t, err)

	second, err := service.Refresh(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replaying the first token finds its session revoked.
	_, err = service.Refresh(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestLogout_IsIdempotent(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())
	seedUser(t, service)

	session, err := service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "a-long-enough-password"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), "never-issued"))

	_, err = service.Refresh(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err, "a logged-out token cannot refresh")
}

// # Password Changes

func TestChangePassword_RevokesEverySession(t *testing.T) {
	sessions := newFakeSessionRepository()
	service := newTestService(newFakeUserRepository(), sessions)
	user := seedUser(t, service)

	laptop, err := service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "a-long-enough-password"})
	require.NoError(t, err)
	phone, err := service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "a-long-enough-password"})
	require.NoError(t, err)

	err = service.ChangePassword(context.Background(), user.ID, "a-long-enough-password", "another-long-password")
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), laptop.RefreshToken, "", "")
	assert.Error(t, err)
	_, err = service.Refresh(context.Background(), phone.RefreshToken, "", "")
	assert.Error(t, err)

	// And the new password works.
	_, err = service.Login(context.Background(), LoginInput{Login: "yumeko", Password: "another-long-password"})
	assert.NoError(t, err)
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeSessionRepository())
	user := seedUser(t, service)

	err := service.ChangePassword(context.Background(), user.ID, "not-the-password", "another-long-password")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}
