// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/constants"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for authentication.
type Handler struct {
	service *Service

	// secureCookies toggles the Secure flag; disabled for local development
	// over plain HTTP.
	secureCookies bool
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// RegisterRoutes attaches auth endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/auth/register", handler.Register)
	api.Post("/auth/login", handler.Login)
	api.Post("/auth/refresh", handler.Refresh)
	api.Post("/auth/logout", handler.Logout)

	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/auth/password", handler.ChangePassword)
	})
}

// # Registration

/*
POST /api/v1/auth/register.

Request:
  - body: RegisterInput

Response:
  - 201: User: Created account
  - 400: ErrValidation: Invalid payload
  - 409: ErrConflict: Username or email taken
*/
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// # Sessions

// sessionResponse is the transport shape of an established session. The
// refresh token travels in an HttpOnly cookie, never in the JSON body.
type sessionResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

/*
POST /api/v1/auth/login.

Request:
  - body: LoginInput (login may be username or email)

Response:
  - 200: sessionResponse + refresh cookie
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.UserAgent = request.UserAgent()
	input.IPAddress = request.RemoteAddr

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, sessionResponse{AccessToken: session.AccessToken, User: session.User})
}

/*
POST /api/v1/auth/refresh.

Description: Rotates the refresh token presented in the cookie and issues
a fresh access token. The old refresh token is dead after this call.

Response:
  - 200: sessionResponse + rotated refresh cookie
  - 401: ErrUnauthorized: Missing, expired, or replayed token
*/
func (handler *Handler) Refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.service.Refresh(request.Context(), cookie.Value, request.UserAgent(), request.RemoteAddr)
	if err != nil {
		handler.clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, sessionResponse{AccessToken: session.AccessToken, User: session.User})
}

/*
POST /api/v1/auth/logout.

Description: Revokes the presented session. Always succeeds, with or
without a valid cookie.
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		if err := handler.service.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// # Password Management

// changePasswordRequest is the inbound schema for a password rotation.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
POST /api/v1/auth/password.

Description: Rotates the caller's password and revokes every refresh
session, forcing re-login on all devices.

Response:
  - 204: No content
  - 401: ErrUnauthorized: Current password incorrect
*/
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// # Cookie Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
