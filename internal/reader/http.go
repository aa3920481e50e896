// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package reader

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for reading progress.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reader [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches progress endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/me/progress", handler.Get)
		user.Put("/me/progress", handler.Update)
	})

	api.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Put("/users/{id}/progress", handler.AdminSet)
	})
}

/*
GET /api/v1/me/progress.

Response:
  - 200: Status: Declared progress and the current chapter bound
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
PUT /api/v1/me/progress.

Description: Sets the caller's declared progress. Both directions are
allowed — lowering progress is an explicit, legitimate request.

Request:
  - body: UpdateInput

Response:
  - 200: Status: Updated progress
  - 400: ErrValidation: Negative or beyond the latest chapter
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.Update(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
PUT /api/v1/users/{id}/progress.

Description: Admin override of another user's progress, for support cases.
Accepts the unrestricted sentinel in addition to concrete chapter numbers.

Response:
  - 200: Status: Updated progress
  - 403: ErrForbidden: Caller is not an admin
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) AdminSet(writer http.ResponseWriter, request *http.Request) {
	targetID := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.AdminSet(request.Context(), actor, targetID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}
