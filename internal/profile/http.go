// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for member profiles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches profile endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/profiles/{username}", handler.Get)
	api.Get("/profiles/{username}/details", handler.GetDetails)

	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/me/profile", handler.GetOwn)
		user.Get("/me/profile/details", handler.GetOwnDetails)
	})
}

/*
GET /api/v1/profiles/{username}.

Description: Returns the public profile overview. Owners and staff see
counts that include unpublished work.

Response:
  - 200: Overview: Assembled profile
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	actor := moderation.ActorFromClaims(requestutil.Claims(request))

	overview, err := handler.service.Get(request.Context(), actor, username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}

/*
GET /api/v1/me/profile.

Description: Returns the caller's own profile with unpublished counts.
*/
func (handler *Handler) GetOwn(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := moderation.ActorFromClaims(claims)

	overview, err := handler.service.Get(request.Context(), actor, claims.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}

/*
GET /api/v1/profiles/{username}/details.

Description: Returns the itemized profile: individual submissions and canon
edit journal entries. Visibility rules match the overview.

Response:
  - 200: Details: Itemized profile
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) GetDetails(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	actor := moderation.ActorFromClaims(requestutil.Claims(request))

	details, err := handler.service.Details(request.Context(), actor, username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, details)
}

/*
GET /api/v1/me/profile/details.

Description: Returns the caller's own itemized profile, including
unpublished submissions.
*/
func (handler *Handler) GetOwnDetails(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := moderation.ActorFromClaims(claims)

	details, err := handler.service.Details(request.Context(), actor, claims.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, details)
}
