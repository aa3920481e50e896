// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package canon

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the canon reference catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new canon [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches canon endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/canon/chapters", handler.ListChapters)
	api.Get("/canon/{kind}", handler.List)
	api.Get("/canon/{kind}/{slug}", handler.GetBySlug)

	// Staff curation endpoints
	api.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleModerator))
		staff.Post("/canon", handler.Create)
		staff.Patch("/canon/entities/{id}", handler.Update)
		staff.Delete("/canon/entities/{id}", handler.Delete)
	})
}

// # Entity Discovery

/*
GET /api/v1/canon/{kind}.

Description: Returns the paginated entity listing for one kind. Bodies are
spoiler-redacted per the caller's declared progress; names and summaries
are always visible.

Request:
  - kind: string (character, gamble, arc, organization, event)
  - q: string (Optional name search)
  - limit, page: int

Response:
  - 200: []EntityView: Paginated list
  - 400: ErrValidation: Unknown kind
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	actor := moderation.ActorFromClaims(requestutil.Claims(request))

	filter := EntityFilter{
		Kind:   Kind(requestutil.Param(request, "kind")),
		Search: request.URL.Query().Get("q"),
	}

	views, meta, err := handler.service.List(request.Context(), actor, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

/*
GET /api/v1/canon/{kind}/{slug}.

Response:
  - 200: EntityView: Redacted entity
  - 404: ErrNotFound: Entity not found
*/
func (handler *Handler) GetBySlug(writer http.ResponseWriter, request *http.Request) {
	actor := moderation.ActorFromClaims(requestutil.Claims(request))
	kind := Kind(requestutil.Param(request, "kind"))
	entitySlug := requestutil.Param(request, "slug")

	view, err := handler.service.GetBySlug(request.Context(), actor, kind, entitySlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
GET /api/v1/canon/chapters.

Description: Returns the chapter index. Never spoiler-gated: chapter
numbers and titles form the scale reading progress is declared on.
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	chapters, meta, err := handler.service.ListChapters(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, chapters, meta)
}

// # Staff Curation

/*
POST /api/v1/canon.

Request:
  - body: CreateEntityInput

Response:
  - 201: Entity: Created entity
  - 403: ErrForbidden: Caller is not staff
  - 409: ErrConflict: Slug collision within the kind
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input CreateEntityInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
PATCH /api/v1/canon/entities/{id}.

Description: Edits an entity and journals the change under the editor's
account. The journal note is mandatory.

Response:
  - 200: Entity: Updated entity
  - 400: ErrValidation: Missing journal note
  - 404: ErrNotFound: Entity not found
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input UpdateEntityInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Update(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/canon/entities/{id}.

Response:
  - 204: No content
  - 404: ErrNotFound: Entity not found
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	if err := handler.service.Delete(request.Context(), actor, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
