// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package contribution

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/ctxutil"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/pkg/pagination"
)

// # Handler Implementation

// ViewRecorder records a successful content view for the dedup counters.
// Implemented by the viewtrack tracker; it never fails the request.
type ViewRecorder interface {
	Record(ctx context.Context, sessionID, contentType, contentID string)
}

// Handler implements the HTTP layer for community contributions.
type Handler struct {
	service *Service
	views   ViewRecorder
}

// NewHandler constructs a new contribution [Handler].
func NewHandler(service *Service, views ViewRecorder) *Handler {
	return &Handler{service: service, views: views}
}

// RegisterRoutes attaches contribution endpoints to the root API router.
// Contribution endpoints span /contributions/..., /entities/.../contributions,
// /me/contributions, and the staff /moderation/queue.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/contributions/{id}", handler.Get)
	api.Get("/entities/{kind}/{entityID}/contributions", handler.ListForEntity)

	// Authenticated interactions
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/contributions", handler.Submit)
		user.Patch("/contributions/{id}", handler.Edit)
		user.Delete("/contributions/{id}", handler.Delete)
		user.Post("/contributions/{id}/status", handler.TransitionStatus)
		user.Post("/contributions/{id}/like", handler.ToggleLike)
		user.Get("/me/contributions", handler.ListOwn)
	})

	// Moderation queue
	api.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleModerator))
		staff.Get("/moderation/queue", handler.ListQueue)
	})
}

// # Content Retrieval

/*
GET /api/v1/contributions/{id}.

Description: Returns one contribution redacted for the requesting actor.
Visible approved content additionally records a deduplicated view against
the caller's browser session.

Response:
  - 200: View: Redacted contribution
  - 404: ErrNotFound: Absent, or unapproved and withheld
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	actor := moderation.ActorFromClaims(requestutil.Claims(request))

	view, err := handler.service.Get(request.Context(), actor, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A view only counts when the reader actually saw the content.
	if view.Visible && view.Status == moderation.StatusApproved {
		handler.views.Record(request.Context(),
			ctxutil.GetSessionID(request.Context()), string(view.Type), view.ID)
	}

	respond.OK(writer, view)
}

/*
GET /api/v1/entities/{kind}/{entityID}/contributions.

Description: Returns the paginated contributions attached to a canon entity.
Non-staff callers only see approved content; gated items carry placeholders.

Request:
  - kind: string (character, gamble, arc, organization, event)
  - entityID: string (UUID)
  - type: string (Optional content type filter)
  - status: string (Optional, staff only)
  - limit, page: int

Response:
  - 200: []View: Paginated list
  - 400: ErrValidation: Unknown entity kind
*/
func (handler *Handler) ListForEntity(writer http.ResponseWriter, request *http.Request) {
	kind := requestutil.Param(request, "kind")
	entityID := requestutil.Param(request, "entityID")
	actor := moderation.ActorFromClaims(requestutil.Claims(request))

	filter := Filter{
		Type:   moderation.ContentType(request.URL.Query().Get("type")),
		Status: moderation.Status(request.URL.Query().Get("status")),
	}

	views, meta, err := handler.service.ListForEntity(request.Context(), actor, kind, entityID, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

/*
GET /api/v1/me/contributions.

Description: Returns the caller's own contributions in every status,
including drafts and rejected items with their reasons.
*/
func (handler *Handler) ListOwn(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	filter := Filter{
		Type:   moderation.ContentType(request.URL.Query().Get("type")),
		Status: moderation.Status(request.URL.Query().Get("status")),
	}

	views, meta, err := handler.service.ListOwn(request.Context(), actor, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

/*
GET /api/v1/moderation/queue.

Description: Returns pending submissions for review. Defaults to pending;
staff may filter by status, type, or author.

Response:
  - 200: []View: Paginated queue
  - 403: ErrForbidden: Caller is not staff
*/
func (handler *Handler) ListQueue(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	filter := Filter{
		Type:     moderation.ContentType(request.URL.Query().Get("type")),
		Status:   moderation.Status(request.URL.Query().Get("status")),
		AuthorID: request.URL.Query().Get("author_id"),
	}

	views, meta, err := handler.service.ListQueue(request.Context(), actor, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

// # Content Lifecycle

/*
POST /api/v1/contributions.

Description: Creates a new contribution owned by the caller. Guides may be
saved as drafts; everything else enters the review queue immediately.

Request:
  - body: SubmitInput

Response:
  - 201: View: Created contribution
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Submit(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input SubmitInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Submit(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

/*
PATCH /api/v1/contributions/{id}.

Description: Updates the editable fields of a contribution. Owner or staff
only; the moderation status is never touched here.

Response:
  - 200: View: Updated contribution
  - 403: ErrForbidden: Caller is neither owner nor staff
  - 404: ErrNotFound: Contribution not found
*/
func (handler *Handler) Edit(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input EditInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Edit(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
DELETE /api/v1/contributions/{id}.

Response:
  - 204: No content
  - 403: ErrForbidden: Caller is neither owner nor staff
  - 404: ErrNotFound: Contribution not found
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

// # Moderation

/*
POST /api/v1/contributions/{id}/status.

Description: Applies a moderation status change through the centralized
transition table. Rejections require a reason; a same-state request is a
no-op success.

Request:
  - body: StatusInput

Response:
  - 200: View: Contribution after the transition
  - 400: ErrValidation: Undefined edge or missing reason
  - 403: ErrForbidden: Role or ownership does not permit the edge
*/
func (handler *Handler) TransitionStatus(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	var input StatusInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.TransitionStatus(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// # Reader Interaction

/*
POST /api/v1/contributions/{id}/like.

Description: Toggles the caller's like on an approved contribution. Authors
cannot like their own work.

Response:
  - 200: LikeResult: Post-toggle state and count
  - 400: ErrValidation: Self-like attempt
  - 404: ErrNotFound: Hidden or absent contribution
*/
func (handler *Handler) ToggleLike(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor := *moderation.ActorFromClaims(claims)

	result, err := handler.service.ToggleLike(request.Context(), actor, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
