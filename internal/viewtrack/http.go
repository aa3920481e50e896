// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package viewtrack

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizusawa-dev/kakeroku/internal/platform/ctxutil"
	requestutil "github.com/mizusawa-dev/kakeroku/internal/platform/request"
	"github.com/mizusawa-dev/kakeroku/internal/platform/respond"
)

// # Handler Implementation

// Handler exposes the explicit view-recording endpoint. Most views are
// recorded implicitly by the content read path; this endpoint exists for
// clients that render from a cache and report the view separately.
type Handler struct {
	tracker *Tracker
}

// NewHandler constructs a new viewtrack [Handler].
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// RegisterRoutes attaches view endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/views/{type}/{id}", handler.Record)
}

/*
POST /api/v1/views/{type}/{id}.

Description: Fire-and-forget view report. Always returns 202: the tracker
validates, deduplicates, and records internally, and swallows every
failure. Clients get no signal about whether the view counted.
*/
func (handler *Handler) Record(writer http.ResponseWriter, request *http.Request) {
	handler.tracker.Record(
		request.Context(),
		ctxutil.GetSessionID(request.Context()),
		requestutil.Param(request, "type"),
		requestutil.Param(request, "id"),
	)

	respond.JSON(writer, http.StatusAccepted, respond.SuccessEnvelope{
		Data: map[string]string{"status": "accepted"},
	})
}
