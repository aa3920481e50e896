// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mizusawa-dev/kakeroku/internal/canon"
	"github.com/mizusawa-dev/kakeroku/internal/contribution"
	"github.com/mizusawa-dev/kakeroku/internal/platform/config"
	"github.com/mizusawa-dev/kakeroku/internal/platform/constants"
	"github.com/mizusawa-dev/kakeroku/internal/platform/middleware"
	"github.com/mizusawa-dev/kakeroku/internal/profile"
	"github.com/mizusawa-dev/kakeroku/internal/reader"
	"github.com/mizusawa-dev/kakeroku/internal/users/auth"
	"github.com/mizusawa-dev/kakeroku/internal/viewtrack"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration and session routes.
	Auth *auth.Handler

	// Canon serves the reference database: entities, chapters, and the edit surface.
	Canon *canon.Handler

	// Contribution serves community content and the moderation queue.
	Contribution *contribution.Handler

	// Reader manages declared reading progress.
	Reader *reader.Handler

	// Profile serves public contribution profiles.
	Profile *profile.Handler

	// Views accepts explicit fire-and-forget view reports.
	Views *viewtrack.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.BrowserSession())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain route groups mounted under the versioned prefix. Handlers attach
	// their own RequireAuth/RequireRole sub-groups.
	r.Route("/api/v1", func(api chi.Router) {
		h.Auth.RegisterRoutes(api)
		h.Canon.RegisterRoutes(api)
		h.Contribution.RegisterRoutes(api)
		h.Reader.RegisterRoutes(api)
		h.Profile.RegisterRoutes(api)
		h.Views.RegisterRoutes(api)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
