// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package viewtrack counts content views exactly once per browser session.

# Architecture

  - SessionStore: the per-session dedup set (Redis in production, memory in
    tests). Membership answers "has this session already viewed this item?".
  - Recorder: the durable sink (Postgres) that appends a view record and
    bumps the content's counter in one transaction.
  - Tracker: orchestrates both with an optimistic mark-then-record flow and
    rolls the mark back if the durable write fails.

View tracking is best-effort by contract: a failure in any dependency is
logged and swallowed. Rendering content never fails because counting did.
*/
package viewtrack

import (
	"context"
	"log/slog"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/pkg/uuid"
)

// # Contracts

// SessionStore is the per-session set of already-viewed content IDs.
type SessionStore interface {
	// Has reports whether the session already viewed the content.
	Has(ctx context.Context, sessionID, contentID string) (bool, error)

	// Add marks the content as viewed by the session.
	Add(ctx context.Context, sessionID, contentID string) error

	// Remove undoes a mark after a failed durable write.
	Remove(ctx context.Context, sessionID, contentID string) error
}

// Recorder is the durable sink for accepted views.
type Recorder interface {
	// RecordView appends a view record and increments the content's view
	// counter in one transaction.
	RecordView(ctx context.Context, contentType, contentID, sessionID string) error
}

// # Tracker

// Tracker deduplicates and records content views.
type Tracker struct {
	sessions SessionStore
	recorder Recorder
	logger   *slog.Logger
}

// NewTracker constructs a view tracker.
func NewTracker(sessions SessionStore, recorder Recorder, logger *slog.Logger) *Tracker {
	return &Tracker{
		sessions: sessions,
		recorder: recorder,
		logger:   logger,
	}
}

/*
Record counts one content view for a browser session.

Description: The flow is validate → dedup check → optimistic mark → durable
write, with the mark rolled back when the write fails so the view can be
retried later in the same session. Every failure path logs and returns
normally; callers never branch on tracking.

Steps:
  - An empty session ID (cookie minting failed) skips tracking entirely.
  - Local validation rejects garbage before any network hop: the content
    type must be a defined type and the ID a well-formed UUID.
  - A session that already viewed the content is a silent no-op.

Parameters:
  - ctx: context.Context
  - sessionID: string (browser session, may be empty)
  - contentType: string (annotation, guide, media, quote)
  - contentID: string (content UUID)
*/
func (tracker *Tracker) Record(ctx context.Context, sessionID, contentType, contentID string) {

	// ── 1. Local Validation ───────────────────────────────────────────────
	// Cheap checks first: no dedup-store or database round-trip for input
	// that can never count.
	if sessionID == "" {
		return
	}

	if !moderation.ContentType(contentType).IsValid() || !uuid.IsValid(contentID) {
		tracker.logger.Warn("view_rejected_invalid_input",
			slog.String("content_type", contentType),
			slog.String("content_id", contentID),
		)
		return
	}

	// ── 2. Dedup Check ────────────────────────────────────────────────────
	seen, err := tracker.sessions.Has(ctx, sessionID, contentID)
	if err != nil {
		tracker.logger.Warn("view_dedup_check_failed",
			slog.String("content_id", contentID),
			slog.String("error", err.Error()),
		)
		return
	}
	if seen {
		return
	}

	// ── 3. Optimistic Mark ────────────────────────────────────────────────
	// Marking before the durable write closes the double-count window for
	// rapid repeat requests from the same session.
	if err := tracker.sessions.Add(ctx, sessionID, contentID); err != nil {
		tracker.logger.Warn("view_mark_failed",
			slog.String("content_id", contentID),
			slog.String("error", err.Error()),
		)
		return
	}

	// ── 4. Durable Write ──────────────────────────────────────────────────
	if err := tracker.recorder.RecordView(ctx, contentType, contentID, sessionID); err != nil {
		tracker.logger.Error("view_record_failed",
			slog.String("content_id", contentID),
			slog.String("error", err.Error()),
		)

		// Roll the mark back so the session can retry the view later.
		if rollbackErr := tracker.sessions.Remove(ctx, sessionID, contentID); rollbackErr != nil {
			tracker.logger.Error("view_mark_rollback_failed",
				slog.String("content_id", contentID),
				slog.String("error", rollbackErr.Error()),
			)
		}
		return
	}
}
