// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package moderation

import (
	"strings"

	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
)

// # Actors & Items

// Actor is the minimal identity the state machine needs to authorize a
// transition.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// IsStaff reports whether the actor may perform moderator-only transitions.
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// ActorFromClaims adapts authenticated token claims into an Actor.
// Returns nil for anonymous requests (nil claims).
func ActorFromClaims(claims *sec.AuthClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}
}

// Item is the snapshot of a content item the state machine evaluates.
// Title and Body are only inspected for the draft→pending validation.
type Item struct {
	AuthorID        string
	Type            ContentType
	Status          Status
	RejectionReason *string
	Title           string
	Body            string
}

// Result is the computed outcome of a successful transition.
//
// The state machine never mutates its input: callers persist Status and
// RejectionReason together in one storage write, which is what makes the
// transition atomic from an observer's point of view.
type Result struct {
	Status          Status
	RejectionReason *string
	// Changed is false for a same-state no-op, so callers can skip the write.
	Changed bool
}

// # Transition Table

// edge identifies one permitted (from → to) pair.
type edge struct {
	from Status
	to   Status
}

// edgeRule describes who may traverse an edge and what it does to metadata.
type edgeRule struct {
	// authorOnly: only the item's author may trigger this edge.
	// staffOnly: only moderator/admin may trigger this edge.
	// Exactly one of the two is set for every rule.
	authorOnly bool
	staffOnly  bool

	// requiresReason: the transition demands a non-empty reason (reject).
	requiresReason bool

	// validatesContent: the transition demands non-empty content (submit draft).
	validatesContent bool

	// clearsReason: the transition wipes any prior rejection reason.
	clearsReason bool
}

// transitions is the single, centralized table of permitted status changes.
// No other code path may set a content status.
var transitions = map[edge]edgeRule{
	// Author submits a finished draft for review.
	{StatusDraft, StatusPending}: {authorOnly: true, validatesContent: true},

	// Review outcomes.
	{StatusPending, StatusApproved}: {staffOnly: true, clearsReason: true},
	{StatusPending, StatusRejected}: {staffOnly: true, requiresReason: true},

	// Unpublish: reversible, no reason needed.
	{StatusApproved, StatusPending}: {staffOnly: true, clearsReason: true},

	// Author re-submits after addressing the rejection reason.
	{StatusRejected, StatusPending}: {authorOnly: true, clearsReason: true},
}

// # Transition Evaluation

/*
Transition computes the outcome of moving item to the target status.

Description: Pure evaluation of the centralized transition table. The check
order is deliberate: unknown target, then same-state no-op, then edge
existence, then role, then required data. A failure at any step returns a
typed error and NO partial result — the caller must not write anything.

Parameters:
  - actor: Actor (who is requesting the change)
  - item: Item (current state snapshot)
  - target: Status (requested state)
  - reason: string (mandatory for rejections, ignored otherwise)

Returns:
  - Result: New status + rejection reason to persist together
  - error: apperr.ValidationError or apperr.Forbidden
*/
func Transition(actor Actor, item Item, target Status, reason string) (Result, error) {

	// ── 1. Target Sanity ──────────────────────────────────────────────────
	if !target.IsValid() {
		return Result{}, apperr.ValidationError("Unknown target status",
			apperr.FieldError{Field: "status", Message: "Must be one of: " + strings.Join(Statuses(), ", ")})
	}

	// ── 2. Same-State No-Op ───────────────────────────────────────────────
	// Requesting the current status is not an error; nothing changes.
	if target == item.Status {
		return Result{Status: item.Status, RejectionReason: item.RejectionReason, Changed: false}, nil
	}

	// ── 3. Edge Existence ─────────────────────────────────────────────────
	rule, defined := transitions[edge{item.Status, target}]
	if !defined {
		return Result{}, apperr.ValidationError(
			"Cannot move content from " + string(item.Status) + " to " + string(target))
	}

	// ── 4. Role & Ownership ───────────────────────────────────────────────
	// Permission failures stay generic: the message never reveals which role
	// would have been sufficient.
	if rule.staffOnly && !actor.IsStaff() {
		return Result{}, apperr.Forbidden("You are not allowed to change this content's status")
	}
	// Author edges are strictly author edges: staff review drafts through the
	// queue, they do not submit on a member's behalf.
	if rule.authorOnly && actor.ID != item.AuthorID {
		return Result{}, apperr.Forbidden("You are not allowed to change this content's status")
	}

	// ── 5. Required Data ──────────────────────────────────────────────────
	if rule.requiresReason && strings.TrimSpace(reason) == "" {
		return Result{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "reason", Message: "A rejection reason is required"})
	}

	if rule.validatesContent {
		if err := validateSubmittable(item); err != nil {
			return Result{}, err
		}
	}

	// ── 6. Outcome Assembly ───────────────────────────────────────────────
	result := Result{Status: target, RejectionReason: item.RejectionReason, Changed: true}

	if rule.clearsReason {
		result.RejectionReason = nil
	}
	if rule.requiresReason {
		trimmed := strings.TrimSpace(reason)
		result.RejectionReason = &trimmed
	}

	return result, nil
}

// validateSubmittable enforces the minimum content bar before a draft may
// enter the review queue.
func validateSubmittable(item Item) error {
	var fieldErrors []apperr.FieldError

	if item.Type.RequiresTitle() && strings.TrimSpace(item.Title) == "" {
		fieldErrors = append(fieldErrors, apperr.FieldError{Field: "title", Message: "This field is required"})
	}
	if strings.TrimSpace(item.Body) == "" {
		fieldErrors = append(fieldErrors, apperr.FieldError{Field: "body", Message: "This field is required"})
	}

	if len(fieldErrors) > 0 {
		return apperr.ValidationError("Validation failed", fieldErrors...)
	}
	return nil
}
