// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package policy is the single authority for contribution permissions.

Every caller — HTTP handlers deciding which action buttons to expose, the
contribution service enforcing an action, the profile aggregator filtering
listings — asks this package instead of re-deriving role/ownership rules.
Centralizing the rules keeps the "no self-approval" and "no self-like"
invariants enforceable in one place and testable in isolation.

The functions here are pure: they never touch storage and never fail for
well-formed input.
*/
package policy

import (
	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// Subject is the content snapshot a permission decision is made about.
type Subject struct {
	AuthorID string
	Status   moderation.Status
	Spoiler  spoiler.Marker
}

// Actions is the set of operations an actor may perform on a subject.
//
// View=false for an approved item means "render the spoiler placeholder",
// not "pretend the item does not exist"; for unapproved items it means the
// item is withheld entirely.
type Actions struct {
	View      bool `json:"view"`
	Edit      bool `json:"edit"`
	Delete    bool `json:"delete"`
	Approve   bool `json:"approve"`
	Reject    bool `json:"reject"`
	Unpublish bool `json:"unpublish"`
	Like      bool `json:"like"`
}

/*
For computes the permitted action set for an actor over a subject.

Description: actor is nil for anonymous readers. progress is the actor's
declared reading progress (callers pass [spoiler.Unrestricted] for staff
preview contexts and [spoiler.Anonymous] for anonymous readers).

Rules:
  - edit/delete: owner or staff.
  - approve/reject/unpublish: staff only — ownership grants nothing here,
    so an author can never self-approve.
  - like: any authenticated actor except the owner.
  - view: unapproved content is visible only to the owner or staff;
    approved content is gated by the spoiler marker (owners always see
    their own submissions).

Parameters:
  - actor: *moderation.Actor (nil = anonymous)
  - progress: spoiler.Progress
  - subject: Subject

Returns:
  - Actions: The full permitted action set
*/
func For(actor *moderation.Actor, progress spoiler.Progress, subject Subject) Actions {
	isOwner := actor != nil && actor.ID == subject.AuthorID
	isStaff := actor != nil && actor.IsStaff()

	return Actions{
		View:      canView(isOwner, isStaff, progress, subject),
		Edit:      isOwner || isStaff,
		Delete:    isOwner || isStaff,
		Approve:   isStaff,
		Reject:    isStaff,
		Unpublish: isStaff,
		Like:      actor != nil && !isOwner,
	}
}

// CanView is a shortcut when only visibility matters (listings, aggregates).
func CanView(actor *moderation.Actor, progress spoiler.Progress, subject Subject) bool {
	return For(actor, progress, subject).View
}

// canView implements the visibility rule described on [For].
func canView(isOwner, isStaff bool, progress spoiler.Progress, subject Subject) bool {

	// Unapproved content is never visible to the general public.
	if subject.Status != moderation.StatusApproved {
		return isOwner || isStaff
	}

	// Authors always see their own published work, whatever their declared
	// progress says.
	if isOwner {
		return true
	}

	return spoiler.Visible(progress, subject.Spoiler)
}
