// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package moderation governs the lifecycle of community-submitted content.

Annotations, guides, media, and quotes all share one status enumeration and
one centralized transition table. What varies per content type is only the
initial state selection (guides support a draft phase) and which fields the
draft→pending validation inspects.

# Architecture

  - Status / ContentType: shared tagged enumerations.
  - Transition: a pure function computing the outcome of a requested status
    change, or failing atomically with a typed error. Persistence happens in
    the contribution service only after Transition succeeds, so no partial
    state is ever observable.
*/
package moderation

// # Statuses

// Status is the moderation state of a piece of submitted content.
type Status string

const (
	// StatusDraft is a private work-in-progress (guides only).
	StatusDraft Status = "draft"

	// StatusPending awaits review by a moderator or admin.
	StatusPending Status = "pending"

	// StatusApproved is publicly visible ("published" in guide contexts).
	StatusApproved Status = "approved"

	// StatusRejected was declined with a mandatory reason.
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Statuses returns all defined statuses, for validation messages.
func Statuses() []string {
	return []string{
		string(StatusDraft),
		string(StatusPending),
		string(StatusApproved),
		string(StatusRejected),
	}
}

// # Content Types

// ContentType identifies the kind of community submission.
type ContentType string

const (
	// TypeAnnotation is an inline note attached to a canon entity.
	TypeAnnotation ContentType = "annotation"

	// TypeGuide is a long-form community guide.
	TypeGuide ContentType = "guide"

	// TypeMedia is a media submission (metadata + URL; byte storage is external).
	TypeMedia ContentType = "media"

	// TypeQuote is a sourced quotation from the work.
	TypeQuote ContentType = "quote"
)

// IsValid reports whether t is one of the defined content types.
func (t ContentType) IsValid() bool {
	switch t {
	case TypeAnnotation, TypeGuide, TypeMedia, TypeQuote:
		return true
	default:
		return false
	}
}

// ContentTypes returns all defined content types, for validation messages.
func ContentTypes() []string {
	return []string{
		string(TypeAnnotation),
		string(TypeGuide),
		string(TypeMedia),
		string(TypeQuote),
	}
}

// SupportsDraft reports whether the content type has a private draft phase.
//
// Only guides do: annotations, media, and quotes go straight to pending on
// submission. The transition table itself is shared — only this capability
// and [InitialStatus] vary per type.
func (t ContentType) SupportsDraft() bool {
	return t == TypeGuide
}

// RequiresTitle reports whether the draft→pending validation inspects the title.
// Annotations and quotes are body-only.
func (t ContentType) RequiresTitle() bool {
	return t == TypeGuide || t == TypeMedia
}

// InitialStatus selects the status a new submission of this type starts in.
//
// A draft is honored only for types that support the draft phase; everything
// else starts pending regardless of the caller's wish.
func (t ContentType) InitialStatus(wantDraft bool) Status {
	if wantDraft && t.SupportsDraft() {
		return StatusDraft
	}
	return StatusPending
}
