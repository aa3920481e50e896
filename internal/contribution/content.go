// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package contribution implements the lifecycle of community-submitted
content: annotations, guides, media, and quotes.

It is the only writer of moderation statuses (through the centralized
transition table in [moderation]) and the only place the like toggle and
spoiler redaction of contributions are enforced.
*/
package contribution

import (
	"time"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/policy"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// # Domain Entities

// Content is one community submission attached to a canon entity.
//
// Invariants (enforced at submission and edit time, mirrored by the
// database schema):
//   - Spoiler.Chapter is positive iff Spoiler.IsSpoiler.
//   - RejectionReason is non-nil iff Status is rejected.
//   - ViewCount and LikeCount never go negative; LikeCount moves only by
//     the like toggle (±1).
//   - AuthorID never changes after creation.
type Content struct {
	ID              string                 `json:"id"`
	Type            moderation.ContentType `json:"type"`
	EntityKind      string                 `json:"entity_kind"`
	EntityID        string                 `json:"entity_id"`
	AuthorID        string                 `json:"author_id"`
	Title           string                 `json:"title,omitempty"`
	Body            string                 `json:"body"`
	MediaURL        string                 `json:"media_url,omitempty"`
	Status          moderation.Status      `json:"status"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
	Spoiler         spoiler.Marker         `json:"spoiler"`
	ViewCount       int64                  `json:"view_count"`
	LikeCount       int64                  `json:"like_count"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Subject adapts the content for permission decisions.
func (c *Content) Subject() policy.Subject {
	return policy.Subject{
		AuthorID: c.AuthorID,
		Status:   c.Status,
		Spoiler:  c.Spoiler,
	}
}

// ModerationItem adapts the content for state machine evaluation.
func (c *Content) ModerationItem() moderation.Item {
	return moderation.Item{
		AuthorID:        c.AuthorID,
		Type:            c.Type,
		Status:          c.Status,
		RejectionReason: c.RejectionReason,
		Title:           c.Title,
		Body:            c.Body,
	}
}

// # Views

// View is the transport shape of a contribution after spoiler redaction,
// including the action affordances the requesting actor may use.
type View struct {
	ID              string                 `json:"id"`
	Type            moderation.ContentType `json:"type"`
	EntityKind      string                 `json:"entity_kind"`
	EntityID        string                 `json:"entity_id"`
	AuthorID        string                 `json:"author_id"`
	Title           string                 `json:"title,omitempty"`
	Body            string                 `json:"body,omitempty"`
	MediaURL        string                 `json:"media_url,omitempty"`
	Status          moderation.Status      `json:"status"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
	Spoiler         spoiler.Marker         `json:"spoiler"`
	Visible         bool                   `json:"visible"`
	Placeholder     string                 `json:"placeholder,omitempty"`
	ViewCount       int64                  `json:"view_count"`
	LikeCount       int64                  `json:"like_count"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Actions         policy.Actions         `json:"actions"`
}

// viewFor builds the redacted transport shape for one actor.
//
// When the spoiler gate hides the content, Title/Body/MediaURL are blanked
// and the placeholder (naming the unlock chapter) is substituted. Metadata
// (counts, status, timestamps) stays visible either way.
func viewFor(content *Content, actions policy.Actions, progress spoiler.Progress, isOwner bool) View {
	visible := true
	placeholder := ""

	// Owners bypass the gate for their own work.
	if !isOwner {
		visible, placeholder = spoiler.Redact(progress, content.Spoiler)
	}

	view := View{
		ID:              content.ID,
		Type:            content.Type,
		EntityKind:      content.EntityKind,
		EntityID:        content.EntityID,
		AuthorID:        content.AuthorID,
		Status:          content.Status,
		RejectionReason: content.RejectionReason,
		Spoiler:         content.Spoiler,
		Visible:         visible,
		Placeholder:     placeholder,
		ViewCount:       content.ViewCount,
		LikeCount:       content.LikeCount,
		CreatedAt:       content.CreatedAt,
		UpdatedAt:       content.UpdatedAt,
		Actions:         actions,
	}

	if visible {
		view.Title = content.Title
		view.Body = content.Body
		view.MediaURL = content.MediaURL
	}

	return view
}

// # Field Identifiers

const (
	FieldType           = "type"
	FieldEntityKind     = "entity_kind"
	FieldEntityID       = "entity_id"
	FieldTitle          = "title"
	FieldBody           = "body"
	FieldMediaURL       = "media_url"
	FieldStatus         = "status"
	FieldReason         = "reason"
	FieldSpoilerChapter = "spoiler_chapter"
)
