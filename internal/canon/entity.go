// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package canon holds the reference material of the serialized work itself:
characters, gambles, arcs, organizations, events, and the chapter index.

Entities are read-mostly. Anyone can browse them (subject to spoiler
gating); only staff edit them, and every edit is journaled so reader
profiles can surface per-kind edit history.
*/
package canon

import (
	"time"

	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

// # Entity Kinds

// Kind identifies a category of canon entity.
type Kind string

const (
	KindCharacter    Kind = "character"
	KindGamble       Kind = "gamble"
	KindArc          Kind = "arc"
	KindOrganization Kind = "organization"
	KindEvent        Kind = "event"
)

// IsValid reports whether k is one of the defined entity kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCharacter, KindGamble, KindArc, KindOrganization, KindEvent:
		return true
	default:
		return false
	}
}

// Kinds returns all defined entity kinds, for validation messages.
func Kinds() []string {
	return []string{
		string(KindCharacter),
		string(KindGamble),
		string(KindArc),
		string(KindOrganization),
		string(KindEvent),
	}
}

// # Domain Entities

// Entity is one canon reference page (a character, a gamble, ...).
//
// The Body carries the substantive write-up and is the part hidden behind
// the spoiler marker; Name and Summary are always safe to show.
type Entity struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	Summary   string         `json:"summary"`
	Body      string         `json:"body"`
	Spoiler   spoiler.Marker `json:"spoiler"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Chapter is one installment of the serialization. Chapter numbers form the
// scale that reading progress and spoiler markers are measured on.
type Chapter struct {
	ID        string    `json:"id"`
	Number    int64     `json:"number"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ArcID     *string   `json:"arc_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityEdit is one journaled staff edit of a canon entity.
type EntityEdit struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	EntityKind Kind      `json:"entity_kind"`
	EditorID   string    `json:"editor_id"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Views

// EntityView is the transport shape of an entity after spoiler redaction.
type EntityView struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Summary     string         `json:"summary"`
	Body        string         `json:"body,omitempty"`
	Spoiler     spoiler.Marker `json:"spoiler"`
	Visible     bool           `json:"visible"`
	Placeholder string         `json:"placeholder,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ViewFor redacts the entity body for a reader with the given progress.
func (e *Entity) ViewFor(progress spoiler.Progress) EntityView {
	visible, placeholder := spoiler.Redact(progress, e.Spoiler)

	view := EntityView{
		ID:          e.ID,
		Kind:        e.Kind,
		Slug:        e.Slug,
		Name:        e.Name,
		Summary:     e.Summary,
		Spoiler:     e.Spoiler,
		Visible:     visible,
		Placeholder: placeholder,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	if visible {
		view.Body = e.Body
	}

	return view
}
