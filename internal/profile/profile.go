// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package profile aggregates a member's public contribution record.

A profile is a read model assembled from several sources: the account
identity, submission counts per content type, and canon edit counts per
entity kind. Each category is fetched independently and degrades
gracefully: a failing source marks its category unavailable instead of
failing the whole profile.
*/
package profile

import (
	"time"
)

// # Read Model

// SubmissionCounts holds per-type contribution counts. Every key is always
// present; absent activity is an explicit zero.
type SubmissionCounts struct {
	Annotations int64 `json:"annotations"`
	Guides      int64 `json:"guides"`
	Media       int64 `json:"media"`
	Quotes      int64 `json:"quotes"`
}

// Total sums all submission categories.
func (c SubmissionCounts) Total() int64 {
	return c.Annotations + c.Guides + c.Media + c.Quotes
}

// EditCounts holds per-kind canon edit counts. Every key is always present.
type EditCounts struct {
	Characters    int64 `json:"characters"`
	Gambles       int64 `json:"gambles"`
	Arcs          int64 `json:"arcs"`
	Organizations int64 `json:"organizations"`
	Events        int64 `json:"events"`
}

// Total sums all edit categories.
func (c EditCounts) Total() int64 {
	return c.Characters + c.Gambles + c.Arcs + c.Organizations + c.Events
}

// UserSummary is the public identity slice of an account.
type UserSummary struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// SubmissionItem is one contribution in the itemized details view.
type SubmissionItem struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EditItem is one canon edit journal entry in the itemized details view.
type EditItem struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	EntityKind string    `json:"entity_kind"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// Overview is the assembled profile.
//
// IncludesUnpublished reports whether the submission counts cover drafts,
// pending, and rejected items — true only when the viewer is the profile
// owner or staff. Unavailable lists the categories whose source failed
// during assembly; their counts are zero-valued, not missing.
type Overview struct {
	User                UserSummary      `json:"user"`
	Submissions         SubmissionCounts `json:"submissions"`
	Edits               EditCounts       `json:"edits"`
	IncludesUnpublished bool             `json:"includes_unpublished"`
	Unavailable         []string         `json:"unavailable,omitempty"`
}

// Details is the itemized companion to [Overview]. The same visibility and
// degradation rules apply; empty categories are empty slices, never null.
type Details struct {
	User                UserSummary      `json:"user"`
	Submissions         []SubmissionItem `json:"submissions"`
	Edits               []EditItem       `json:"edits"`
	IncludesUnpublished bool             `json:"includes_unpublished"`
	Unavailable         []string         `json:"unavailable,omitempty"`
}
