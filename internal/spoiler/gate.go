// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

/*
Package spoiler implements progress-gated content visibility.

Every reader declares how far into the serialization they have read. Canon
entity fields and community contributions carry an optional spoiler marker
(a chapter threshold); content is hidden behind a placeholder until the
reader's declared progress reaches that threshold.

# Architecture

  - Pure predicates: no storage, no side effects beyond diagnostics logging.
  - Callers substitute [Placeholder] text when a marker is not visible.
  - Staff preview paths pass [Unrestricted] explicitly.
*/
package spoiler

import (
	"fmt"
	"log/slog"
	"math"
)

// Progress is a reader-declared chapter marker.
//
// It gates spoiler visibility only — it never grants or denies access to
// non-spoiler content. Progress is mutated exclusively by explicit reader
// action (or an admin override) and never decreases implicitly.
type Progress int64

const (
	// Anonymous is the progress assumed for unauthenticated readers:
	// maximally restricted.
	Anonymous Progress = 0

	// Unrestricted is the reserved maximum sentinel. It is used for
	// moderation/admin preview contexts where gating must not apply.
	// A concrete chapter number can never reach it.
	Unrestricted Progress = math.MaxInt64
)

// Marker is the spoiler annotation carried by a piece of content.
//
// Invariant: Chapter is positive iff IsSpoiler is true.
type Marker struct {
	IsSpoiler bool  `json:"is_spoiler"`
	Chapter   int64 `json:"spoiler_chapter,omitempty"`
}

// None is the zero marker for content without spoilers.
var None = Marker{}

// ForChapter builds a spoiler marker for the given chapter threshold.
func ForChapter(chapter int64) Marker {
	return Marker{IsSpoiler: true, Chapter: chapter}
}

// WellFormed reports whether the marker satisfies the data-model invariant.
func (m Marker) WellFormed() bool {
	if m.IsSpoiler {
		return m.Chapter > 0
	}
	return m.Chapter == 0
}

// Visible decides whether content carrying the marker may be rendered for a
// reader with the given progress.
//
// # Rules
//
//   - Non-spoiler content is always visible.
//   - Spoiler content is visible iff progress >= marker chapter.
//   - A malformed marker (spoiler flag with a non-positive chapter) is a
//     programming error upstream. It is logged and treated as hidden —
//     never silently visible.
//
// Visibility is monotonic in progress: raising progress never hides content.
func Visible(progress Progress, marker Marker) bool {
	if !marker.IsSpoiler {
		return true
	}

	if marker.Chapter <= 0 {
		slog.Error("malformed_spoiler_marker",
			slog.Int64("chapter", marker.Chapter),
		)
		return false
	}

	return int64(progress) >= marker.Chapter
}

// Placeholder returns the redaction text shown in place of hidden content.
//
// The text always names the exact unlock chapter so readers know what
// progress reveals it.
func Placeholder(marker Marker) string {
	return fmt.Sprintf("Contains spoilers for chapter %d and beyond. Update your reading progress to reveal it.", marker.Chapter)
}

// Redact is a convenience combining [Visible] and [Placeholder].
//
// Returns:
//   - true, "" when the content may be rendered
//   - false, placeholder text when it must be hidden
func Redact(progress Progress, marker Marker) (bool, string) {
	if Visible(progress, marker) {
		return true, ""
	}
	return false, Placeholder(marker)
}
