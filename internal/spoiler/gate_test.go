// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package spoiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

/*
TestVisible_NonSpoilerAlwaysVisible checks that content without a spoiler
flag is visible at every progress level, including zero.
*/
func TestVisible_NonSpoilerAlwaysVisible(t *testing.T) {
	progresses := []spoiler.Progress{
		spoiler.Anonymous,
		1,
		250,
		539,
		spoiler.Unrestricted,
	}

	for _, progress := range progresses {
		assert.True(t, spoiler.Visible(progress, spoiler.None),
			"non-spoiler content must be visible at progress %d", progress)
	}
}

/*
TestVisible_ThresholdBoundary checks visibility around the exact chapter
threshold.
*/
func TestVisible_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		progress spoiler.Progress
		chapter  int64
		visible  bool
	}{
		{"behind_threshold", 250, 300, false},
		{"exactly_at_threshold", 300, 300, true},
		{"past_threshold", 301, 300, true},
		{"anonymous_reader", spoiler.Anonymous, 1, false},
		{"unrestricted_override", spoiler.Unrestricted, 999999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := spoiler.ForChapter(tt.chapter)
			assert.Equal(t, tt.visible, spoiler.Visible(tt.progress, marker))
		})
	}
}

/*
TestVisible_MonotonicInProgress verifies that once content becomes visible
at some progress, it stays visible at every higher progress.
*/
func TestVisible_MonotonicInProgress(t *testing.T) {
	marker := spoiler.ForChapter(42)

	wasVisible := false
	for progress := spoiler.Progress(0); progress <= 100; progress++ {
		visible := spoiler.Visible(progress, marker)
		if wasVisible {
			assert.True(t, visible,
				"visibility regressed at progress %d", progress)
		}
		wasVisible = visible
	}

	// Sanity: the content did unlock inside the scanned range.
	assert.True(t, wasVisible)
}

/*
TestVisible_MalformedMarkerHidden checks that a spoiler flag with a
non-positive chapter is treated as hidden, never as "always visible".
*/
func TestVisible_MalformedMarkerHidden(t *testing.T) {
	malformed := []spoiler.Marker{
		{IsSpoiler: true, Chapter: 0},
		{IsSpoiler: true, Chapter: -5},
	}

	for _, marker := range malformed {
		assert.False(t, spoiler.Visible(spoiler.Unrestricted, marker),
			"malformed marker %+v must stay hidden", marker)
	}
}

/*
TestMarker_WellFormed covers the Chapter-iff-IsSpoiler invariant.
*/
func TestMarker_WellFormed(t *testing.T) {
	tests := []struct {
		name   string
		marker spoiler.Marker
		valid  bool
	}{
		{"non_spoiler", spoiler.None, true},
		{"spoiler_with_chapter", spoiler.ForChapter(12), true},
		{"spoiler_without_chapter", spoiler.Marker{IsSpoiler: true}, false},
		{"spoiler_negative_chapter", spoiler.Marker{IsSpoiler: true, Chapter: -1}, false},
		{"chapter_without_flag", spoiler.Marker{Chapter: 12}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.marker.WellFormed())
		})
	}
}

/*
TestRedact_PlaceholderNamesChapter checks that the placeholder names the
exact unlock chapter so the reader knows what progress reveals it.
*/
func TestRedact_PlaceholderNamesChapter(t *testing.T) {
	marker := spoiler.ForChapter(300)

	visible, placeholder := spoiler.Redact(250, marker)
	require.False(t, visible)
	assert.True(t, strings.Contains(placeholder, "300"),
		"placeholder %q must contain the unlock chapter", placeholder)

	visible, placeholder = spoiler.Redact(300, marker)
	assert.True(t, visible)
	assert.Empty(t, placeholder)
}
