// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/apperr"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/pkg/pointer"
)

var (
	author    = moderation.Actor{ID: "author-1", Role: sec.RoleMember}
	stranger  = moderation.Actor{ID: "member-2", Role: sec.RoleMember}
	moderator = moderation.Actor{ID: "mod-1", Role: sec.RoleModerator}
	admin     = moderation.Actor{ID: "admin-1", Role: sec.RoleAdmin}
)

// pendingGuide returns a review-ready guide snapshot owned by author-1.
func pendingGuide() moderation.Item {
	return moderation.Item{
		AuthorID: author.ID,
		Type:     moderation.TypeGuide,
		Status:   moderation.StatusPending,
		Title:    "Reading the seventeen steps",
		Body:     "A walkthrough of the rules.",
	}
}

/*
TestTransition_RejectRequiresReason verifies that a rejection without a
reason fails with VALIDATION_ERROR and produces no result to persist.
*/
func TestTransition_RejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   "} {
		_, err := moderation.Transition(moderator, pendingGuide(), moderation.StatusRejected, reason)

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	}
}

/*
TestTransition_NoSelfApproval verifies that an author with a plain member
role can never approve their own pending submission.
*/
func TestTransition_NoSelfApproval(t *testing.T) {
	_, err := moderation.Transition(author, pendingGuide(), moderation.StatusApproved, "")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
}

/*
TestTransition_StrangerCannotApprove verifies that a non-author, non-staff
member cannot approve a pending item either.
*/
func TestTransition_StrangerCannotApprove(t *testing.T) {
	_, err := moderation.Transition(stranger, pendingGuide(), moderation.StatusApproved, "")

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestTransition_ModeratorRejectsWithReason covers the happy-path rejection:
the result carries the new status and the trimmed reason together.
*/
func TestTransition_ModeratorRejectsWithReason(t *testing.T) {
	result, err := moderation.Transition(moderator, pendingGuide(), moderation.StatusRejected, "Unverified claim")

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, moderation.StatusRejected, result.Status)
	require.NotNil(t, result.RejectionReason)
	assert.Equal(t, "Unverified claim", *result.RejectionReason)
}

/*
TestTransition_AuthorResubmitsAfterRejection verifies rejected→pending by
the author clears the stored rejection reason.
*/
func TestTransition_AuthorResubmitsAfterRejection(t *testing.T) {
	item := pendingGuide()
	item.Status = moderation.StatusRejected
	item.RejectionReason = pointer.To("Unverified claim")

	result, err := moderation.Transition(author, item, moderation.StatusPending, "")

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, moderation.StatusPending, result.Status)
	assert.Nil(t, result.RejectionReason)
}

/*
TestTransition_ResubmitIsAuthorOnly verifies that neither strangers nor
staff can traverse the author-only rejected→pending edge.
*/
func TestTransition_ResubmitIsAuthorOnly(t *testing.T) {
	item := pendingGuide()
	item.Status = moderation.StatusRejected
	item.RejectionReason = pointer.To("Too short")

	for _, actor := range []moderation.Actor{stranger, moderator} {
		_, err := moderation.Transition(actor, item, moderation.StatusPending, "")
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	}
}

/*
TestTransition_ApprovalClearsStaleReason verifies that approving an item
that carries a leftover reason wipes it.
*/
func TestTransition_ApprovalClearsStaleReason(t *testing.T) {
	item := pendingGuide()
	item.RejectionReason = pointer.To("old reason")

	result, err := moderation.Transition(admin, item, moderation.StatusApproved, "")

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusApproved, result.Status)
	assert.Nil(t, result.RejectionReason)
}

/*
TestTransition_Unpublish verifies approved→pending by staff without a reason.
*/
func TestTransition_Unpublish(t *testing.T) {
	item := pendingGuide()
	item.Status = moderation.StatusApproved

	result, err := moderation.Transition(moderator, item, moderation.StatusPending, "")

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, moderation.StatusPending, result.Status)

	// The same edge is closed to plain members.
	_, err = moderation.Transition(stranger, item, moderation.StatusPending, "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestTransition_DraftSubmission covers the author-only draft→pending edge
and its minimum content validation.
*/
func TestTransition_DraftSubmission(t *testing.T) {
	t.Run("valid_draft", func(t *testing.T) {
		item := pendingGuide()
		item.Status = moderation.StatusDraft

		result, err := moderation.Transition(author, item, moderation.StatusPending, "")
		require.NoError(t, err)
		assert.Equal(t, moderation.StatusPending, result.Status)
	})

	t.Run("empty_body_rejected", func(t *testing.T) {
		item := pendingGuide()
		item.Status = moderation.StatusDraft
		item.Body = "  "

		_, err := moderation.Transition(author, item, moderation.StatusPending, "")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("empty_guide_title_rejected", func(t *testing.T) {
		item := pendingGuide()
		item.Status = moderation.StatusDraft
		item.Title = ""

		_, err := moderation.Transition(author, item, moderation.StatusPending, "")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("staff_cannot_submit_for_author", func(t *testing.T) {
		item := pendingGuide()
		item.Status = moderation.StatusDraft

		_, err := moderation.Transition(admin, item, moderation.StatusPending, "")
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

/*
TestTransition_SameStateIsNoOp verifies that requesting the current status
succeeds without marking a change.
*/
func TestTransition_SameStateIsNoOp(t *testing.T) {
	for _, status := range []moderation.Status{
		moderation.StatusDraft,
		moderation.StatusPending,
		moderation.StatusApproved,
		moderation.StatusRejected,
	} {
		item := pendingGuide()
		item.Status = status

		result, err := moderation.Transition(stranger, item, status, "")
		require.NoError(t, err, "same-state %s must be a no-op, not an error", status)
		assert.False(t, result.Changed)
		assert.Equal(t, status, result.Status)
	}
}

/*
TestTransition_UndefinedEdges verifies that edges outside the table fail
with a validation error regardless of role.
*/
func TestTransition_UndefinedEdges(t *testing.T) {
	undefined := []struct {
		from moderation.Status
		to   moderation.Status
	}{
		{moderation.StatusDraft, moderation.StatusApproved},
		{moderation.StatusDraft, moderation.StatusRejected},
		{moderation.StatusApproved, moderation.StatusRejected},
		{moderation.StatusApproved, moderation.StatusDraft},
		{moderation.StatusRejected, moderation.StatusApproved},
		{moderation.StatusPending, moderation.StatusDraft},
	}

	for _, tt := range undefined {
		item := pendingGuide()
		item.Status = tt.from

		_, err := moderation.Transition(admin, item, tt.to, "reason")
		require.Error(t, err, "%s → %s must not be allowed", tt.from, tt.to)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
}

/*
TestInitialStatus verifies the per-type initial state selection.
*/
func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name        string
		contentType moderation.ContentType
		wantDraft   bool
		expected    moderation.Status
	}{
		{"guide_draft", moderation.TypeGuide, true, moderation.StatusDraft},
		{"guide_direct", moderation.TypeGuide, false, moderation.StatusPending},
		{"annotation_ignores_draft", moderation.TypeAnnotation, true, moderation.StatusPending},
		{"media_ignores_draft", moderation.TypeMedia, true, moderation.StatusPending},
		{"quote_ignores_draft", moderation.TypeQuote, true, moderation.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.contentType.InitialStatus(tt.wantDraft))
		})
	}
}
