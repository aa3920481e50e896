// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mizusawa-dev/kakeroku/internal/moderation"
	"github.com/mizusawa-dev/kakeroku/internal/platform/sec"
	"github.com/mizusawa-dev/kakeroku/internal/policy"
	"github.com/mizusawa-dev/kakeroku/internal/spoiler"
)

var (
	owner     = &moderation.Actor{ID: "author-1", Role: sec.RoleMember}
	member    = &moderation.Actor{ID: "member-2", Role: sec.RoleMember}
	moderator = &moderation.Actor{ID: "mod-1", Role: sec.RoleModerator}
)

func approvedSubject() policy.Subject {
	return policy.Subject{
		AuthorID: owner.ID,
		Status:   moderation.StatusApproved,
	}
}

/*
TestFor_EditDeleteRights verifies that ownership and staff role each grant
edit/delete, and nothing else does.
*/
func TestFor_EditDeleteRights(t *testing.T) {
	tests := []struct {
		name    string
		actor   *moderation.Actor
		allowed bool
	}{
		{"owner", owner, true},
		{"moderator", moderator, true},
		{"other_member", member, false},
		{"anonymous", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := policy.For(tt.actor, spoiler.Unrestricted, approvedSubject())
			assert.Equal(t, tt.allowed, actions.Edit)
			assert.Equal(t, tt.allowed, actions.Delete)
		})
	}
}

/*
TestFor_ModerationIsStaffOnly verifies that approve/reject/unpublish never
flow from ownership — only from the moderator/admin role.
*/
func TestFor_ModerationIsStaffOnly(t *testing.T) {
	subject := approvedSubject()
	subject.Status = moderation.StatusPending

	ownerActions := policy.For(owner, spoiler.Unrestricted, subject)
	assert.False(t, ownerActions.Approve, "an author must not be able to self-approve")
	assert.False(t, ownerActions.Reject)
	assert.False(t, ownerActions.Unpublish)

	staffActions := policy.For(moderator, spoiler.Unrestricted, subject)
	assert.True(t, staffActions.Approve)
	assert.True(t, staffActions.Reject)
	assert.True(t, staffActions.Unpublish)
}

/*
TestFor_LikeExcludesAuthorAndAnonymous verifies the self-like and
anonymous-like rules.
*/
func TestFor_LikeExcludesAuthorAndAnonymous(t *testing.T) {
	subject := approvedSubject()

	assert.False(t, policy.For(owner, spoiler.Unrestricted, subject).Like,
		"authors must not like their own content")
	assert.False(t, policy.For(nil, spoiler.Unrestricted, subject).Like,
		"anonymous readers cannot like")
	assert.True(t, policy.For(member, spoiler.Unrestricted, subject).Like)
	assert.True(t, policy.For(moderator, spoiler.Unrestricted, subject).Like)
}

/*
TestFor_UnapprovedVisibility verifies that draft/pending/rejected content
is withheld from everyone but the owner and staff.
*/
func TestFor_UnapprovedVisibility(t *testing.T) {
	for _, status := range []moderation.Status{
		moderation.StatusDraft,
		moderation.StatusPending,
		moderation.StatusRejected,
	} {
		subject := approvedSubject()
		subject.Status = status

		assert.True(t, policy.CanView(owner, spoiler.Anonymous, subject),
			"owner must see own %s content", status)
		assert.True(t, policy.CanView(moderator, spoiler.Anonymous, subject),
			"staff must see %s content", status)
		assert.False(t, policy.CanView(member, spoiler.Unrestricted, subject),
			"%s content must be hidden from other members", status)
		assert.False(t, policy.CanView(nil, spoiler.Unrestricted, subject),
			"%s content must be hidden from anonymous readers", status)
	}
}

/*
TestFor_ApprovedSpoilerGating verifies that approved spoiler content
delegates visibility to the progress gate.
*/
func TestFor_ApprovedSpoilerGating(t *testing.T) {
	subject := approvedSubject()
	subject.Spoiler = spoiler.ForChapter(300)

	assert.False(t, policy.CanView(member, 250, subject))
	assert.True(t, policy.CanView(member, 300, subject))
	assert.False(t, policy.CanView(nil, spoiler.Anonymous, subject))

	// The author bypasses the gate for their own submission.
	assert.True(t, policy.CanView(owner, spoiler.Anonymous, subject))
}

/*
TestFor_ApprovedNonSpoilerIsPublic verifies that approved non-spoiler
content is visible to everyone including anonymous readers.
*/
func TestFor_ApprovedNonSpoilerIsPublic(t *testing.T) {
	subject := approvedSubject()

	assert.True(t, policy.CanView(nil, spoiler.Anonymous, subject))
	assert.True(t, policy.CanView(member, spoiler.Anonymous, subject))
}
