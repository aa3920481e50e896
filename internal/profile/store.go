// Copyright (c) 2026 Kakeroku. All rights reserved.
// Author: kei.mizusawa.dev@gmail.com

package profile

import (
	"context"
)

// # Repository Contracts

/*
Repository defines the read-model queries behind profile assembly.

Description: Each method is one independent aggregation source. The service
calls them separately so a failure in one cannot poison the others.
*/
type Repository interface {

	/*
		FindUserByUsername returns the public identity of an account.

		Returns:
		  - *UserSummary: The account identity
		  - error: apperr.NotFound if absent or deactivated
	*/
	FindUserByUsername(ctx context.Context, username string) (*UserSummary, error)

	/*
		CountSubmissions returns per-type contribution counts for an author.

		Parameters:
		  - publishedOnly: count only approved content (public view)
	*/
	CountSubmissions(ctx context.Context, authorID string, publishedOnly bool) (SubmissionCounts, error)

	/*
		CountEdits returns per-kind canon edit counts for an editor.
	*/
	CountEdits(ctx context.Context, editorID string) (EditCounts, error)

	/*
		ListSubmissions returns an author's contributions, newest first.

		Parameters:
		  - publishedOnly: list only approved content (public view)
	*/
	ListSubmissions(ctx context.Context, authorID string, publishedOnly bool) ([]SubmissionItem, error)

	/*
		ListEdits returns an editor's canon edit journal entries, newest first.
	*/
	ListEdits(ctx context.Context, editorID string) ([]EditItem, error)
}
