// Package driven declares the outbound ports implemented by adapters.
package driven

import (
	"context"

	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// GitHubClient defines the driven port for the GitHub search and review APIs.
// All methods are read-only; the application never mutates anything on GitHub.
type GitHubClient interface {
	// SearchReviewRequested returns open PRs where the configured user is
	// requested as a reviewer, in API result order.
	SearchReviewRequested(ctx context.Context) ([]model.SearchResult, error)

	// SearchAuthored returns open PRs authored by the configured user, in
	// API result order.
	SearchAuthored(ctx context.Context) ([]model.SearchResult, error)

	// FetchReviewers returns the individual and team reviewers currently
	// requested on a PR. Callers must treat an error as "metadata
	// unavailable", not as a poll failure.
	FetchReviewers(ctx context.Context, repo string, number int) (*model.ReviewerData, error)

	// FetchReviews returns all review events on a PR, oldest first.
	FetchReviews(ctx context.Context, repo string, number int) ([]model.Review, error)
}
