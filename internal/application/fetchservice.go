package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/domain/port/driven"
)

// FetchService produces the unified, filtered PR list for one poll: the
// review-requested search followed by the authored search, each record
// classified, with source order preserved inside each list.
type FetchService struct {
	gh         driven.GitHubClient
	classifier *Classifier
	logger     *slog.Logger
}

// NewFetchService creates a FetchService.
func NewFetchService(gh driven.GitHubClient, classifier *Classifier, logger *slog.Logger) *FetchService {
	return &FetchService{
		gh:         gh,
		classifier: classifier,
		logger:     logger,
	}
}

// Fetch runs both searches and returns the unified list, review requests
// first. Any search or review-listing failure aborts the whole fetch; a
// reviewer-metadata failure on a single PR does not (fail open).
func (s *FetchService) Fetch(ctx context.Context) ([]model.PullRequest, error) {
	requested, err := s.gh.SearchReviewRequested(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching review-requested PRs: %w", err)
	}

	authored, err := s.gh.SearchAuthored(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching authored PRs: %w", err)
	}

	unified := make([]model.PullRequest, 0, len(requested)+len(authored))

	for _, raw := range requested {
		reviewers, err := s.gh.FetchReviewers(ctx, raw.Repo, raw.Number)
		if err != nil {
			s.logger.Warn("reviewer metadata unavailable, showing PR",
				"repo", raw.Repo, "pr", raw.Number, "error", err)
			reviewers = nil
		}

		if pr, ok := s.classifier.ReviewRequest(raw, reviewers); ok {
			unified = append(unified, pr)
		}
	}

	for _, raw := range authored {
		reviews, err := s.gh.FetchReviews(ctx, raw.Repo, raw.Number)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s#%d: %w", raw.Repo, raw.Number, err)
		}

		if pr, ok := s.classifier.Created(raw, DeriveStatus(reviews)); ok {
			unified = append(unified, pr)
		}
	}

	s.logger.Debug("fetch complete",
		"review_requested", len(requested),
		"authored", len(authored),
		"unified", len(unified),
	)

	return unified, nil
}
