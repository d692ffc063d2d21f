package application_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewinator/reviewinator/internal/application"
	"github.com/reviewinator/reviewinator/internal/config"
	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/logging"
)

// --- Mock GitHub client ---

type mockGitHubClient struct {
	reviewRequested []model.SearchResult
	authored        []model.SearchResult
	reviewers       map[string]*model.ReviewerData // keyed by "repo#number"
	reviews         map[string][]model.Review

	searchErr    error
	reviewersErr error
	reviewsErr   error
}

func prKey(repo string, number int) string {
	return repo + "#" + strconv.Itoa(number)
}

func (m *mockGitHubClient) SearchReviewRequested(_ context.Context) ([]model.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.reviewRequested, nil
}

func (m *mockGitHubClient) SearchAuthored(_ context.Context) ([]model.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.authored, nil
}

func (m *mockGitHubClient) FetchReviewers(_ context.Context, repo string, number int) (*model.ReviewerData, error) {
	if m.reviewersErr != nil {
		return nil, m.reviewersErr
	}
	return m.reviewers[prKey(repo, number)], nil
}

func (m *mockGitHubClient) FetchReviews(_ context.Context, repo string, number int) ([]model.Review, error) {
	if m.reviewsErr != nil {
		return nil, m.reviewsErr
	}
	return m.reviews[prKey(repo, number)], nil
}

func newFetchService(cfg *config.Config, gh *mockGitHubClient) *application.FetchService {
	return application.NewFetchService(gh, application.NewClassifier(cfg), logging.Discard())
}

func searchResult(id int64, number int, repo string) model.SearchResult {
	return model.SearchResult{
		ID:        id,
		Number:    number,
		Title:     "PR title",
		Author:    "bob",
		Repo:      repo,
		URL:       "https://github.com/" + repo + "/pull/1",
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetch_UnifiedListOrderAndFiltering(t *testing.T) {
	cfg := testConfig()
	cfg.ExcludedRepos = []string{"org/archived"}

	gh := &mockGitHubClient{
		reviewRequested: []model.SearchResult{
			searchResult(1, 1, "org/archived"), // Dropped: excluded repo.
			searchResult(2, 2, "org/active"),
		},
		authored: []model.SearchResult{
			searchResult(3, 3, "org/mine"),
			searchResult(4, 4, "org/mine"),
		},
		reviewers: map[string]*model.ReviewerData{
			prKey("org/active", 2): {Users: []string{"alice"}},
		},
		reviews: map[string][]model.Review{
			prKey("org/mine", 3): {{State: "APPROVED"}},
			prKey("org/mine", 4): {{State: "COMMENTED"}}, // Dropped under "any".
		},
	}

	prs, err := newFetchService(cfg, gh).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, prs, 2)
	assert.Equal(t, "org/active", prs[0].Repo)
	assert.Equal(t, model.KindReviewRequest, prs[0].Kind)
	assert.Equal(t, "org/mine", prs[1].Repo)
	assert.Equal(t, model.KindCreated, prs[1].Kind)
	assert.Equal(t, model.StatusApproved, prs[1].ReviewStatus)
}

func TestFetch_ReviewRequestsBeforeCreated(t *testing.T) {
	gh := &mockGitHubClient{
		reviewRequested: []model.SearchResult{
			searchResult(1, 1, "z/last"),
			searchResult(2, 2, "a/first"),
		},
		authored: []model.SearchResult{
			searchResult(3, 3, "m/mid"),
		},
	}

	prs, err := newFetchService(testConfig(), gh).Fetch(context.Background())
	require.NoError(t, err)

	// Source order preserved inside each list, review requests first.
	require.Len(t, prs, 3)
	assert.Equal(t, int64(1), prs[0].ID)
	assert.Equal(t, int64(2), prs[1].ID)
	assert.Equal(t, int64(3), prs[2].ID)
}

func TestFetch_Idempotent(t *testing.T) {
	gh := &mockGitHubClient{
		reviewRequested: []model.SearchResult{searchResult(1, 1, "org/a")},
		authored:        []model.SearchResult{searchResult(2, 2, "org/b")},
	}
	svc := newFetchService(testConfig(), gh)

	first, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFetch_SearchFailureAbortsPoll(t *testing.T) {
	gh := &mockGitHubClient{searchErr: errors.New("boom")}

	prs, err := newFetchService(testConfig(), gh).Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, prs)
}

func TestFetch_ReviewListingFailureAbortsPoll(t *testing.T) {
	gh := &mockGitHubClient{
		authored:   []model.SearchResult{searchResult(1, 1, "org/mine")},
		reviewsErr: errors.New("boom"),
	}

	_, err := newFetchService(testConfig(), gh).Fetch(context.Background())
	require.Error(t, err)
}

func TestFetch_ReviewerMetadataFailureFailsOpen(t *testing.T) {
	cfg := testConfig()
	cfg.ExcludedReviewTeams = []string{"acme/platform"}

	gh := &mockGitHubClient{
		reviewRequested: []model.SearchResult{searchResult(1, 1, "acme/api")},
		reviewersErr:    errors.New("403"),
	}

	prs, err := newFetchService(cfg, gh).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 1, "reviewer metadata errors must not hide the PR")
}
