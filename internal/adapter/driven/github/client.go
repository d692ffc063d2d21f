// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh       *gh.Client
	username string
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching; the two search
//     queries repeat every poll, so unchanged results cost no rate budget)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, username string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:       client,
		username: username,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, username string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:       client,
		username: username,
	}, nil
}

// SearchReviewRequested returns open PRs where the configured user is
// requested as a reviewer, in API result order.
func (c *Client) SearchReviewRequested(ctx context.Context) ([]model.SearchResult, error) {
	return c.search(ctx, fmt.Sprintf("is:pr is:open review-requested:%s", c.username))
}

// SearchAuthored returns open PRs authored by the configured user, in API
// result order.
func (c *Client) SearchAuthored(ctx context.Context) ([]model.SearchResult, error) {
	return c.search(ctx, fmt.Sprintf("is:pr is:open author:%s", c.username))
}

// search runs one issue search with pagination and maps each hit to a
// SearchResult. No sort parameter is set; result order is whatever the API
// returns.
func (c *Client) search(ctx context.Context, query string) ([]model.SearchResult, error) {
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	results := []model.SearchResult{}

	for {
		page, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("searching %q (page %d): %w", query, opts.Page, err)
		}

		logRateLimit(resp, query, opts.Page, len(page.Issues))

		for _, issue := range page.Issues {
			results = append(results, mapSearchResult(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return results, nil
}

// FetchReviewers returns the individual and team reviewers currently
// requested on a PR, via the single-PR lookup endpoint (the search payload
// does not carry reviewer data).
func (c *Client) FetchReviewers(ctx context.Context, repoFullName string, number int) (*model.ReviewerData, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching reviewers for %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/reviewers", 0, 1)

	users := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		users = append(users, r.GetLogin())
	}

	// Requested teams belong to the repository's organization; the PR payload
	// carries only the slug, so the org prefix comes from the repo owner.
	teams := make([]string, 0, len(pr.RequestedTeams))
	for _, t := range pr.RequestedTeams {
		teams = append(teams, owner+"/"+t.GetSlug())
	}

	return &model.ReviewerData{Users: users, Teams: teams}, nil
}

// FetchReviews retrieves all review events for a pull request, oldest first.
// It handles pagination automatically and maps go-github types to domain
// model types.
func (c *Client) FetchReviews(ctx context.Context, repoFullName string, number int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var reviews []model.Review

	for {
		page, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, r := range page {
			reviews = append(reviews, model.Review{
				Reviewer:    r.GetUser().GetLogin(),
				State:       r.GetState(),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return reviews, nil
}

// mapSearchResult converts a go-github search hit to a domain SearchResult.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapSearchResult(issue *gh.Issue) model.SearchResult {
	return model.SearchResult{
		ID:        issue.GetID(),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		Repo:      repoFromURL(issue.GetRepositoryURL()),
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
	}
}

// repoFromURL extracts "owner/name" from an API repository URL like
// "https://api.github.com/repos/owner/name".
func repoFromURL(repositoryURL string) string {
	const marker = "/repos/"
	idx := strings.Index(repositoryURL, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSuffix(repositoryURL[idx+len(marker):], "/")
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
