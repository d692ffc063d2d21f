// Package application contains the classification, change-detection, and
// poll orchestration services.
package application

import (
	"strings"

	"github.com/reviewinator/reviewinator/internal/config"
	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// visibility is the three-valued outcome of inspecting reviewer metadata.
// Unknown resolves to show: missing or erroring metadata must never hide a
// review request.
type visibility int

const (
	visibilityShow visibility = iota
	visibilityHide
	visibilityUnknown
)

// Classifier decides whether one raw search record is shown and in what
// shape. It is built once from the immutable config.
type Classifier struct {
	viewer        string
	excludedRepos map[string]bool
	excludedTeams map[string]bool
	createdFilter config.CreatedPRFilter
}

// NewClassifier builds a Classifier from the loaded config.
func NewClassifier(cfg *config.Config) *Classifier {
	excludedRepos := make(map[string]bool, len(cfg.ExcludedRepos))
	for _, repo := range cfg.ExcludedRepos {
		excludedRepos[strings.ToLower(repo)] = true
	}

	excludedTeams := make(map[string]bool, len(cfg.ExcludedReviewTeams))
	for _, team := range cfg.ExcludedReviewTeams {
		excludedTeams[strings.ToLower(team)] = true
	}

	return &Classifier{
		viewer:        cfg.GitHubUsername,
		excludedRepos: excludedRepos,
		excludedTeams: excludedTeams,
		createdFilter: cfg.CreatedPRFilter,
	}
}

// ReviewRequest classifies a record from the review-requested search.
// reviewers may be nil when the metadata fetch failed; that resolves to
// show. The second return value is false when the PR is hidden.
func (c *Classifier) ReviewRequest(raw model.SearchResult, reviewers *model.ReviewerData) (model.PullRequest, bool) {
	if c.excludedRepos[strings.ToLower(raw.Repo)] {
		return model.PullRequest{}, false
	}

	if c.reviewRequestVisibility(reviewers) == visibilityHide {
		return model.PullRequest{}, false
	}

	return model.PullRequest{
		ID:        raw.ID,
		Number:    raw.Number,
		Title:     raw.Title,
		Author:    raw.Author,
		Repo:      raw.Repo,
		URL:       raw.URL,
		CreatedAt: raw.CreatedAt,
		Kind:      model.KindReviewRequest,
	}, true
}

// reviewRequestVisibility applies the team-exclusion rule: hide only when
// every requesting team is excluded and the viewer is not an individual
// reviewer. Absent metadata is unknown, which callers treat as show.
func (c *Classifier) reviewRequestVisibility(rd *model.ReviewerData) visibility {
	if rd == nil {
		return visibilityUnknown
	}

	for _, user := range rd.Users {
		if strings.EqualFold(user, c.viewer) {
			return visibilityShow
		}
	}

	if len(rd.Teams) == 0 {
		// Not an individual reviewer and no team data. The request must have
		// come from somewhere we cannot see, so fail open.
		return visibilityUnknown
	}

	for _, team := range rd.Teams {
		if !c.excludedTeams[strings.ToLower(team)] {
			return visibilityShow
		}
	}

	return visibilityHide
}

// Created classifies a record from the authored search, given its derived
// review status. The second return value is false when the PR is hidden by
// repo exclusion or the created-PR filter.
func (c *Classifier) Created(raw model.SearchResult, status model.ReviewStatus) (model.PullRequest, bool) {
	if c.excludedRepos[strings.ToLower(raw.Repo)] {
		return model.PullRequest{}, false
	}

	if !c.createdFilterKeeps(status) {
		return model.PullRequest{}, false
	}

	return model.PullRequest{
		ID:           raw.ID,
		Number:       raw.Number,
		Title:        raw.Title,
		Author:       raw.Author,
		Repo:         raw.Repo,
		URL:          raw.URL,
		CreatedAt:    raw.CreatedAt,
		Kind:         model.KindCreated,
		ReviewStatus: status,
	}, true
}

// createdFilterKeeps applies the configured created-PR filter. Unknown is
// grouped with waiting so an undeterminable status never hides a PR.
func (c *Classifier) createdFilterKeeps(status model.ReviewStatus) bool {
	switch c.createdFilter {
	case config.FilterAll:
		return true
	case config.FilterWaiting:
		return status == model.StatusWaiting || status == model.StatusUnknown
	case config.FilterNeedsAttention:
		return status == model.StatusChangesRequested
	default: // FilterAny
		return status != model.StatusCommented
	}
}

// DeriveStatus maps a PR's ordered review events to its review status. Only
// the last event matters: no events means waiting, and any state other than
// approved, changes-requested, or commented also maps to waiting.
func DeriveStatus(reviews []model.Review) model.ReviewStatus {
	if len(reviews) == 0 {
		return model.StatusWaiting
	}

	switch strings.ToUpper(reviews[len(reviews)-1].State) {
	case "APPROVED":
		return model.StatusApproved
	case "CHANGES_REQUESTED":
		return model.StatusChangesRequested
	case "COMMENTED":
		return model.StatusCommented
	default:
		return model.StatusWaiting
	}
}
