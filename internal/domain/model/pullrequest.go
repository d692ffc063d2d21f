// Package model holds the domain entities shared by all layers.
package model

import "time"

// PullRequest is one classified entry in the unified result set. Values are
// rebuilt from scratch on every poll and never mutated after construction.
//
// ReviewStatus is populated only when Kind is KindCreated; review requests
// carry an empty status.
type PullRequest struct {
	ID           int64 // Stable GitHub issue ID, unique across repositories.
	Number       int
	Title        string
	Author       string
	Repo         string // "owner/name"
	URL          string
	CreatedAt    time.Time
	Kind         Kind
	ReviewStatus ReviewStatus
}

// SearchResult is a raw record as returned by one of the two searches,
// before classification.
type SearchResult struct {
	ID        int64
	Number    int
	Title     string
	Author    string
	Repo      string // "owner/name"
	URL       string
	CreatedAt time.Time
}

// ReviewerData is the reviewer metadata attached to a review-request record.
// Teams use the "org/team" form. A nil ReviewerData means the metadata could
// not be determined.
type ReviewerData struct {
	Users []string
	Teams []string
}

// Review is one review event on a created pull request. Slices of Review are
// ordered oldest to newest, as GitHub returns them.
type Review struct {
	Reviewer    string
	State       string // Raw API state: "APPROVED", "CHANGES_REQUESTED", ...
	SubmittedAt time.Time
}

// Notification is a title/body/click-URL triple handed to the OS dispatcher.
type Notification struct {
	Title string
	Body  string
	URL   string
}
