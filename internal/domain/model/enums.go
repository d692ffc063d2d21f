package model

// Kind identifies which search produced a pull request.
type Kind string

const (
	KindReviewRequest Kind = "review_request"
	KindCreated       Kind = "created"
)

// ReviewStatus is the derived review state of a created pull request,
// based on its most recent review event. It is empty for review requests.
type ReviewStatus string

const (
	StatusWaiting          ReviewStatus = "waiting"
	StatusApproved         ReviewStatus = "approved"
	StatusChangesRequested ReviewStatus = "changes_requested"
	StatusCommented        ReviewStatus = "commented"
	StatusUnknown          ReviewStatus = "unknown"
)

// ParseReviewStatus maps a stored status string to a ReviewStatus.
// Unrecognized values become StatusUnknown rather than an error so a cache
// written by an older version still loads.
func ParseReviewStatus(s string) ReviewStatus {
	switch ReviewStatus(s) {
	case StatusWaiting, StatusApproved, StatusChangesRequested, StatusCommented:
		return ReviewStatus(s)
	default:
		return StatusUnknown
	}
}

// Display returns the human-readable form used in menu item labels.
func (s ReviewStatus) Display() string {
	if s == StatusChangesRequested {
		return "changes requested"
	}
	return string(s)
}
