package application

import (
	"time"

	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// EventKind distinguishes the two notification triggers.
type EventKind int

const (
	// EventNewPR fires for a PR whose ID has not been seen before.
	EventNewPR EventKind = iota
	// EventStatusChange fires when a created PR's status enters approved or
	// changes-requested from any other value.
	EventStatusChange
)

// Event is one notifiable change detected in a poll.
type Event struct {
	Kind      EventKind
	PR        model.PullRequest
	OldStatus model.ReviewStatus // Empty when the PR had no stored status.
	NewStatus model.ReviewStatus
}

// DetectChanges compares the current unified list against the persisted
// state and returns the events worth notifying about. The first poll after
// process start never emits: it only seeds the state.
//
// A notifiable status transition requires the new status to be approved or
// changes-requested and to differ from the stored value; an absent stored
// value counts as different from every concrete status.
func DetectChanges(current []model.PullRequest, st *model.State, firstPoll bool) []Event {
	if firstPoll {
		return nil
	}

	var events []Event

	for _, pr := range current {
		if !st.Seen(pr.ID) {
			events = append(events, Event{Kind: EventNewPR, PR: pr})
		}

		if pr.Kind != model.KindCreated {
			continue
		}

		newStatus := pr.ReviewStatus
		if newStatus != model.StatusApproved && newStatus != model.StatusChangesRequested {
			continue
		}

		old, ok := st.StatusByID[pr.ID]
		if ok && old == newStatus {
			continue
		}

		events = append(events, Event{
			Kind:      EventStatusChange,
			PR:        pr,
			OldStatus: old,
			NewStatus: newStatus,
		})
	}

	return events
}

// UpdateState rewrites the persisted state from the current unified list:
// seen IDs and created-PR statuses are replaced wholesale (stale entries
// drop out), repo activity is stamped with now and pruned to the lookback
// window, and lastChecked is set. Runs on every successful poll, including
// the first.
func UpdateState(st *model.State, current []model.PullRequest, now time.Time, lookback time.Duration) {
	seen := make(map[int64]bool, len(current))
	statuses := make(map[int64]model.ReviewStatus)

	for _, pr := range current {
		seen[pr.ID] = true
		if pr.Kind == model.KindCreated {
			statuses[pr.ID] = pr.ReviewStatus
		}
		st.RepoActivity[pr.Repo] = now
	}

	st.SeenIDs = seen
	st.StatusByID = statuses
	st.PruneActivity(now.Add(-lookback))
	st.LastChecked = now
}
