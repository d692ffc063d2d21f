package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewinator/reviewinator/internal/application"
	"github.com/reviewinator/reviewinator/internal/domain/model"
)

func createdPR(id int64, status model.ReviewStatus) model.PullRequest {
	return model.PullRequest{
		ID:           id,
		Number:       int(id),
		Title:        "PR",
		Repo:         "org/repo",
		Kind:         model.KindCreated,
		ReviewStatus: status,
	}
}

func reviewRequestPR(id int64, repo string) model.PullRequest {
	return model.PullRequest{
		ID:     id,
		Number: int(id),
		Title:  "PR",
		Repo:   repo,
		Kind:   model.KindReviewRequest,
	}
}

func TestDetectChanges_FirstPollNeverEmits(t *testing.T) {
	st := model.NewState()
	current := []model.PullRequest{
		reviewRequestPR(7, "org/a"),
		createdPR(8, model.StatusApproved),
	}

	events := application.DetectChanges(current, st, true)
	assert.Empty(t, events)
}

func TestDetectChanges_NewItemThenSeen(t *testing.T) {
	st := model.NewState()
	current := []model.PullRequest{reviewRequestPR(7, "org/a")}

	// First poll seeds state without emitting.
	assert.Empty(t, application.DetectChanges(current, st, true))
	application.UpdateState(st, current, time.Now().UTC(), 14*24*time.Hour)
	assert.True(t, st.Seen(7))

	// The same PR on the next poll is not new.
	assert.Empty(t, application.DetectChanges(current, st, false))

	// A genuinely new PR is.
	withNew := append(current, reviewRequestPR(9, "org/b"))
	events := application.DetectChanges(withNew, st, false)
	require.Len(t, events, 1)
	assert.Equal(t, application.EventNewPR, events[0].Kind)
	assert.Equal(t, int64(9), events[0].PR.ID)
}

func TestDetectChanges_StatusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		stored     model.ReviewStatus // Empty means absent.
		current    model.ReviewStatus
		wantNotify bool
	}{
		{"waiting to approved", model.StatusWaiting, model.StatusApproved, true},
		{"approved to changes requested", model.StatusApproved, model.StatusChangesRequested, true},
		{"changes requested to approved", model.StatusChangesRequested, model.StatusApproved, true},
		{"absent to approved", "", model.StatusApproved, true},
		{"absent to changes requested", "", model.StatusChangesRequested, true},
		{"approved unchanged", model.StatusApproved, model.StatusApproved, false},
		{"approved to commented", model.StatusApproved, model.StatusCommented, false},
		{"approved to waiting", model.StatusApproved, model.StatusWaiting, false},
		{"waiting to commented", model.StatusWaiting, model.StatusCommented, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := model.NewState()
			st.SeenIDs[8] = true
			if tt.stored != "" {
				st.StatusByID[8] = tt.stored
			}

			events := application.DetectChanges([]model.PullRequest{createdPR(8, tt.current)}, st, false)

			if !tt.wantNotify {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, application.EventStatusChange, events[0].Kind)
			assert.Equal(t, tt.stored, events[0].OldStatus)
			assert.Equal(t, tt.current, events[0].NewStatus)
		})
	}
}

func TestDetectChanges_ReviewRequestsNeverStatusChange(t *testing.T) {
	st := model.NewState()
	st.SeenIDs[7] = true

	events := application.DetectChanges([]model.PullRequest{reviewRequestPR(7, "org/a")}, st, false)
	assert.Empty(t, events)
}

func TestUpdateState_RewritesAndPrunes(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	lookback := 14 * 24 * time.Hour

	st := model.NewState()
	st.SeenIDs[1] = true // Gone from the current list; dropped on rewrite.
	st.StatusByID[1] = model.StatusApproved
	st.RepoActivity["org/stale"] = now.Add(-15 * 24 * time.Hour)
	st.RepoActivity["org/fresh"] = now.Add(-2 * 24 * time.Hour)

	current := []model.PullRequest{
		reviewRequestPR(7, "org/a"),
		createdPR(8, model.StatusChangesRequested),
	}

	application.UpdateState(st, current, now, lookback)

	assert.Equal(t, map[int64]bool{7: true, 8: true}, st.SeenIDs)
	assert.Equal(t, map[int64]model.ReviewStatus{8: model.StatusChangesRequested}, st.StatusByID)
	assert.Equal(t, now, st.LastChecked)

	// Current repos stamped with now; stale entries pruned, fresh kept.
	assert.Equal(t, now, st.RepoActivity["org/a"])
	assert.Equal(t, now, st.RepoActivity["org/repo"])
	assert.NotContains(t, st.RepoActivity, "org/stale")
	assert.Contains(t, st.RepoActivity, "org/fresh")
}
