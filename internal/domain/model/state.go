package model

import (
	"sort"
	"time"
)

// State is the durable cache threaded through each poll: which PRs have
// already been notified about, their last-known review status, and when each
// repository was last seen with activity. It is loaded once at startup,
// rewritten after every successful poll, and persisted by a StateStore.
type State struct {
	SeenIDs      map[int64]bool
	StatusByID   map[int64]ReviewStatus
	RepoActivity map[string]time.Time
	LastChecked  time.Time // Zero value means no poll has completed yet.
}

// NewState returns an empty State with all maps allocated.
func NewState() *State {
	return &State{
		SeenIDs:      make(map[int64]bool),
		StatusByID:   make(map[int64]ReviewStatus),
		RepoActivity: make(map[string]time.Time),
	}
}

// Seen reports whether the given PR ID has already been recorded.
func (s *State) Seen(id int64) bool {
	return s.SeenIDs[id]
}

// PruneActivity drops repo activity entries at or before the cutoff.
func (s *State) PruneActivity(cutoff time.Time) {
	for repo, ts := range s.RepoActivity {
		if !ts.After(cutoff) {
			delete(s.RepoActivity, repo)
		}
	}
}

// RepoActivity is one entry of the recent-activity view used by the
// empty-state menu.
type RepoActivity struct {
	Repo     string
	LastSeen time.Time
}

// ActiveRepos returns repos whose last activity is after the cutoff, sorted
// most recent first. Ties break by repo name ascending so the order is
// deterministic.
func (s *State) ActiveRepos(cutoff time.Time) []RepoActivity {
	var active []RepoActivity
	for repo, ts := range s.RepoActivity {
		if ts.After(cutoff) {
			active = append(active, RepoActivity{Repo: repo, LastSeen: ts})
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].LastSeen.Equal(active[j].LastSeen) {
			return active[i].LastSeen.After(active[j].LastSeen)
		}
		return active[i].Repo < active[j].Repo
	})
	return active
}
