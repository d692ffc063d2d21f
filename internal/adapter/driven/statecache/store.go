// Package statecache implements the StateStore port as a JSON file under
// the user's config directory.
package statecache

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"

	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StateStore = (*Store)(nil)

// Store reads and writes the poll cache file. Writes are atomic so a crash
// mid-save cannot leave a half-written cache behind.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a Store for the given cache file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// DefaultPath returns the fixed cache file location under the user's config
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "reviewinator", "cache.json"), nil
}

// cacheFile is the on-disk JSON shape. Status map keys are the PR IDs as
// decimal strings, matching the original cache format.
type cacheFile struct {
	SeenPRs      []int64           `json:"seen_prs"`
	PRStatuses   map[string]string `json:"pr_statuses"`
	RepoActivity map[string]string `json:"repo_activity"`
	LastChecked  *string           `json:"last_checked"`
}

// Load returns the persisted state. A missing, unreadable, or corrupt file
// yields an empty state; corruption is logged and never propagated.
func (s *Store) Load() *model.State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cache unreadable, starting empty", "path", s.path, "error", err)
		}
		return model.NewState()
	}

	st, err := decode(data)
	if err != nil {
		s.logger.Warn("cache corrupt, starting empty", "path", s.path, "error", err)
		return model.NewState()
	}
	return st
}

func decode(data []byte) (*model.State, error) {
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	st := model.NewState()

	for _, id := range file.SeenPRs {
		st.SeenIDs[id] = true
	}

	for key, status := range file.PRStatuses {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("pr_statuses key %q: %w", key, err)
		}
		st.StatusByID[id] = model.ParseReviewStatus(status)
	}

	for repo, raw := range file.RepoActivity {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("repo_activity[%s]: %w", repo, err)
		}
		st.RepoActivity[repo] = ts
	}

	if file.LastChecked != nil {
		ts, err := time.Parse(time.RFC3339, *file.LastChecked)
		if err != nil {
			return nil, fmt.Errorf("last_checked: %w", err)
		}
		st.LastChecked = ts
	}

	return st, nil
}

// Save writes the state atomically, creating the parent directory if needed.
func (s *Store) Save(st *model.State) error {
	file := cacheFile{
		SeenPRs:      make([]int64, 0, len(st.SeenIDs)),
		PRStatuses:   make(map[string]string, len(st.StatusByID)),
		RepoActivity: make(map[string]string, len(st.RepoActivity)),
	}

	for id := range st.SeenIDs {
		file.SeenPRs = append(file.SeenPRs, id)
	}
	for id, status := range st.StatusByID {
		file.PRStatuses[strconv.FormatInt(id, 10)] = string(status)
	}
	for repo, ts := range st.RepoActivity {
		file.RepoActivity[repo] = ts.UTC().Format(time.RFC3339)
	}
	if !st.LastChecked.IsZero() {
		formatted := st.LastChecked.UTC().Format(time.RFC3339)
		file.LastChecked = &formatted
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cache %s: %w", s.path, err)
	}

	return nil
}
