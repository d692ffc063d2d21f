package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reviewinator/reviewinator/internal/config"
	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/domain/port/driven"
)

// PollService runs the serialized poll loop: fetch, detect changes, persist
// state, dispatch notifications, project the menu. At most one poll is ever
// in flight; a manual trigger during a poll is a no-op.
type PollService struct {
	fetch    *FetchService
	store    driven.StateStore
	notifier driven.Notifier
	cfg      *config.Config
	logger   *slog.Logger

	refreshCh chan struct{}
	polling   atomic.Bool
	firstPoll bool
	state     *model.State

	mu   sync.Mutex
	prs  []model.PullRequest
	menu model.Menu
}

// NewPollService creates a PollService. The initial state is loaded from the
// store once; an empty menu projection is published immediately so the UI
// surface has something to render before the first poll completes.
func NewPollService(
	fetch *FetchService,
	store driven.StateStore,
	notifier driven.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *PollService {
	state := store.Load()

	return &PollService{
		fetch:     fetch,
		store:     store,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		refreshCh: make(chan struct{}, 1),
		firstPoll: true,
		state:     state,
		menu:      BuildMenu(nil, state, cfg, time.Now().UTC()),
	}
}

// Start begins the polling loop: an immediate poll, then one per configured
// interval, interleaved with manual triggers. Start blocks until the context
// is canceled.
func (s *PollService) Start(ctx context.Context) {
	if err := s.poll(ctx); err != nil {
		s.logger.Error("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(s.cfg.RefreshPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("poll service stopped")
			return
		case <-ticker.C:
			if err := s.poll(ctx); err != nil {
				s.logger.Error("poll cycle failed", "error", err)
			}
		case <-s.refreshCh:
			if err := s.poll(ctx); err != nil {
				s.logger.Error("manual poll failed", "error", err)
			}
		}
	}
}

// TriggerPoll requests an immediate poll. It returns false, without queuing
// anything, when a poll is already in flight or pending.
func (s *PollService) TriggerPoll() bool {
	if s.polling.Load() {
		return false
	}
	select {
	case s.refreshCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Menu returns the most recent successful projection. A failed poll leaves
// the previous projection in place.
func (s *PollService) Menu() model.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// PullRequests returns the unified list from the most recent successful poll.
func (s *PollService) PullRequests() []model.PullRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prs
}

// LastChecked returns the timestamp of the last successful poll, or the zero
// time when none has completed.
func (s *PollService) LastChecked() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastChecked
}

// poll runs one complete cycle. On fetch failure it commits nothing, keeps
// the previous snapshot, and surfaces the error through a notification.
func (s *PollService) poll(ctx context.Context) error {
	s.polling.Store(true)
	defer s.polling.Store(false)

	start := time.Now()

	prs, err := s.fetch.Fetch(ctx)
	if err != nil {
		s.notify(ctx, model.Notification{
			Title: "Reviewinator Error",
			Body:  fmt.Sprintf("Failed to fetch PRs: %v", err),
		})
		return err
	}

	now := time.Now().UTC()
	events := DetectChanges(prs, s.state, s.firstPoll)

	s.mu.Lock()
	UpdateState(s.state, prs, now, s.cfg.Lookback())
	menu := BuildMenu(prs, s.state, s.cfg, now)
	s.prs = prs
	s.menu = menu
	s.mu.Unlock()

	for _, ev := range events {
		s.notify(ctx, eventNotification(ev))
	}

	// Cache IO errors are absorbed: the next poll rewrites the file anyway.
	if err := s.store.Save(s.state); err != nil {
		s.logger.Warn("cache save failed", "error", err)
	}

	s.firstPoll = false

	s.logger.Info("poll complete",
		"prs", len(prs),
		"notified", len(events),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// notify dispatches one notification, swallowing failures. Dispatch must
// never abort a poll and is never retried.
func (s *PollService) notify(ctx context.Context, n model.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Debug("notification dispatch failed", "title", n.Title, "error", err)
	}
}

// eventNotification renders a change event as a notification triple.
func eventNotification(ev Event) model.Notification {
	switch ev.Kind {
	case EventStatusChange:
		return model.Notification{
			Title: fmt.Sprintf("PR %s: %s", ev.NewStatus.Display(), ev.PR.Repo),
			Body:  fmt.Sprintf("#%d %s", ev.PR.Number, ev.PR.Title),
			URL:   ev.PR.URL,
		}
	default:
		title := fmt.Sprintf("New Review Request: %s", ev.PR.Repo)
		if ev.PR.Kind == model.KindCreated {
			title = fmt.Sprintf("New PR: %s", ev.PR.Repo)
		}
		return model.Notification{
			Title: title,
			Body:  fmt.Sprintf("#%d %s\nFrom: %s", ev.PR.Number, ev.PR.Title, ev.PR.Author),
			URL:   ev.PR.URL,
		}
	}
}
