package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/reviewinator/reviewinator/internal/config"
	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// Menu item markers and badge glyphs. Review requests always carry the same
// marker; created PRs are keyed by review status.
const (
	glyphReviewRequest    = "👀"
	glyphWaiting          = "⏳"
	glyphApproved         = "✅"
	glyphChangesRequested = "❌"
	glyphCommented        = "💬"

	badgeAllClear = "✅"
	badgeReview   = "🔴"
	badgeCreated  = "📤"
)

// activityDisplayLimit caps the empty-state recent-activity list; repos
// beyond it collapse into a single "N more" marker.
const activityDisplayLimit = 20

// BuildMenu projects one poll's unified list plus cached repo activity into
// the display structure. Pure function of its arguments; it performs no I/O
// and never blocks.
func BuildMenu(prs []model.PullRequest, st *model.State, cfg *config.Config, now time.Time) model.Menu {
	var reviewRequests, createdPRs []model.PullRequest
	for _, pr := range prs {
		if pr.Kind == model.KindReviewRequest {
			reviewRequests = append(reviewRequests, pr)
		} else {
			createdPRs = append(createdPRs, pr)
		}
	}

	menu := model.Menu{
		ReviewCount:  len(reviewRequests),
		CreatedCount: len(createdPRs),
		Badge:        badge(len(reviewRequests), len(createdPRs)),
	}

	// Section labels appear only when both kinds are present.
	both := len(reviewRequests) > 0 && len(createdPRs) > 0

	if len(reviewRequests) > 0 {
		title := ""
		if both {
			title = "Reviews for You"
		}
		menu.Sections = append(menu.Sections, model.MenuSection{
			Title:  title,
			Groups: groupByRepo(reviewRequests, now),
		})
	}

	if len(createdPRs) > 0 {
		title := ""
		if both {
			title = "Your PRs"
		}
		menu.Sections = append(menu.Sections, model.MenuSection{
			Title:  title,
			Groups: groupByRepo(createdPRs, now),
		})
	}

	if len(menu.Sections) == 0 {
		menu.Sections = append(menu.Sections, emptyStateSection(st, cfg, now))
	}

	return menu
}

func badge(reviewCount, createdCount int) string {
	switch {
	case reviewCount == 0 && createdCount == 0:
		return badgeAllClear
	case reviewCount > 0 && createdCount > 0:
		return fmt.Sprintf("%s %d | %s %d", badgeReview, reviewCount, badgeCreated, createdCount)
	case reviewCount > 0:
		return fmt.Sprintf("%s %d", badgeReview, reviewCount)
	default:
		return fmt.Sprintf("%s %d", badgeCreated, createdCount)
	}
}

// groupByRepo buckets PRs by repository, repos ordered by name ascending,
// items within a repo ordered by creation time with PR number as tie-break.
func groupByRepo(prs []model.PullRequest, now time.Time) []model.MenuGroup {
	byRepo := make(map[string][]model.PullRequest)
	for _, pr := range prs {
		byRepo[pr.Repo] = append(byRepo[pr.Repo], pr)
	}

	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	groups := make([]model.MenuGroup, 0, len(repos))
	for _, repo := range repos {
		items := byRepo[repo]
		sort.Slice(items, func(i, j int) bool {
			if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
				return items[i].CreatedAt.Before(items[j].CreatedAt)
			}
			return items[i].Number < items[j].Number
		})

		group := model.MenuGroup{Repo: repo}
		for _, pr := range items {
			group.Items = append(group.Items, model.MenuItem{
				Label: itemLabel(pr, now),
				URL:   pr.URL,
			})
		}
		groups = append(groups, group)
	}

	return groups
}

func itemLabel(pr model.PullRequest, now time.Time) string {
	age := model.FormatAge(pr.CreatedAt, now)
	if pr.Kind == model.KindReviewRequest {
		return fmt.Sprintf("%s #%d %s (%s, %s)", glyphReviewRequest, pr.Number, pr.Title, pr.Author, age)
	}
	return fmt.Sprintf("%s #%d %s (%s, %s)", statusGlyph(pr.ReviewStatus), pr.Number, pr.Title, pr.ReviewStatus.Display(), age)
}

func statusGlyph(status model.ReviewStatus) string {
	switch status {
	case model.StatusApproved:
		return glyphApproved
	case model.StatusChangesRequested:
		return glyphChangesRequested
	case model.StatusCommented:
		return glyphCommented
	default:
		// Waiting, and any status we cannot interpret.
		return glyphWaiting
	}
}

// emptyStateSection renders the menu when nothing is pending: repos with
// recent activity, most recent first, or a placeholder when there are none.
// The per-repo PR count is an estimate from the current (empty) result set,
// so it always renders as "recent activity" rather than a number.
func emptyStateSection(st *model.State, cfg *config.Config, now time.Time) model.MenuSection {
	active := st.ActiveRepos(now.Add(-cfg.Lookback()))
	if len(active) == 0 {
		return model.MenuSection{
			Groups: []model.MenuGroup{{Items: []model.MenuItem{{Label: "No pending items"}}}},
		}
	}

	group := model.MenuGroup{}
	shown := active
	if len(shown) > activityDisplayLimit {
		shown = shown[:activityDisplayLimit]
	}

	for _, entry := range shown {
		group.Items = append(group.Items, model.MenuItem{
			Label: fmt.Sprintf("%s (recent activity, %s)", entry.Repo, model.FormatActivityAge(entry.LastSeen, now)),
			URL:   fmt.Sprintf("https://github.com/%s/pulls", entry.Repo),
		})
	}

	if overflow := len(active) - activityDisplayLimit; overflow > 0 {
		group.Items = append(group.Items, model.MenuItem{
			Label: fmt.Sprintf("and %d more...", overflow),
		})
	}

	return model.MenuSection{Title: "Recent Activity", Groups: []model.MenuGroup{group}}
}
