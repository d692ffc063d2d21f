package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PRResponse is the JSON representation of one unified-list entry.
type PRResponse struct {
	ID           int64  `json:"id"`
	Number       int    `json:"number"`
	Repository   string `json:"repository"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	URL          string `json:"url"`
	Kind         string `json:"kind"`
	ReviewStatus string `json:"review_status,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// MenuResponse is the JSON representation of the menu projection.
type MenuResponse struct {
	Sections     []MenuSectionResponse `json:"sections"`
	Badge        string                `json:"badge"`
	ReviewCount  int                   `json:"review_count"`
	CreatedCount int                   `json:"created_count"`
}

// MenuSectionResponse is one labeled section of the menu.
type MenuSectionResponse struct {
	Title  string              `json:"title,omitempty"`
	Groups []MenuGroupResponse `json:"groups"`
}

// MenuGroupResponse is the per-repository grouping inside a section.
type MenuGroupResponse struct {
	Repo  string             `json:"repo,omitempty"`
	Items []MenuItemResponse `json:"items"`
}

// MenuItemResponse is a single menu row. URL is empty for inert rows.
type MenuItemResponse struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// PollResponse reports whether a manual poll trigger took effect.
type PollResponse struct {
	Triggered bool `json:"triggered"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	LastChecked string `json:"last_checked,omitempty"`
}

// toPRResponse converts a domain PullRequest to its JSON representation.
func toPRResponse(pr model.PullRequest) PRResponse {
	return PRResponse{
		ID:           pr.ID,
		Number:       pr.Number,
		Repository:   pr.Repo,
		Title:        pr.Title,
		Author:       pr.Author,
		URL:          pr.URL,
		Kind:         string(pr.Kind),
		ReviewStatus: string(pr.ReviewStatus),
		CreatedAt:    pr.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toMenuResponse converts a domain Menu to its JSON representation.
func toMenuResponse(menu model.Menu) MenuResponse {
	sections := make([]MenuSectionResponse, 0, len(menu.Sections))
	for _, section := range menu.Sections {
		groups := make([]MenuGroupResponse, 0, len(section.Groups))
		for _, group := range section.Groups {
			items := make([]MenuItemResponse, 0, len(group.Items))
			for _, item := range group.Items {
				items = append(items, MenuItemResponse{Label: item.Label, URL: item.URL})
			}
			groups = append(groups, MenuGroupResponse{Repo: group.Repo, Items: items})
		}
		sections = append(sections, MenuSectionResponse{Title: section.Title, Groups: groups})
	}

	return MenuResponse{
		Sections:     sections,
		Badge:        menu.Badge,
		ReviewCount:  menu.ReviewCount,
		CreatedCount: menu.CreatedCount,
	}
}
