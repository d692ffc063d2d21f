// Package httphandler is the HTTP driving adapter serving the localhost
// JSON API consumed by the menu-bar shell.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// PollController is the slice of the poll service the HTTP surface needs.
type PollController interface {
	Menu() model.Menu
	PullRequests() []model.PullRequest
	LastChecked() time.Time
	TriggerPoll() bool
}

// Handler serves the JSON API.
type Handler struct {
	poll   PollController
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(poll PollController, logger *slog.Logger) *Handler {
	return &Handler{poll: poll, logger: logger}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/menu", h.GetMenu)
	mux.HandleFunc("GET /api/v1/prs", h.ListPRs)
	mux.HandleFunc("POST /api/v1/poll", h.Poll)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// GetMenu returns the current menu projection and badge summary.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toMenuResponse(h.poll.Menu()))
}

// ListPRs returns the unified PR list from the last successful poll.
func (h *Handler) ListPRs(w http.ResponseWriter, r *http.Request) {
	prs := h.poll.PullRequests()
	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Poll triggers an immediate poll. A trigger while a poll is already in
// flight is a no-op; the response says which happened.
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) {
	triggered := h.poll.TriggerPoll()
	writeJSON(w, http.StatusAccepted, PollResponse{Triggered: triggered})
}

// Health reports liveness and the last successful poll time.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if last := h.poll.LastChecked(); !last.IsZero() {
		resp.LastChecked = last.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
