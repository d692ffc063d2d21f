package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/reviewinator/reviewinator/internal/adapter/driving/http"
	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/logging"
)

// stubController implements PollController with canned data.
type stubController struct {
	menu        model.Menu
	prs         []model.PullRequest
	lastChecked time.Time
	triggered   bool
}

func (s *stubController) Menu() model.Menu                 { return s.menu }
func (s *stubController) PullRequests() []model.PullRequest { return s.prs }
func (s *stubController) LastChecked() time.Time           { return s.lastChecked }
func (s *stubController) TriggerPoll() bool                { return s.triggered }

func newTestServer(t *testing.T, ctrl *stubController) *httptest.Server {
	t.Helper()

	logger := logging.Discard()
	handler := httphandler.NewHandler(ctrl, logger)
	server := httptest.NewServer(httphandler.NewServeMux(handler, logger))
	t.Cleanup(server.Close)

	return server
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGetMenu(t *testing.T) {
	ctrl := &stubController{
		menu: model.Menu{
			Sections: []model.MenuSection{
				{
					Title: "Reviews for You",
					Groups: []model.MenuGroup{
						{
							Repo: "acme/api",
							Items: []model.MenuItem{
								{Label: "👀 #142 Fix login bug (alice, 2h ago)", URL: "https://github.com/acme/api/pull/142"},
							},
						},
					},
				},
			},
			Badge:       "🔴 1",
			ReviewCount: 1,
		},
	}
	server := newTestServer(t, ctrl)

	resp, err := http.Get(server.URL + "/api/v1/menu")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	body := decodeBody[httphandler.MenuResponse](t, resp)
	assert.Equal(t, "🔴 1", body.Badge)
	assert.Equal(t, 1, body.ReviewCount)
	require.Len(t, body.Sections, 1)
	assert.Equal(t, "Reviews for You", body.Sections[0].Title)
	require.Len(t, body.Sections[0].Groups, 1)
	assert.Equal(t, "acme/api", body.Sections[0].Groups[0].Repo)
	require.Len(t, body.Sections[0].Groups[0].Items, 1)
	assert.Equal(t, "https://github.com/acme/api/pull/142", body.Sections[0].Groups[0].Items[0].URL)
}

func TestListPRs(t *testing.T) {
	ctrl := &stubController{
		prs: []model.PullRequest{
			{
				ID:        101,
				Number:    142,
				Repo:      "acme/api",
				Title:     "Fix login bug",
				Author:    "alice",
				URL:       "https://github.com/acme/api/pull/142",
				CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				Kind:      model.KindReviewRequest,
			},
			{
				ID:           102,
				Number:       7,
				Repo:         "acme/web",
				Title:        "Add caching",
				Author:       "me",
				Kind:         model.KindCreated,
				ReviewStatus: model.StatusApproved,
				CreatedAt:    time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	server := newTestServer(t, ctrl)

	resp, err := http.Get(server.URL + "/api/v1/prs")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[[]httphandler.PRResponse](t, resp)
	require.Len(t, body, 2)
	assert.Equal(t, int64(101), body[0].ID)
	assert.Equal(t, "review_request", body[0].Kind)
	assert.Empty(t, body[0].ReviewStatus)
	assert.Equal(t, "2026-08-01T12:00:00Z", body[0].CreatedAt)
	assert.Equal(t, "created", body[1].Kind)
	assert.Equal(t, "approved", body[1].ReviewStatus)
}

func TestListPRs_EmptyIsArray(t *testing.T) {
	server := newTestServer(t, &stubController{})

	resp, err := http.Get(server.URL + "/api/v1/prs")
	require.NoError(t, err)

	body := decodeBody[[]httphandler.PRResponse](t, resp)
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestPoll(t *testing.T) {
	tests := []struct {
		name      string
		triggered bool
	}{
		{name: "accepted", triggered: true},
		{name: "already in flight", triggered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &stubController{triggered: tt.triggered})

			resp, err := http.Post(server.URL+"/api/v1/poll", "application/json", nil)
			require.NoError(t, err)
			assert.Equal(t, http.StatusAccepted, resp.StatusCode)

			body := decodeBody[httphandler.PollResponse](t, resp)
			assert.Equal(t, tt.triggered, body.Triggered)
		})
	}
}

func TestPoll_GetNotAllowed(t *testing.T) {
	server := newTestServer(t, &stubController{})

	resp, err := http.Get(server.URL + "/api/v1/poll")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubController{
		lastChecked: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	})

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[httphandler.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2026-08-20T10:30:00Z", body.LastChecked)
}

func TestHealth_BeforeFirstPoll(t *testing.T) {
	server := newTestServer(t, &stubController{})

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)

	body := decodeBody[httphandler.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.LastChecked)
}
