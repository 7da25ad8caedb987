// ABOUTME: Fake MyTeams API shared by the command tests
// ABOUTME: Serves auth, follows, dashboard, search and fixture endpoints from memory

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/markalston/myteams/internal/client"
)

// fakeBackend is an in-memory MyTeams API
type fakeBackend struct {
	mu      sync.Mutex
	follows map[string]bool
	ready   int // status code for /readyz
	server  *httptest.Server
}

func intPtr(n int) *int { return &n }

var (
	arsenal = client.Team{ID: "t1", Name: "Arsenal", Country: "England"}
	chelsea = client.Team{ID: "t2", Name: "Chelsea", Country: "England"}

	finishedFixture = client.Fixture{
		ID: "f1", HomeTeamID: "t1", AwayTeamID: "t2",
		HomeTeam: &arsenal, AwayTeam: &chelsea,
		StartTime: time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		Status:    "FT", HomeScore: intPtr(2), AwayScore: intPtr(1),
	}
	fixtureEvents = []client.Event{
		{ID: "e1", Type: "goal", Minute: intPtr(12), TeamID: "t1", PlayerName: "Saka"},
		{ID: "e2", Type: "goal", Minute: intPtr(70), TeamID: "t2", PlayerName: "Palmer"},
	}
)

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{follows: make(map[string]bool), ready: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, client.HealthResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		code := b.ready
		b.mu.Unlock()
		status := "ok"
		if code != http.StatusOK {
			status = "degraded"
		}
		writeJSON(w, code, client.HealthResponse{Status: status, Checks: map[string]string{"db": "ok", "redis": status}})
	})
	mux.HandleFunc("POST /auth/dev-login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID string `json:"user_id"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		if in.UserID == "unknown" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, client.AuthResponse{
			AccessToken: "token-" + in.UserID,
			TokenType:   "bearer",
			User:        client.User{ID: in.UserID, DisplayName: "Fan " + in.UserID},
		})
	})
	mux.HandleFunc("GET /me/follows", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []client.Follow{}
		for _, team := range []client.Team{arsenal, chelsea} {
			if b.follows[team.ID] {
				team := team
				out = append(out, client.Follow{TeamID: team.ID, UserID: "1", Team: &team})
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /me/follows", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			TeamID string `json:"team_id"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		if in.TeamID == "missing" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Team not found"})
			return
		}
		b.mu.Lock()
		b.follows[in.TeamID] = true
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]string{"team_id": in.TeamID})
	}))
	mux.HandleFunc("DELETE /me/follows/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		delete(b.follows, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /me/dashboard", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []client.DashboardEntry{}
		if b.follows["t1"] {
			out = append(out, client.DashboardEntry{
				Team:        arsenal,
				Standing:    &client.Standing{TeamID: "t1", Rank: 1, Points: 60},
				LastFixture: &finishedFixture,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("GET /teams/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		page := client.Paginated[client.Team]{Items: []client.Team{}, Page: 1, PageSize: 20}
		for _, team := range []client.Team{arsenal, chelsea} {
			if strings.Contains(strings.ToLower(team.Name), q) {
				page.Items = append(page.Items, team)
			}
		}
		page.Total = len(page.Items)
		writeJSON(w, http.StatusOK, page)
	})
	mux.HandleFunc("GET /teams/{id}/fixtures", func(w http.ResponseWriter, r *http.Request) {
		page := client.Paginated[client.Fixture]{Items: []client.Fixture{}, Page: 1, PageSize: 20}
		if id := r.PathValue("id"); id == "t1" || id == "t2" {
			page.Items = append(page.Items, finishedFixture)
		}
		page.Total = len(page.Items)
		writeJSON(w, http.StatusOK, page)
	})
	mux.HandleFunc("GET /fixtures/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "f1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Fixture not found"})
			return
		}
		writeJSON(w, http.StatusOK, finishedFixture)
	})
	mux.HandleFunc("GET /fixtures/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fixtureEvents)
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// authed rejects requests without a bearer token
func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer token-") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) setReady(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = code
}

func (b *fakeBackend) isFollowing(teamID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.follows[teamID]
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// useBackend points the global flags at url with a fresh config directory
func useBackend(t *testing.T, url string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MYTEAMS_ENV", "")
	t.Setenv("MYTEAMS_TOKEN_BACKEND", "")
	t.Setenv("MYTEAMS_API_URL", "")
	t.Setenv("MYTEAMS_CONFIG_DIR", "")

	apiURL = url
	configDir = dir
	jsonOutput = false
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})
	return dir
}
