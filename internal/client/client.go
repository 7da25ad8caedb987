// ABOUTME: HTTP client for the MyTeams API
// ABOUTME: Wraps API calls with bearer auth, rate limiting and typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// authPathPrefix covers dev-login, request-link and verify
const authPathPrefix = "/auth/"

// Client is the API client for the MyTeams backend
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	tokenSource    func() string
	onUnauthorized func(token string)
	logger         *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout of the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outbound requests per second (burst equals the limit)
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// WithTokenSource supplies the bearer token for each request.
// An empty token sends no Authorization header.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.tokenSource = fn }
}

// WithUnauthorizedHandler is called with the rejected token when a request
// that carried one is answered with 401. Sign-in endpoints never carry a token.
func WithUnauthorizedHandler(fn func(token string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend error (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Temporary reports whether retrying the request may succeed
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// errorBody covers both the app's {"error": {...}} envelope and FastAPI's {"detail": ...}
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// do sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// A 401 from a sign-in endpoint means bad credentials, not a dead session
	sentToken := ""
	if c.tokenSource != nil && !strings.HasPrefix(path, authPathPrefix) {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			sentToken = token
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.handleRequestError(ctx, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.handleErrorResponse(resp)
		if resp.StatusCode == http.StatusUnauthorized && sentToken != "" && c.onUnauthorized != nil {
			c.onUnauthorized(sentToken)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}

	if body.Error != nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		return apiErr
	}

	if len(body.Detail) > 0 {
		var text string
		if err := json.Unmarshal(body.Detail, &text); err == nil {
			apiErr.Message = text
			return apiErr
		}
		var detail struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Detail, &detail); err == nil {
			apiErr.Code = detail.Code
			apiErr.Message = detail.Message
		}
	}
	return apiErr
}

// HealthResponse represents the /healthz and /readyz response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health calls GET /healthz (liveness)
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready calls GET /readyz. A 503 is reported as a degraded status rather than an error.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &health)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
		return &HealthResponse{Status: "degraded"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &health, nil
}

// User is the user object returned by the auth endpoints
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// AuthResponse is returned by dev-login and verify
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// DevLogin calls POST /auth/dev-login
func (c *Client) DevLogin(ctx context.Context, userID string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/dev-login", map[string]string{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestLink calls POST /auth/request-link
func (c *Client) RequestLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/request-link", map[string]string{"email": email}, nil)
}

// Verify calls POST /auth/verify to exchange a one-time code for a session
func (c *Client) Verify(ctx context.Context, code string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify", map[string]string{"token": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// League is a competition a team plays in
type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  string `json:"season"`
	LogoURL string `json:"logo_url,omitempty"`
}

// Team is a followable team
type Team struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"short_name,omitempty"`
	Country   string  `json:"country,omitempty"`
	LogoURL   string  `json:"logo_url,omitempty"`
	LeagueID  string  `json:"league_id,omitempty"`
	League    *League `json:"league,omitempty"`
}

// Fixture is a scheduled, live or finished match
type Fixture struct {
	ID         string    `json:"id"`
	LeagueID   string    `json:"league_id"`
	Season     string    `json:"season"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	StartTime  time.Time `json:"start_time"`
	Status     string    `json:"status"`
	HomeScore  *int      `json:"home_score"`
	AwayScore  *int      `json:"away_score"`
	UpdatedAt  time.Time `json:"updated_at"`
	HomeTeam   *Team     `json:"home_team,omitempty"`
	AwayTeam   *Team     `json:"away_team,omitempty"`
	Events     []Event   `json:"events,omitempty"`
}

// HomeName returns the home team's display name
func (f *Fixture) HomeName() string {
	if f.HomeTeam != nil && f.HomeTeam.Name != "" {
		return f.HomeTeam.Name
	}
	return f.HomeTeamID
}

// AwayName returns the away team's display name
func (f *Fixture) AwayName() string {
	if f.AwayTeam != nil && f.AwayTeam.Name != "" {
		return f.AwayTeam.Name
	}
	return f.AwayTeamID
}

// Score formats the score, or "vs" when the match has not started
func (f *Fixture) Score() string {
	if f.HomeScore == nil || f.AwayScore == nil {
		return "vs"
	}
	return fmt.Sprintf("%d–%d", *f.HomeScore, *f.AwayScore)
}

// Event is a match event such as a goal or card
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Minute     *int      `json:"minute"`
	TeamID     string    `json:"team_id,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	Payload    string    `json:"payload,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Follow is a subscription edge between the current user and a team
type Follow struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Team   *Team  `json:"team,omitempty"`
}

// Standing is a team's league table position
type Standing struct {
	TeamID       string `json:"team_id"`
	LeagueID     string `json:"league_id"`
	Season       string `json:"season"`
	Rank         int    `json:"rank"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
}

// DashboardEntry is one followed team with its surrounding fixtures
type DashboardEntry struct {
	Team        Team      `json:"team"`
	Standing    *Standing `json:"standing"`
	NextFixture *Fixture  `json:"next_fixture"`
	LastFixture *Fixture  `json:"last_fixture"`
}

// Paginated is the envelope for paged list endpoints
type Paginated[T any] struct {
	Items    []T  `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
}

// ListFollows calls GET /me/follows
func (c *Client) ListFollows(ctx context.Context) ([]Follow, error) {
	var out []Follow
	if err := c.do(ctx, http.MethodGet, "/me/follows", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Follow calls POST /me/follows. The backend treats repeat follows as success.
func (c *Client) Follow(ctx context.Context, teamID string) error {
	return c.do(ctx, http.MethodPost, "/me/follows", map[string]string{"team_id": teamID}, nil)
}

// Unfollow calls DELETE /me/follows/{team_id}
func (c *Client) Unfollow(ctx context.Context, teamID string) error {
	return c.do(ctx, http.MethodDelete, "/me/follows/"+url.PathEscape(teamID), nil, nil)
}

// Dashboard calls GET /me/dashboard
func (c *Client) Dashboard(ctx context.Context) ([]DashboardEntry, error) {
	var out []DashboardEntry
	if err := c.do(ctx, http.MethodGet, "/me/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchTeams calls GET /teams/search
func (c *Client) SearchTeams(ctx context.Context, query string) (*Paginated[Team], error) {
	var out Paginated[Team]
	path := "/teams/search?" + url.Values{"q": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamFixtures calls GET /teams/{id}/fixtures
func (c *Client) TeamFixtures(ctx context.Context, teamID string) (*Paginated[Fixture], error) {
	var out Paginated[Fixture]
	if err := c.do(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID)+"/fixtures", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fixture calls GET /fixtures/{id}
func (c *Client) Fixture(ctx context.Context, fixtureID string) (*Fixture, error) {
	var out Fixture
	if err := c.do(ctx, http.MethodGet, "/fixtures/"+url.PathEscape(fixtureID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FixtureEvents calls GET /fixtures/{id}/events
func (c *Client) FixtureEvents(ctx context.Context, fixtureID string) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/fixtures/"+url.PathEscape(fixtureID)+"/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
