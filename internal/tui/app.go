// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, session gating and routes input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/follow"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/navigation"
	"github.com/markalston/myteams/internal/remote"
	"github.com/markalston/myteams/internal/session"
	"github.com/markalston/myteams/internal/tui/dashboard"
	"github.com/markalston/myteams/internal/tui/fixture"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/login"
	"github.com/markalston/myteams/internal/tui/recent"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/search"
	"github.com/markalston/myteams/internal/tui/styles"
	"github.com/markalston/myteams/internal/tui/team"
	"github.com/markalston/myteams/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenLogin
	ScreenSearch
	ScreenTeam
	ScreenFixture
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// DataSource is the read side of the API used by the screens
type DataSource interface {
	Dashboard(ctx context.Context) ([]client.DashboardEntry, error)
	SearchTeams(ctx context.Context, query string) (*client.Paginated[client.Team], error)
	TeamFixtures(ctx context.Context, teamID string) (*client.Paginated[client.Fixture], error)
}

// Deps are the long-lived services the TUI drives
type Deps struct {
	Session       *session.Store
	Data          DataSource
	Follows       *follow.Toggler
	Cache         *remote.Cache
	Watcher       *livepoll.Watcher
	Recent        *recent.Searches
	AllowDevLogin bool
	Logger        *slog.Logger
}

// sessionMsg is sent after every applied session transition
type sessionMsg struct {
	session session.Session
}

// redirectMsg carries a navigation guard decision
type redirectMsg struct {
	decision navigation.Decision
}

// dashboardMsg is sent when the dashboard query completes
type dashboardMsg struct {
	entries []client.DashboardEntry
	err     error
}

// followsMsg is sent when the follow list has been (re)fetched
type followsMsg struct {
	err error
}

// staleMsg is sent when a watched cache key is invalidated
type staleMsg struct {
	key string
}

// toggledMsg reports the outcome of a follow toggle
type toggledMsg struct {
	teamID string
	op     follow.Op
	err    error
}

// App is the root model for the TUI
type App struct {
	deps   Deps
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	guard     *navigation.Guard
	sessions  *latest[session.Session]
	redirects *latest[navigation.Decision]
	unsub     func()

	screen     Screen
	width      int
	height     int
	spinner    spinner.Model
	lastUpdate time.Time
	notice     string
	noticeErr  bool
	teamNames  map[string]string

	// Child models
	dashboard   *dashboard.Dashboard
	loginView   *login.Login
	searchView  *search.Search
	teamView    *team.Team
	fixtureView *fixture.Fixture

	// Screens to return to from the team and fixture screens
	teamReturn    Screen
	fixtureReturn Screen

	watch *watch
}

// New creates a new TUI application. Close releases its subscriptions.
func New(ctx context.Context, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		deps:      deps,
		logger:    deps.Logger,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  newLatest[session.Session](),
		redirects: newLatest[navigation.Decision](),
		screen:    ScreenDashboard,
		spinner:   s,
		teamNames: make(map[string]string),
		dashboard: dashboard.New(nil, 0, 0),
	}

	a.guard = navigation.NewGuard(a.redirects.put)
	a.guard.Navigate(navigation.GroupMain)

	a.unsub = deps.Session.Subscribe(func(s session.Session) {
		if s.Status != session.Authenticated {
			deps.Cache.Clear()
		}
		a.guard.Observe(s)
		a.sessions.put(s)
	})

	return a
}

// Close stops background work started by the app
func (a *App) Close() {
	a.stopWatch()
	a.unsub()
	a.cancel()
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.hydrate(),
		a.waitSession(),
		a.waitRedirect(),
		a.waitStale(remote.KeyDashboard),
		a.waitStale(remote.KeyFollows),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(a.dashboardWidth(), a.contentHeight())
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		return a, tea.Batch(a.waitSession(), a.handleSession(msg.session))

	case redirectMsg:
		cmd := a.waitRedirect()
		if !a.guard.Current(msg.decision.Generation) {
			a.logger.Debug("Ignoring superseded redirect", "route", msg.decision.Redirect)
			return a, cmd
		}
		return a, tea.Batch(cmd, a.redirect(msg.decision.Redirect))

	case staleMsg:
		return a, tea.Batch(a.waitStale(msg.key), a.handleStale(msg.key))

	case dashboardMsg:
		if msg.err != nil {
			a.logger.Warn("Dashboard load failed", "error", msg.err)
			a.setNotice("Failed to load dashboard: "+msg.err.Error(), true)
			return a, nil
		}
		a.dashboard.Update(msg.entries)
		for _, e := range msg.entries {
			a.rememberTeam(e.Team)
			a.rememberFixtureTeams(e.NextFixture)
			a.rememberFixtureTeams(e.LastFixture)
		}
		a.lastUpdate = time.Now()
		return a, nil

	case followsMsg:
		if msg.err != nil {
			a.logger.Warn("Follows load failed", "error", msg.err)
		}
		return a, nil

	case toggledMsg:
		a.handleToggled(msg)
		return a, nil

	case watchEventMsg:
		return a.handleWatchEvent(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		switch a.screen {
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenSearch:
			return a.updateSearch(msg)
		case ScreenTeam:
			return a.updateTeam(msg)
		case ScreenFixture:
			return a.updateFixture(msg)
		}

	// Login screen
	case login.RequestLinkMsg:
		return a, a.requestLink(msg.Email)
	case login.VerifyMsg:
		return a, a.verify(msg.Code)
	case login.DevLoginMsg:
		return a, a.devLogin(msg.UserID)
	case login.ResultMsg:
		if a.loginView != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	// Search screen
	case search.QueryMsg:
		return a, a.searchTeams(msg.Query)
	case search.ResultsMsg:
		if msg.Err == nil && len(msg.Teams) > 0 && a.deps.Recent != nil {
			if err := a.deps.Recent.Add(msg.Query); err != nil {
				a.logger.Warn("Failed to save recent search", "error", err)
			}
		}
		for _, t := range msg.Teams {
			a.rememberTeam(t)
		}
		if a.searchView != nil {
			return a.updateSearch(msg)
		}
		return a, nil
	case search.ToggleMsg:
		return a, a.toggle(msg.TeamID)
	case search.OpenTeamMsg:
		return a, a.openTeam(msg.Team, ScreenSearch)
	case search.CancelledMsg:
		a.searchView = nil
		return a, a.showDashboard()

	// Team screen
	case team.FixturesMsg:
		if a.teamView != nil {
			return a.updateTeam(msg)
		}
		return a, nil
	case team.ToggleMsg:
		return a, a.toggle(msg.TeamID)
	case team.OpenFixtureMsg:
		return a, a.openFixture(msg.FixtureID, ScreenTeam)
	case team.BackMsg:
		a.teamView = nil
		return a, a.back(a.teamReturn)

	// Fixture screen
	case fixture.BackMsg:
		a.stopWatch()
		a.fixtureView = nil
		return a, a.back(a.fixtureReturn)

	default:
		// textinput blink and other component internals
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenSearch:
			return a.updateSearch(msg)
		}
	}

	return a, nil
}

// handleSession reacts to a session transition not covered by a redirect
func (a *App) handleSession(s session.Session) tea.Cmd {
	switch s.Status {
	case session.Authenticated:
		if a.screen == ScreenDashboard {
			return a.loadDashboard()
		}
	case session.Anonymous:
		a.stopWatch()
		a.searchView = nil
		a.teamView = nil
		a.fixtureView = nil
		a.dashboard.Update(nil)
		a.lastUpdate = time.Time{}
		a.teamNames = make(map[string]string)
	}
	return nil
}

func (a *App) handleStale(key string) tea.Cmd {
	if !a.deps.Session.Snapshot().SignedIn() {
		return nil
	}
	switch key {
	case remote.KeyDashboard:
		return a.loadDashboard()
	case remote.KeyFollows:
		return a.loadFollows()
	}
	return nil
}

func (a *App) handleToggled(msg toggledMsg) {
	if errors.Is(msg.err, follow.ErrTogglePending) {
		return
	}
	name := a.teamName(msg.teamID)
	if msg.err != nil {
		a.setNotice(fmt.Sprintf("Could not update %s, try again: %v", name, errors.Unwrap(msg.err)), true)
		return
	}
	switch msg.op {
	case follow.OpFollow:
		a.setNotice("Now following "+name, false)
	case follow.OpUnfollow:
		a.setNotice("Unfollowed "+name, false)
	}
}

// redirect applies a navigation guard decision
func (a *App) redirect(route navigation.Route) tea.Cmd {
	switch route {
	case navigation.RouteLogin:
		return a.showLogin()
	case navigation.RouteDashboard:
		return a.showDashboard()
	}
	return nil
}

// setScreen switches screens and lets the guard veto the move
func (a *App) setScreen(s Screen) tea.Cmd {
	a.screen = s
	d := a.guard.Navigate(groupFor(s))
	if d.Redirect != "" {
		return a.redirect(d.Redirect)
	}
	return nil
}

func groupFor(s Screen) navigation.Group {
	if s == ScreenLogin {
		return navigation.GroupAuth
	}
	return navigation.GroupMain
}

func (a *App) showLogin() tea.Cmd {
	a.stopWatch()
	a.loginView = login.New(a.deps.AllowDevLogin)
	if cmd := a.setScreen(ScreenLogin); cmd != nil {
		return cmd
	}
	return a.loginView.Init()
}

func (a *App) showDashboard() tea.Cmd {
	a.loginView = nil
	if cmd := a.setScreen(ScreenDashboard); cmd != nil {
		return cmd
	}
	if !a.deps.Session.Snapshot().SignedIn() {
		return nil
	}
	return tea.Batch(a.loadDashboard(), a.loadFollows())
}

func (a *App) showSearch() tea.Cmd {
	a.searchView = search.New(a.deps.Follows)
	if a.deps.Recent != nil {
		a.searchView.SetRecent(a.deps.Recent.List())
	}
	if cmd := a.setScreen(ScreenSearch); cmd != nil {
		return cmd
	}
	return a.searchView.Init()
}

func (a *App) openTeam(t client.Team, from Screen) tea.Cmd {
	a.rememberTeam(t)
	a.teamView = team.New(t, a.deps.Follows)
	a.teamReturn = from
	if cmd := a.setScreen(ScreenTeam); cmd != nil {
		return cmd
	}
	return tea.Batch(a.loadTeamFixtures(t.ID), a.loadFollows())
}

func (a *App) openFixture(id string, from Screen) tea.Cmd {
	a.fixtureView = fixture.New(id)
	a.fixtureReturn = from
	if cmd := a.setScreen(ScreenFixture); cmd != nil {
		return cmd
	}
	return a.startWatch(id)
}

// back returns to a previous screen, falling back to the dashboard
func (a *App) back(to Screen) tea.Cmd {
	switch {
	case to == ScreenSearch && a.searchView != nil:
		return a.setScreen(ScreenSearch)
	case to == ScreenTeam && a.teamView != nil:
		return a.setScreen(ScreenTeam)
	}
	return a.showDashboard()
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	}

	// Nothing else is usable until the session is known
	if !a.deps.Session.Snapshot().SignedIn() {
		return a, nil
	}

	switch msg.String() {
	case "up", "k":
		a.dashboard.MoveUp()
	case "down", "j":
		a.dashboard.MoveDown()
	case "enter":
		if e, ok := a.dashboard.Selected(); ok {
			return a, a.openTeam(e.Team, ScreenDashboard)
		}
	case "n":
		if e, ok := a.dashboard.Selected(); ok && e.NextFixture != nil {
			return a, a.openFixture(e.NextFixture.ID, ScreenDashboard)
		}
	case "l":
		if e, ok := a.dashboard.Selected(); ok && e.LastFixture != nil {
			return a, a.openFixture(e.LastFixture.ID, ScreenDashboard)
		}
	case "f":
		if e, ok := a.dashboard.Selected(); ok {
			return a, a.toggle(e.Team.ID)
		}
	case "/", "s":
		return a, a.showSearch()
	case "r":
		a.deps.Cache.Invalidate(remote.KeyDashboard)
		return a, a.loadDashboard()
	case "L":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginView == nil {
		return a, nil
	}
	model, cmd := a.loginView.Update(msg)
	a.loginView = model.(*login.Login)
	return a, cmd
}

func (a *App) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.searchView == nil {
		return a, nil
	}
	model, cmd := a.searchView.Update(msg)
	a.searchView = model.(*search.Search)
	return a, cmd
}

func (a *App) updateTeam(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.teamView == nil {
		return a, nil
	}
	model, cmd := a.teamView.Update(msg)
	a.teamView = model.(*team.Team)
	return a, cmd
}

func (a *App) updateFixture(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.fixtureView == nil {
		return a, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "r" {
		id := a.fixtureView.ID()
		a.deps.Cache.InvalidatePrefix(remote.FixtureKey(id))
		a.fixtureView = fixture.New(id)
		return a, a.startWatch(id)
	}
	model, cmd := a.fixtureView.Update(msg)
	a.fixtureView = model.(*fixture.Fixture)
	return a, cmd
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = sanitize.Text(text)
	a.noticeErr = isErr
}

func (a *App) rememberTeam(t client.Team) {
	if t.ID != "" && t.Name != "" {
		a.teamNames[t.ID] = sanitize.Text(t.Name)
	}
}

func (a *App) rememberFixtureTeams(f *client.Fixture) {
	if f == nil {
		return
	}
	if f.HomeTeam != nil {
		a.rememberTeam(*f.HomeTeam)
	}
	if f.AwayTeam != nil {
		a.rememberTeam(*f.AwayTeam)
	}
}

func (a *App) teamName(id string) string {
	if name, ok := a.teamNames[id]; ok {
		return name
	}
	return "team " + id
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenSearch:
		content = a.viewChild(a.searchView)
	case ScreenTeam:
		content = a.viewChild(a.teamView)
	case ScreenFixture:
		content = a.viewChild(a.fixtureView)
	default:
		content = a.viewDashboard()
	}

	if a.notice != "" {
		level := widgets.StatusOK
		if a.noticeErr {
			level = widgets.StatusCritical
		}
		content += "\n" + widgets.StatusText(a.notice, level)
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewChild(m tea.Model) string {
	if m == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.fullWidth()).Render(m.View())
}

// viewSplash is shown while the stored session is being restored
func (a *App) viewSplash() string {
	return styles.Panel.Width(a.fullWidth()).Render(
		a.spinner.View() + " Restoring session...",
	)
}

func (a *App) viewLogin() string {
	if a.loginView == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.fullWidth()).Render(a.loginView.View())
}

// viewDashboard renders the dashboard with actions pane
func (a *App) viewDashboard() string {
	if a.deps.Session.Snapshot().Status == session.Unresolved {
		return a.viewSplash()
	}

	leftPane := styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View())

	// Actions pane on the right - shows available actions
	rightContent := styles.Title.Render(icons.Settings.String()+" Actions") + "\n\n"
	rightContent += icons.Fixture.String() + " Team fixtures\n"
	rightContent += icons.Live.String() + " Next / last match\n"
	rightContent += icons.Followed.String() + " Follow / unfollow\n"
	rightContent += icons.Search.String() + " Find teams\n"
	rightContent += icons.Refresh.String() + " Refresh data\n"
	rightContent += icons.Logout.String() + " Sign out\n"
	rightContent += icons.Quit.String() + " Quit application\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	if a.width < minTerminalWidth {
		return lipgloss.JoinVertical(lipgloss.Left, leftPane, rightPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// fullWidth is the panel width for single-pane screens
func (a *App) fullWidth() int {
	w := a.frameWidth() - panelPadding
	if a.width > 0 && a.width-panelPadding < w {
		w = a.width - panelPadding
	}
	return w
}

// dashboardWidth calculates the width for the dashboard pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return a.fullWidth()
	}
	return (a.width - panelPadding) / 2
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	if a.width < minTerminalWidth {
		return a.fullWidth()
	}
	return a.width - a.dashboardWidth() - 4
}

// contentHeight calculates the height available for dashboard content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	return a.height - 8
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, deps Deps) error {
	app := New(ctx, deps)
	defer app.Close()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
