// ABOUTME: tea.Cmd builders that call the session store, cache and API
// ABOUTME: Bridges store callbacks and cache signals into bubbletea messages

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/remote"
	"github.com/markalston/myteams/internal/tui/login"
	"github.com/markalston/myteams/internal/tui/search"
	"github.com/markalston/myteams/internal/tui/team"
)

// latest holds at most one pending value; a newer put replaces an unread one.
// put never blocks, so it is safe to call from inside Update.
type latest[T any] struct {
	mu sync.Mutex
	ch chan T
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{ch: make(chan T, 1)}
}

func (l *latest[T]) put(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.ch:
	default:
	}
	l.ch <- v
}

// waitSession delivers the next session transition
func (a *App) waitSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-a.sessions.ch:
			return sessionMsg{session: s}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// waitRedirect delivers the next navigation guard decision
func (a *App) waitRedirect() tea.Cmd {
	return func() tea.Msg {
		select {
		case d := <-a.redirects.ch:
			return redirectMsg{decision: d}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// waitStale delivers the next invalidation of key
func (a *App) waitStale(key string) tea.Cmd {
	ch, unsubscribe := a.deps.Cache.Subscribe(key)
	return func() tea.Msg {
		defer unsubscribe()
		select {
		case <-ch:
			return staleMsg{key: key}
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) hydrate() tea.Cmd {
	return func() tea.Msg {
		a.deps.Session.Hydrate(a.ctx)
		return nil
	}
}

func (a *App) devLogin(userID string) tea.Cmd {
	return func() tea.Msg {
		err := a.deps.Session.DevLogin(a.ctx, userID)
		return login.ResultMsg{Stage: login.StageDev, Err: err}
	}
}

func (a *App) requestLink(email string) tea.Cmd {
	return func() tea.Msg {
		err := a.deps.Session.RequestLink(a.ctx, email)
		return login.ResultMsg{Stage: login.StageEmail, Err: err}
	}
}

func (a *App) verify(code string) tea.Cmd {
	return func() tea.Msg {
		err := a.deps.Session.VerifyToken(a.ctx, code)
		return login.ResultMsg{Stage: login.StageCode, Err: err}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.deps.Session.Logout(a.ctx)
		return nil
	}
}

func (a *App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		entries, err := remote.Query(a.ctx, a.deps.Cache, remote.KeyDashboard, a.deps.Data.Dashboard)
		return dashboardMsg{entries: entries, err: err}
	}
}

func (a *App) loadFollows() tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Follows.Follows(a.ctx)
		return followsMsg{err: err}
	}
}

func (a *App) searchTeams(query string) tea.Cmd {
	return func() tea.Msg {
		page, err := remote.Query(a.ctx, a.deps.Cache, remote.SearchKey(query),
			func(ctx context.Context) (*client.Paginated[client.Team], error) {
				return a.deps.Data.SearchTeams(ctx, query)
			})
		if err != nil {
			return search.ResultsMsg{Query: query, Err: err}
		}
		return search.ResultsMsg{Query: query, Teams: page.Items}
	}
}

func (a *App) loadTeamFixtures(teamID string) tea.Cmd {
	return func() tea.Msg {
		page, err := remote.Query(a.ctx, a.deps.Cache, remote.TeamFixturesKey(teamID),
			func(ctx context.Context) (*client.Paginated[client.Fixture], error) {
				return a.deps.Data.TeamFixtures(ctx, teamID)
			})
		if err != nil {
			return team.FixturesMsg{TeamID: teamID, Err: err}
		}
		return team.FixturesMsg{TeamID: teamID, Fixtures: page.Items}
	}
}

func (a *App) toggle(teamID string) tea.Cmd {
	return func() tea.Msg {
		op, err := a.deps.Follows.Toggle(a.ctx, teamID)
		return toggledMsg{teamID: teamID, op: op, err: err}
	}
}
