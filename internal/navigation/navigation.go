// ABOUTME: Route gating on session state
// ABOUTME: Pure redirect decision plus a guard that only acts on the latest state

package navigation

import (
	"sync"

	"github.com/markalston/myteams/internal/session"
)

// Group is a set of screens gated together
type Group int

const (
	GroupNone Group = iota
	GroupAuth
	GroupMain
)

// String returns the string representation of a Group
func (g Group) String() string {
	switch g {
	case GroupAuth:
		return "auth"
	case GroupMain:
		return "main"
	default:
		return "none"
	}
}

// Route is a redirect target
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// Decision is the outcome of a single guard evaluation.
// Redirect is empty when no navigation is required.
type Decision struct {
	Redirect Route
	// Generation orders decisions; only the latest is actionable
	Generation uint64
}

// Decide maps session status and current group to a redirect
func Decide(status session.Status, group Group) Route {
	switch status {
	case session.Unresolved:
		return ""
	case session.Anonymous:
		if group != GroupAuth {
			return RouteLogin
		}
	case session.Authenticated:
		if group == GroupAuth {
			return RouteDashboard
		}
	}
	return ""
}

// Guard re-evaluates Decide whenever the session or the current group changes.
// Each evaluation sees the latest of both; older decisions are superseded.
type Guard struct {
	mu     sync.Mutex
	status session.Status
	group  Group
	gen    uint64
	notify func(Decision)
}

// NewGuard creates a guard. notify receives every redirecting decision
// and is called without the guard's lock held.
func NewGuard(notify func(Decision)) *Guard {
	return &Guard{status: session.Unresolved, notify: notify}
}

// Observe records a session transition and evaluates. Suitable as a
// session.Store subscriber.
func (g *Guard) Observe(s session.Session) {
	g.mu.Lock()
	g.status = s.Status
	d := g.evaluate()
	g.mu.Unlock()

	g.emit(d)
}

// Navigate records that the user is now in group and returns the resulting decision
func (g *Guard) Navigate(group Group) Decision {
	g.mu.Lock()
	g.group = group
	d := g.evaluate()
	g.mu.Unlock()

	g.emit(d)
	return d
}

// Current reports whether gen is still the latest evaluation
func (g *Guard) Current(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen == gen
}

// Group returns the group last recorded by Navigate
func (g *Guard) Group() Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.group
}

func (g *Guard) evaluate() Decision {
	g.gen++
	return Decision{Redirect: Decide(g.status, g.group), Generation: g.gen}
}

func (g *Guard) emit(d Decision) {
	if d.Redirect == "" || g.notify == nil {
		return
	}
	g.notify(d)
}
