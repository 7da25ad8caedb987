// ABOUTME: Per-team follow/unfollow toggle
// ABOUTME: Allows one in-flight mutation per team and refreshes dependent views on success

package follow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/remote"
)

// Op is the mutation a toggle performed
type Op string

const (
	OpFollow   Op = "follow"
	OpUnfollow Op = "unfollow"
	// OpLookup means the current follow state could not be determined
	OpLookup Op = "lookup"
)

// ErrTogglePending is returned when a mutation for the team is already in flight
var ErrTogglePending = errors.New("a follow change for this team is already in progress")

// SubscriptionFailure is a failed toggle. The cached follow list is left untouched.
type SubscriptionFailure struct {
	TeamID string
	Op     Op
	Err    error
}

func (e *SubscriptionFailure) Error() string {
	return fmt.Sprintf("failed to %s team %s: %v", e.Op, e.TeamID, e.Err)
}

func (e *SubscriptionFailure) Unwrap() error {
	return e.Err
}

// Retryable reports that the user may simply try again
func (e *SubscriptionFailure) Retryable() bool {
	return true
}

// API is the subset of the HTTP client used for follows
type API interface {
	ListFollows(ctx context.Context) ([]client.Follow, error)
	Follow(ctx context.Context, teamID string) error
	Unfollow(ctx context.Context, teamID string) error
}

// Toggler flips follow state per team
type Toggler struct {
	api    API
	cache  *remote.Cache
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Toggler backed by cache
func New(api API, cache *remote.Cache, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		api:     api,
		cache:   cache,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

// Follows returns the signed-in user's follows, from cache when fresh
func (t *Toggler) Follows(ctx context.Context) ([]client.Follow, error) {
	return remote.Query(ctx, t.cache, remote.KeyFollows, t.api.ListFollows)
}

// IsFollowed reports whether the cached follow list contains teamID.
// Returns false when nothing has been fetched yet.
func (t *Toggler) IsFollowed(teamID string) bool {
	v, ok := t.cache.Peek(remote.KeyFollows)
	if !ok {
		return false
	}
	follows, _ := v.([]client.Follow)
	return contains(follows, teamID)
}

// Pending reports whether a mutation for teamID is in flight
func (t *Toggler) Pending(teamID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[teamID]
	return ok
}

// Toggle follows teamID if it is not followed, and unfollows it otherwise.
// Toggles for different teams proceed independently.
func (t *Toggler) Toggle(ctx context.Context, teamID string) (Op, error) {
	if !t.acquire(teamID) {
		t.logger.Debug("Toggle ignored, mutation in flight", "team_id", teamID)
		return "", ErrTogglePending
	}
	defer t.release(teamID)

	followed, err := t.followed(ctx, teamID)
	if err != nil {
		return OpLookup, &SubscriptionFailure{TeamID: teamID, Op: OpLookup, Err: err}
	}

	op := OpFollow
	mutate := t.api.Follow
	if followed {
		op = OpUnfollow
		mutate = t.api.Unfollow
	}

	if err := mutate(ctx, teamID); err != nil {
		t.logger.Warn("Follow change failed", "team_id", teamID, "op", op, "error", err)
		return op, &SubscriptionFailure{TeamID: teamID, Op: op, Err: err}
	}

	t.cache.Invalidate(remote.KeyFollows)
	t.cache.Invalidate(remote.KeyDashboard)
	t.logger.Info("Follow changed", "team_id", teamID, "op", op)
	return op, nil
}

// followed reads the snapshot through the cache, refetching it when a
// previous toggle or TTL expiry has made it stale
func (t *Toggler) followed(ctx context.Context, teamID string) (bool, error) {
	follows, err := t.Follows(ctx)
	if err != nil {
		return false, err
	}
	return contains(follows, teamID), nil
}

func (t *Toggler) acquire(teamID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.pending[teamID]; busy {
		return false
	}
	t.pending[teamID] = struct{}{}
	return true
}

func (t *Toggler) release(teamID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, teamID)
}

func contains(follows []client.Follow, teamID string) bool {
	for _, f := range follows {
		if f.TeamID == teamID {
			return true
		}
	}
	return false
}
