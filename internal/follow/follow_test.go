// ABOUTME: Tests for the follow toggle
// ABOUTME: Covers per-team in-flight guarding, invalidation and failure handling

package follow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/remote"
)

type fakeAPI struct {
	mu        sync.Mutex
	follows   map[string]bool
	listCalls int
	mutations []string
	block     chan struct{}
	started   chan string
	failWith  error
}

func newFakeAPI(followed ...string) *fakeAPI {
	f := &fakeAPI{follows: make(map[string]bool)}
	for _, id := range followed {
		f.follows[id] = true
	}
	return f
}

func (f *fakeAPI) ListFollows(context.Context) ([]client.Follow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []client.Follow
	for id := range f.follows {
		out = append(out, client.Follow{TeamID: id, UserID: "u1"})
	}
	return out, nil
}

func (f *fakeAPI) mutate(op, teamID string, followed bool) error {
	f.mu.Lock()
	f.mutations = append(f.mutations, op+":"+teamID)
	block, started, failWith := f.block, f.started, f.failWith
	f.mu.Unlock()

	if started != nil {
		started <- teamID
	}
	if block != nil {
		<-block
	}
	if failWith != nil {
		return failWith
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows[teamID] = followed
	if !followed {
		delete(f.follows, teamID)
	}
	return nil
}

func (f *fakeAPI) Follow(_ context.Context, teamID string) error {
	return f.mutate("follow", teamID, true)
}

func (f *fakeAPI) Unfollow(_ context.Context, teamID string) error {
	return f.mutate("unfollow", teamID, false)
}

func (f *fakeAPI) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mutations)
}

func newTestToggler(t *testing.T, api API) (*Toggler, *remote.Cache) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := remote.New(time.Minute, logger)
	t.Cleanup(cache.Close)
	return New(api, cache, logger), cache
}

func TestToggle_FollowsUnfollowedTeam(t *testing.T) {
	api := newFakeAPI()
	tg, _ := newTestToggler(t, api)
	ctx := context.Background()

	op, err := tg.Toggle(ctx, "team-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpFollow {
		t.Errorf("expected follow, got %s", op)
	}

	// Invalidated, so the next read reflects the server
	follows, err := tg.Follows(ctx)
	if err != nil {
		t.Fatalf("follows: %v", err)
	}
	if len(follows) != 1 || follows[0].TeamID != "team-1" {
		t.Errorf("expected team-1 followed, got %+v", follows)
	}
	if !tg.IsFollowed("team-1") {
		t.Error("expected IsFollowed after refetch")
	}
}

func TestToggle_UnfollowsFollowedTeam(t *testing.T) {
	api := newFakeAPI("team-1")
	tg, _ := newTestToggler(t, api)
	ctx := context.Background()

	if _, err := tg.Follows(ctx); err != nil {
		t.Fatalf("follows: %v", err)
	}
	if !tg.IsFollowed("team-1") {
		t.Fatal("expected team-1 followed initially")
	}

	op, err := tg.Toggle(ctx, "team-1")
	if err != nil || op != OpUnfollow {
		t.Fatalf("expected unfollow, got %s, %v", op, err)
	}
}

func TestToggle_SecondToggleUnfollows(t *testing.T) {
	api := newFakeAPI()
	tg, _ := newTestToggler(t, api)
	ctx := context.Background()

	if op, err := tg.Toggle(ctx, "team-1"); err != nil || op != OpFollow {
		t.Fatalf("expected follow, got %s, %v", op, err)
	}

	// The stale snapshot is refetched, not reused
	op, err := tg.Toggle(ctx, "team-1")
	if err != nil || op != OpUnfollow {
		t.Fatalf("expected unfollow, got %s, %v", op, err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	want := []string{"follow:team-1", "unfollow:team-1"}
	if len(api.mutations) != len(want) || api.mutations[0] != want[0] || api.mutations[1] != want[1] {
		t.Errorf("expected mutations %v, got %v", want, api.mutations)
	}
	if api.follows["team-1"] {
		t.Error("expected server to no longer follow team-1")
	}
}

func TestToggle_InvalidatesFollowsAndDashboard(t *testing.T) {
	api := newFakeAPI()
	tg, cache := newTestToggler(t, api)

	cache.Set(remote.KeyDashboard, "dash")
	cache.Set(remote.KeyFollows, []client.Follow{})
	dashCh, unsubDash := cache.Subscribe(remote.KeyDashboard)
	defer unsubDash()
	followsCh, unsubFollows := cache.Subscribe(remote.KeyFollows)
	defer unsubFollows()

	if _, err := tg.Toggle(context.Background(), "team-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, ch := range map[string]<-chan struct{}{"dashboard": dashCh, "follows": followsCh} {
		select {
		case <-ch:
		default:
			t.Errorf("expected %s invalidated", name)
		}
	}
	if _, fresh := cache.Get(remote.KeyDashboard); fresh {
		t.Error("expected dashboard stale")
	}
}

func TestToggle_RapidSameTeamSendsOneMutation(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	api.started = make(chan string, 1)
	tg, _ := newTestToggler(t, api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := tg.Toggle(ctx, "team-1")
		done <- err
	}()
	<-api.started

	if !tg.Pending("team-1") {
		t.Error("expected team-1 pending")
	}
	if _, err := tg.Toggle(ctx, "team-1"); !errors.Is(err, ErrTogglePending) {
		t.Errorf("expected ErrTogglePending, got %v", err)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if n := api.mutationCount(); n != 1 {
		t.Errorf("expected 1 mutation, got %d", n)
	}
	if tg.Pending("team-1") {
		t.Error("expected pending released after settle")
	}
}

func TestToggle_DifferentTeamsProceedIndependently(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	api.started = make(chan string, 2)
	tg, _ := newTestToggler(t, api)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{"team-1", "team-2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := tg.Toggle(ctx, id)
			errs <- err
		}(id)
	}

	// Both mutations reach the server while the other is still in flight
	<-api.started
	<-api.started
	close(api.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if n := api.mutationCount(); n != 2 {
		t.Errorf("expected 2 mutations, got %d", n)
	}
}

func TestToggle_FailureLeavesSnapshot(t *testing.T) {
	api := newFakeAPI()
	api.failWith = &client.APIError{Status: 503, Message: "service unavailable"}
	tg, cache := newTestToggler(t, api)
	ctx := context.Background()

	tg.Follows(ctx)
	listCalls := api.listCalls

	op, err := tg.Toggle(ctx, "team-1")

	var sf *SubscriptionFailure
	if !errors.As(err, &sf) {
		t.Fatalf("expected SubscriptionFailure, got %v", err)
	}
	if sf.TeamID != "team-1" || sf.Op != OpFollow || op != OpFollow {
		t.Errorf("unexpected failure details: %+v", sf)
	}
	if !sf.Retryable() {
		t.Error("expected failure to be retryable")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Error("expected underlying API error to be preserved")
	}
	if _, fresh := cache.Get(remote.KeyFollows); !fresh {
		t.Error("expected follows snapshot untouched")
	}
	if api.listCalls != listCalls {
		t.Error("expected no refetch after failure")
	}
	if tg.Pending("team-1") {
		t.Error("expected pending released after failure")
	}
}

type failingListAPI struct{ *fakeAPI }

func (failingListAPI) ListFollows(context.Context) ([]client.Follow, error) {
	return nil, errors.New("cannot connect to backend")
}

func TestToggle_LookupFailure(t *testing.T) {
	api := failingListAPI{newFakeAPI()}
	tg, _ := newTestToggler(t, api)

	op, err := tg.Toggle(context.Background(), "team-1")

	var sf *SubscriptionFailure
	if !errors.As(err, &sf) || sf.Op != OpLookup || op != OpLookup {
		t.Fatalf("expected lookup failure, got %v", err)
	}
	if api.mutationCount() != 0 {
		t.Error("expected no mutation without a known follow state")
	}
}

func TestIsFollowed_NothingCached(t *testing.T) {
	tg, _ := newTestToggler(t, newFakeAPI("team-1"))
	if tg.IsFollowed("team-1") {
		t.Error("expected false before any fetch")
	}
}
