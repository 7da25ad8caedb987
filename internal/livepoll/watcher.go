// ABOUTME: Drives fixture refreshes according to the live poll policy
// ABOUTME: Re-evaluates the interval each time the fixture is refetched

package livepoll

import (
	"context"
	"log/slog"
	"time"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/remote"
)

// Source loads fixture data from the server
type Source interface {
	Fixture(ctx context.Context, fixtureID string) (*client.Fixture, error)
	FixtureEvents(ctx context.Context, fixtureID string) ([]client.Event, error)
}

// Update is delivered after every refresh attempt
type Update struct {
	Fixture *client.Fixture
	Events  []client.Event
	Status  FixtureStatus
	// Next is the delay before the next refresh; zero when polling stopped
	Next time.Duration
	Err  error
}

// WatcherOptions configures a Watcher
type WatcherOptions struct {
	// LiveInterval overrides the in-play refresh interval (default LiveInterval)
	LiveInterval time.Duration
	// IdleInterval re-checks a fixture that is neither live nor finished,
	// e.g. at half time. Zero stops watching instead.
	IdleInterval time.Duration
	Logger       *slog.Logger
}

// Watcher refreshes one fixture at a time
type Watcher struct {
	src   Source
	cache *remote.Cache
	opts  WatcherOptions
}

// NewWatcher creates a Watcher reading through cache
func NewWatcher(src Source, cache *remote.Cache, opts WatcherOptions) *Watcher {
	if opts.LiveInterval <= 0 {
		opts.LiveInterval = LiveInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{src: src, cache: cache, opts: opts}
}

// next returns the delay before refreshing a fixture in status s
func (w *Watcher) next(s FixtureStatus) time.Duration {
	if _, live := Interval(s); live {
		return w.opts.LiveInterval
	}
	if s.Terminal() {
		return 0
	}
	return w.opts.IdleInterval
}

// Run refreshes fixtureID until it is no longer worth polling or ctx ends.
// fn is called after every refresh. A failure before the first successful
// load is returned; later failures are reported through fn and retried.
func (w *Watcher) Run(ctx context.Context, fixtureID string, fn func(Update)) error {
	var last Update
	loaded := false

	for {
		u := w.refresh(ctx, fixtureID)
		if u.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !loaded {
				return u.Err
			}
			w.opts.Logger.Warn("Fixture refresh failed", "fixture_id", fixtureID, "error", u.Err)
			last.Err = u.Err
			u = last
		} else {
			loaded = true
			u.Next = w.next(u.Status)
			last = u
		}
		fn(u)

		if u.Next <= 0 {
			w.opts.Logger.Debug("Fixture polling stopped", "fixture_id", fixtureID, "status", u.Status)
			return nil
		}

		timer := time.NewTimer(u.Next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		w.cache.InvalidatePrefix(remote.FixtureKey(fixtureID))
	}
}

func (w *Watcher) refresh(ctx context.Context, fixtureID string) Update {
	fixture, err := remote.Query(ctx, w.cache, remote.FixtureKey(fixtureID), func(ctx context.Context) (*client.Fixture, error) {
		return w.src.Fixture(ctx, fixtureID)
	})
	if err != nil {
		return Update{Err: err}
	}

	events, err := remote.Query(ctx, w.cache, remote.FixtureEventsKey(fixtureID), func(ctx context.Context) ([]client.Event, error) {
		return w.src.FixtureEvents(ctx, fixtureID)
	})
	if err != nil {
		return Update{Err: err}
	}

	status, ok := ParseFixtureStatus(fixture.Status)
	if !ok {
		w.opts.Logger.Debug("Unrecognised fixture status", "fixture_id", fixtureID, "status", fixture.Status)
	}
	return Update{Fixture: fixture, Events: events, Status: status}
}
