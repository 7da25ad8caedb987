// ABOUTME: Builds the services shared by every command
// ABOUTME: Wires config, token storage, API client, session, cache and follow toggling

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/markalston/myteams/internal/auth"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/config"
	"github.com/markalston/myteams/internal/follow"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/logger"
	"github.com/markalston/myteams/internal/remote"
	"github.com/markalston/myteams/internal/session"
	"github.com/markalston/myteams/internal/tokenstore"
)

// runtime holds the long-lived services for one command invocation
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	api     *client.Client
	session *session.Store
	cache   *remote.Cache
	follows *follow.Toggler
	closers []func() error
}

// runtimeOptions controls how the runtime is assembled
type runtimeOptions struct {
	// logger overrides the default stderr logger
	logger *slog.Logger
	// skipHydrate leaves the session Unresolved for the caller to restore
	skipHydrate bool
}

// newRuntime assembles the services from configuration
func newRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := opts.logger
	if log == nil {
		log = logger.Init(os.Stderr)
	}

	r := &runtime{cfg: cfg, logger: log}

	kv, err := r.openKV(ctx)
	if err != nil {
		return nil, err
	}

	// The client reads the token from the session, which is built on top of it
	var sess *session.Store
	r.api = client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRateLimit(cfg.RateLimit),
		client.WithLogger(log),
		client.WithTokenSource(func() string { return sess.Token() }),
		client.WithUnauthorizedHandler(func(token string) {
			sess.HandleUnauthorized(context.Background(), token)
		}),
	)

	sess = session.New(auth.NewHTTPGateway(r.api), tokenstore.New(kv), session.Options{
		AllowDevLogin: cfg.IsDevelopment(),
		Logger:        log,
	})
	r.session = sess

	r.cache = remote.New(cfg.CacheTTL, log)
	r.closers = append(r.closers, func() error { r.cache.Close(); return nil })
	r.follows = follow.New(r.api, r.cache, log)

	if !opts.skipHydrate {
		sess.Hydrate(ctx)
	}
	return r, nil
}

// openKV opens the configured token storage backend
func (r *runtime) openKV(ctx context.Context) (tokenstore.KV, error) {
	switch r.cfg.TokenBackend {
	case config.BackendSQLite:
		kv, err := tokenstore.OpenSQLiteKV(ctx, r.cfg.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open token database: %w", err)
		}
		r.closers = append(r.closers, kv.Close)
		return kv, nil
	default:
		return tokenstore.NewFileKV(r.cfg.ConfigDir), nil
	}
}

// watcher creates a live fixture watcher. idle > 0 keeps re-checking
// fixtures that are neither live nor finished at that interval.
func (r *runtime) watcher(idle time.Duration) *livepoll.Watcher {
	return livepoll.NewWatcher(r.api, r.cache, livepoll.WatcherOptions{
		LiveInterval: r.cfg.LivePollInterval,
		IdleInterval: idle,
		Logger:       r.logger,
	})
}

// requireSession reports whether a user is signed in
func (r *runtime) requireSession() error {
	if !r.session.Snapshot().SignedIn() {
		return errNotSignedIn
	}
	return nil
}

// Close releases storage and background work
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warn("Shutdown error", "error", err)
		}
	}
}
