// ABOUTME: Process-wide session state machine
// ABOUTME: Mediates between the auth gateway, token storage and session observers

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/markalston/myteams/internal/auth"
)

// Status is the session state
type Status int

const (
	Unresolved Status = iota
	Anonymous
	Authenticated
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the client's belief about who is signed in
type Session struct {
	Token  string
	User   *auth.UserProfile
	Status Status
}

// Valid reports whether the session satisfies the status invariant:
// Authenticated exactly when both token and user are present.
func (s Session) Valid() bool {
	hasCredential := s.Token != "" && s.User != nil
	switch s.Status {
	case Authenticated:
		return hasCredential
	case Anonymous, Unresolved:
		return s.Token == "" && s.User == nil
	default:
		return false
	}
}

// SignedIn reports whether the session is Authenticated with a complete credential
func (s Session) SignedIn() bool {
	return s.Status == Authenticated && s.Valid()
}

// Storage persists the session across process restarts
type Storage interface {
	LoadToken(ctx context.Context) (string, bool, error)
	SaveToken(ctx context.Context, token string) error
	LoadUser(ctx context.Context, v interface{}) (bool, error)
	SaveUser(ctx context.Context, v interface{}) error
	Clear(ctx context.Context) error
}

// action categories with independent sequence counters
type category int

const (
	categoryHydrate category = iota
	categoryLogin
	categoryLogout
	numCategories
)

var categoryNames = [numCategories]string{"hydrate", "login", "logout"}

// errStaleResult marks a resolution superseded by a newer action of the same category
var errStaleResult = errors.New("stale session result discarded")

type subscriber struct {
	id int
	fn func(Session)
}

// Options configures a Store
type Options struct {
	AllowDevLogin bool
	Logger        *slog.Logger
}

// Store owns the single session state machine.
// Observers are notified synchronously, in the order transitions are applied.
// Observer callbacks must not call Store actions.
type Store struct {
	gateway       auth.Gateway
	storage       Storage
	logger        *slog.Logger
	allowDevLogin bool

	// writeMu serialises persist-then-apply sections so storage and
	// in-memory state change in the same order
	writeMu sync.Mutex

	mu      sync.Mutex
	state   Session
	seq     [numCategories]uint64
	subs    []subscriber
	nextSub int
}

// New creates a Store in the Unresolved state
func New(gateway auth.Gateway, storage Storage, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		gateway:       gateway,
		storage:       storage,
		logger:        logger,
		allowDevLogin: opts.AllowDevLogin,
		state:         Session{Status: Unresolved},
	}
}

// Snapshot returns the current session
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, empty when signed out
func (s *Store) Token() string {
	return s.Snapshot().Token
}

// Subscribe registers fn for every applied transition and returns an unsubscribe func
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// dispatch records a new action of category c and returns its sequence number
func (s *Store) dispatch(c category) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[c]++
	return s.seq[c]
}

func (s *Store) isCurrent(c category, n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[c] == n
}

// apply installs next if action n is still the latest of its category,
// then notifies subscribers. Callers hold writeMu.
func (s *Store) apply(c category, n uint64, next Session) error {
	s.mu.Lock()
	if s.seq[c] != n {
		s.mu.Unlock()
		return errStaleResult
	}
	s.state = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.logger.Debug("Session transition", "action", categoryNames[c], "status", next.Status.String())
	for _, sub := range subs {
		sub.fn(next)
	}
	return nil
}

// Hydrate loads the persisted session. Storage failures are treated as no session.
// Safe to call again; the result reflects the latest stored values.
func (s *Store) Hydrate(ctx context.Context) {
	n := s.dispatch(categoryHydrate)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := Session{Status: Anonymous}
	token, ok, err := s.storage.LoadToken(ctx)
	switch {
	case err != nil:
		s.logger.Warn("Failed to read stored token, starting signed out", "error", err)
	case ok:
		var user auth.UserProfile
		found, err := s.storage.LoadUser(ctx, &user)
		if err != nil {
			s.logger.Warn("Failed to read stored user, starting signed out", "error", err)
		} else if found && user.ID != "" {
			next = Session{Token: token, User: &user, Status: Authenticated}
		}
	}

	if err := s.apply(categoryHydrate, n, next); err != nil {
		s.logger.Debug("Hydrate result superseded")
	}
}

// DevLogin signs in through the development-only endpoint
func (s *Store) DevLogin(ctx context.Context, userID string) error {
	if !s.allowDevLogin {
		return &auth.AuthFailure{Message: "dev login is disabled in production"}
	}
	return s.login(ctx, func() (*auth.Credential, error) {
		return s.gateway.DevLogin(ctx, userID)
	})
}

// VerifyToken exchanges a one-time code for a session
func (s *Store) VerifyToken(ctx context.Context, code string) error {
	return s.login(ctx, func() (*auth.Credential, error) {
		return s.gateway.Verify(ctx, code)
	})
}

// RequestLink asks for a one-time code to be sent to email. Session state is unchanged.
func (s *Store) RequestLink(ctx context.Context, email string) error {
	if err := s.gateway.RequestLink(ctx, email); err != nil {
		return asFailure("failed to send magic link", err)
	}
	return nil
}

// login runs call and, if it is still the latest login when it resolves,
// persists the credential and transitions to Authenticated.
// Failures leave the session unchanged.
func (s *Store) login(ctx context.Context, call func() (*auth.Credential, error)) error {
	n := s.dispatch(categoryLogin)

	cred, err := call()
	if err != nil {
		return asFailure("login failed", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.isCurrent(categoryLogin, n) {
		s.logger.Debug("Login result superseded", "user_id", cred.User.ID)
		return nil
	}

	// Persistence failures don't void the in-memory session; the next
	// hydrate simply finds no complete session on disk.
	if err := s.storage.SaveToken(ctx, cred.Token); err != nil {
		s.logger.Warn("Failed to persist token", "error", err)
	}
	user := cred.User
	if err := s.storage.SaveUser(ctx, &user); err != nil {
		s.logger.Warn("Failed to persist user", "error", err)
	}

	if err := s.apply(categoryLogin, n, Session{Token: cred.Token, User: &user, Status: Authenticated}); err != nil {
		s.logger.Debug("Login result superseded", "user_id", user.ID)
		return nil
	}
	s.logger.Info("Signed in", "user_id", user.ID)
	return nil
}

// Logout clears storage and resets the session. It always ends Anonymous;
// storage failures are logged, each field having been attempted independently.
func (s *Store) Logout(ctx context.Context) {
	n := s.dispatch(categoryLogout)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.logoutLocked(ctx, n)
}

// HandleUnauthorized signs out when the backend rejects token and token is
// still the current session's. A rejection of an older session's token is ignored.
func (s *Store) HandleUnauthorized(ctx context.Context, token string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Snapshot()
	if current.Status != Authenticated || token == "" || current.Token != token {
		s.logger.Debug("Ignoring rejection of a token that is not current")
		return
	}
	s.logger.Warn("Session rejected by backend, signing out")
	s.logoutLocked(ctx, s.dispatch(categoryLogout))
}

// logoutLocked clears storage and applies Anonymous. Callers hold writeMu.
func (s *Store) logoutLocked(ctx context.Context, n uint64) {
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Warn("Failed to clear stored session", "error", err)
	}
	if err := s.apply(categoryLogout, n, Session{Status: Anonymous}); err != nil {
		s.logger.Debug("Logout result superseded")
		return
	}
	s.logger.Info("Signed out")
}

func asFailure(fallback string, err error) error {
	var af *auth.AuthFailure
	if errors.As(err, &af) {
		return af
	}
	return auth.NewFailure(fallback, err)
}
