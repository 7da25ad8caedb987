// ABOUTME: In-memory cache of server data with TTL-based expiration
// ABOUTME: Deduplicates concurrent fetches per key and notifies watchers on invalidation

package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Well-known keys
const (
	KeyFollows   = "follows"
	KeyDashboard = "dashboard"
)

// FixtureKey is the cache key for a single fixture
func FixtureKey(id string) string { return "fixture:" + id }

// FixtureEventsKey is the cache key for a fixture's event timeline
func FixtureEventsKey(id string) string { return "fixture:" + id + ":events" }

// TeamFixturesKey is the cache key for a team's fixture list
func TeamFixturesKey(id string) string { return "team:" + id + ":fixtures" }

// SearchKey is the cache key for a team search
func SearchKey(q string) string { return "search:" + strings.ToLower(strings.TrimSpace(q)) }

type entry struct {
	data      interface{}
	expiresAt time.Time
	stale     bool
}

// Fetcher loads the value for a key from the server
type Fetcher func(ctx context.Context) (interface{}, error)

// Cache holds the client's snapshot of server data
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	gens     map[string]uint64
	inflight map[string]int
	watchers map[string]map[int]chan struct{}
	nextID   int
	// epoch advances on Clear; fetches started in an older epoch are never stored
	epoch uint64

	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	stop   chan struct{}
	once   sync.Once
}

// New creates a cache and starts its expiry sweeper. Call Close to stop it.
func New(ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		entries:  make(map[string]*entry),
		gens:     make(map[string]uint64),
		inflight: make(map[string]int),
		watchers: make(map[string]map[int]chan struct{}),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Close stops the sweeper
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Get returns a fresh value for key
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.logger.Debug("Cache miss", "key", key)
		return nil, false
	}
	if e.stale || time.Now().After(e.expiresAt) {
		c.logger.Debug("Cache stale", "key", key)
		return nil, false
	}

	c.logger.Debug("Cache hit", "key", key)
	return e.data, true
}

// Peek returns the last known value for key even if stale or expired
func (c *Cache) Peek(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Set stores a value with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = &entry{data: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	c.logger.Debug("Cache set", "key", key, "ttl", ttl)
}

// Fetch returns the cached value for key, calling fn on a miss.
// Concurrent fetches of the same key share one call to fn.
// A value fetched across an invalidation is returned but stored stale;
// one fetched across a Clear is returned to its callers and dropped.
func (c *Cache) Fetch(ctx context.Context, key string, fn Fetcher) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	st := c.stamp(key)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.begin(key)
		v, err := fn(context.WithoutCancel(ctx))
		c.finish(key, v, err, st)
		return v, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Cache fetch shared", "key", key)
		}
		return res.Val, res.Err
	}
}

// Query is a typed Fetch
func Query[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %s holds %T, not %T", key, v, zero)
	}
	return typed, nil
}

// Invalidate marks key stale so the next read refetches, and wakes its watchers
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	c.invalidateLocked(key)
	c.mu.Unlock()
	c.logger.Debug("Cache invalidated", "key", key)
}

// InvalidatePrefix invalidates every known or watched key starting with prefix
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			seen[key] = true
		}
	}
	for key := range c.watchers {
		if strings.HasPrefix(key, prefix) {
			seen[key] = true
		}
	}
	for key := range seen {
		c.invalidateLocked(key)
	}
}

func (c *Cache) invalidateLocked(key string) {
	c.gens[key]++
	// later fetches must not join a call that started before the invalidation
	c.group.Forget(key)
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
	for _, ch := range c.watchers[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Remove deletes key without notifying watchers
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	delete(c.entries, key)
}

// Clear drops all cached data, e.g. when the signed-in user changes.
// Fetches still in flight are detached so later reads start fresh calls.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for key := range c.inflight {
		c.group.Forget(key)
	}
	c.entries = make(map[string]*entry)
}

// Subscribe returns a channel that receives after each invalidation of key.
// Notifications coalesce; a slow reader sees at most one pending signal.
func (c *Cache) Subscribe(key string) (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan struct{}, 1)
	if c.watchers[key] == nil {
		c.watchers[key] = make(map[int]chan struct{})
	}
	c.watchers[key][id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.watchers[key], id)
		if len(c.watchers[key]) == 0 {
			delete(c.watchers, key)
		}
	}
}

// fetchStamp records the cache state a fetch started in
type fetchStamp struct {
	epoch uint64
	gen   uint64
}

func (c *Cache) stamp(key string) fetchStamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fetchStamp{epoch: c.epoch, gen: c.gens[key]}
}

func (c *Cache) begin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]++
}

func (c *Cache) finish(key string, v interface{}, err error, st fetchStamp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
	if err != nil {
		return
	}
	if st.epoch != c.epoch {
		c.logger.Debug("Dropping fetch from before cache clear", "key", key)
		return
	}
	c.entries[key] = &entry{
		data:      v,
		expiresAt: time.Now().Add(c.ttl),
		stale:     c.gens[key] != st.gen,
	}
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep drops entries expired longer than one TTL ago; recently expired
// entries stay available to Peek.
func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt.Add(c.ttl)) {
			delete(c.entries, key)
		}
	}
}
