// Package session ties anonymous visitors to their carts.
//
// A visitor is identified by a cookie holding a random id. The registry keeps
// one live cart per id, bound to the storage slot cart.Key(id) and to the
// event topic named after the id.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/greenfield-poultry/farmshop/internal/cart"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

// Hooks supplies the per-session event sinks wired into each cart.
type Hooks interface {
	Notifier(topic string) cart.Notifier
	Refresher(topic string) func(count int)
}

// entry is one session's state. cart stays nil until the first successful restore.
type entry struct {
	cart     *cart.Cart
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Registry owns the live carts, one per session.
type Registry struct {
	mu      sync.Mutex
	store   storage.Store
	hooks   Hooks
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRateLimit sets the per-session mutation rate. A zero limit disables limiting.
func WithRateLimit(perSecond float64, burst int) RegistryOption {
	return func(r *Registry) {
		if perSecond <= 0 {
			r.limit = rate.Inf
		} else {
			r.limit = rate.Limit(perSecond)
		}
		r.burst = max(1, burst)
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry backed by store. hooks may be nil.
func NewRegistry(store storage.Store, hooks Hooks, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:   store,
		hooks:   hooks,
		entries: make(map[string]*entry),
		limit:   rate.Inf,
		burst:   1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cart returns the session's cart, restoring it from storage on first use.
// A failed restore is not cached, so the next request retries it.
func (r *Registry) Cart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	r.mu.Lock()
	if c := r.touch(sessionID).cart; c != nil {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	// Restore without holding mu; a racing request may win the insert below.
	c, err := cart.Load(ctx, r.store, cart.Key(sessionID), r.cartOptions(sessionID)...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.touch(sessionID)
	if e.cart == nil {
		e.cart = c
	}
	return e.cart, nil
}

// Allow reports whether the session may perform another rate-limited request now.
func (r *Registry) Allow(ctx context.Context, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touch(sessionID).limiter.Allow()
}

// touch returns the session's entry, creating it without a cart if needed,
// and marks it used. Caller holds mu.
func (r *Registry) touch(sessionID string) *entry {
	e, ok := r.entries[sessionID]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.entries[sessionID] = e
	}
	e.lastUsed = r.now()
	return e
}

func (r *Registry) cartOptions(sessionID string) []cart.Option {
	opts := []cart.Option{cart.WithLogger(slog.Default().With("session", sessionID))}
	if r.hooks != nil {
		opts = append(opts,
			cart.WithRefresh(r.hooks.Refresher(sessionID)),
			cart.WithNotifier(r.hooks.Notifier(sessionID)),
		)
	}
	return opts
}

// Sweep drops carts idle for longer than maxIdle from memory and returns how
// many were dropped. Their slots stay in storage and are restored on next use.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	if n > 0 {
		slog.Debug("session: swept idle carts", "dropped", n, "live", len(r.entries))
	}
	return n
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
