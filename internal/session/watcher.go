// Package session keeps the client's view of the provider session and pushes
// changes to subscribers.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ichthyo-signup/internal/authclient"
	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/pubsub"
)

const (
	cacheKey = "current"

	DefaultPollInterval = 5 * time.Second
	DefaultCacheTTL     = 30 * time.Second
)

// Snapshot is the session as last seen. A nil User means anonymous.
type Snapshot struct {
	User      *authclient.User
	SessionID string
	ExpiresAt time.Time
}

func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

func (s Snapshot) sameAs(o Snapshot) bool {
	if s.Authenticated() != o.Authenticated() {
		return false
	}
	if !s.Authenticated() {
		return true
	}
	return s.User.ID == o.User.ID && s.SessionID == o.SessionID
}

type Event = pubsub.Event[Snapshot]

// Fetcher is the provider's session lookup.
type Fetcher interface {
	GetSession(ctx context.Context) (*authclient.Session, error)
}

// Watcher polls the provider and publishes a Snapshot whenever the session
// appears, disappears or changes hands.
type Watcher struct {
	fetcher  Fetcher
	interval time.Duration
	ttl      time.Duration
	log      logging.Logger
	now      func() time.Time

	broker *pubsub.Broker[Snapshot]
	cache  *gocache.Cache

	mu        sync.Mutex
	last      Snapshot
	published bool
}

type Option func(*Watcher)

func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

func WithCacheTTL(d time.Duration) Option {
	return func(w *Watcher) { w.ttl = d }
}

func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

func NewWatcher(f Fetcher, opts ...Option) *Watcher {
	w := &Watcher{
		fetcher:  f,
		interval: DefaultPollInterval,
		ttl:      DefaultCacheTTL,
		log:      logging.Discard(),
		now:      time.Now,
		broker:   pubsub.NewLatestBroker[Snapshot](),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.cache = gocache.New(w.ttl, 0)
	return w
}

// Subscribe returns a channel of session changes. The latest known snapshot
// is replayed first. The channel closes when ctx is done.
func (w *Watcher) Subscribe(ctx context.Context) <-chan Event {
	return w.broker.Subscribe(ctx)
}

// Current returns the cached snapshot, fetching it when the cache is cold or
// the cached session has passed its expiry.
func (w *Watcher) Current(ctx context.Context) (Snapshot, error) {
	if v, ok := w.cache.Get(cacheKey); ok {
		if s, ok := v.(Snapshot); ok && !w.expired(s) {
			return s, nil
		}
	}
	return w.Refresh(ctx)
}

// Refresh fetches the session now, caches it and publishes it if it differs
// from the last published snapshot.
func (w *Watcher) Refresh(ctx context.Context) (Snapshot, error) {
	sess, err := w.fetcher.GetSession(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get session: %w", err)
	}

	snap, ttl := w.snapshotOf(ctx, sess)
	w.cache.Set(cacheKey, snap, ttl)

	w.mu.Lock()
	changed := !w.published || !w.last.sameAs(snap)
	if changed {
		w.last = snap
		w.published = true
	}
	w.mu.Unlock()

	if changed {
		w.log.Debug(ctx, "session changed", "authenticated", snap.Authenticated())
		w.broker.Publish(pubsub.Changed, snap)
	}
	return snap, nil
}

// Run checks the session immediately and then on every poll interval until
// ctx is done. A warm cache entry answers without a fetch. Fetch failures
// are logged and the last snapshot is kept.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Current(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn(ctx, "session refresh failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Watcher) Close() {
	w.broker.Close()
}

func (w *Watcher) expired(s Snapshot) bool {
	return s.Authenticated() && !s.ExpiresAt.IsZero() && !w.now().Before(s.ExpiresAt)
}

// snapshotOf converts a provider session and works out how long it may be
// cached. The session expires at the earlier of the provider's expiresAt and
// the JWT exp claim; an expired session is anonymous, a live one is cached
// no longer than it has left.
func (w *Watcher) snapshotOf(ctx context.Context, sess *authclient.Session) (Snapshot, time.Duration) {
	if sess == nil || sess.User == nil {
		return Snapshot{}, w.ttl
	}

	snap := Snapshot{
		User:      sess.User,
		SessionID: sess.Session.ID,
		ExpiresAt: sess.Session.ExpiresAt,
	}
	if sess.JWT != "" {
		claims, err := ParseClaims(sess.JWT)
		switch {
		case err != nil:
			w.log.Warn(ctx, "ignoring unreadable session token", "err", err)
		case claims.ExpiresAt != nil:
			exp := claims.ExpiresAt.Time
			if snap.ExpiresAt.IsZero() || exp.Before(snap.ExpiresAt) {
				snap.ExpiresAt = exp
			}
		}
	}

	if snap.ExpiresAt.IsZero() {
		return snap, w.ttl
	}
	left := snap.ExpiresAt.Sub(w.now())
	if left <= 0 {
		w.log.Info(ctx, "session expired", "session_id", snap.SessionID, "expired_at", snap.ExpiresAt)
		return Snapshot{}, w.ttl
	}
	if left < w.ttl {
		return snap, left
	}
	return snap, w.ttl
}
