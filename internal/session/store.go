package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/auth"
	"github.com/wolfeidau/backoffice/internal/telemetry"
)

// TokenDecoder turns a bearer token into claims. *auth.Decoder implements it.
type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

// Snapshot is one consistent view of the session. Token, role and permissions
// always come from the same state change; consumers must read all three from
// a single snapshot rather than from the store field by field.
type Snapshot struct {
	Token       string
	Role        access.Role
	Subject     string
	ExpiresAt   time.Time
	Permissions access.ModuleSet

	// Version increases by one with every committed change.
	Version uint64
}

// Authenticated reports whether a token is present.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Resolved reports whether the role has been derived from the token.
func (s Snapshot) Resolved() bool {
	return s.Token != "" && s.Role != ""
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithOnClear registers fn to run every time the persisted session is wiped,
// whether by Logout or by a forced logout on an expired or invalid token.
// Data derived from the session, such as cached responses, is removed here.
func WithOnClear(fn func()) Option {
	return func(s *Store) {
		s.onClear = append(s.onClear, fn)
	}
}

// Store owns the current session. It is mutated only through Login and Logout
// and the decode step that follows every token change.
type Store struct {
	persister Persister
	decoder   TokenDecoder
	now       func() time.Time
	onClear   []func()

	// transition serializes state changes. Subscribers are notified after it
	// is released so they may call Login or Logout.
	transition sync.Mutex

	mu       sync.RWMutex
	current  Snapshot
	subs     map[uint64]func(Snapshot)
	nextSub  uint64
	queue    []Snapshot
	draining bool
}

// NewStore creates the store and hydrates it from persister. A stored token
// that is corrupted or expired leaves the store logged out and the persisted
// state wiped.
func NewStore(persister Persister, decoder TokenDecoder, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		decoder:   decoder,
		now:       time.Now,
		subs:      make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hydrate()

	return s
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to receive every committed snapshot, in commit order.
// fn runs on the goroutine that made the change, before Login or Logout
// returns. fn may itself call Login or Logout; the snapshots that call commits
// are delivered once fn returns. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login stores a freshly issued token and the tenant's module keys, then
// derives the role from the token. A token that cannot be decoded or has
// already expired ends in the logged out state; no error is returned.
func (s *Store) Login(token string, permissions []string) {
	defer s.notify()

	s.transition.Lock()
	defer s.transition.Unlock()

	if token == "" {
		log.Warn().Msg("login called without a token, clearing session")
		s.logoutLocked("logout")
		return
	}

	perms := access.NewModuleSet(permissions...)

	if err := s.persister.Save(&State{Token: token, Permissions: perms.Strings()}); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
	}

	telemetry.GetMetrics().RecordSessionTransition(context.Background(), "login")

	s.commit(Snapshot{Token: token, Permissions: perms})
	s.onTokenChange()
}

// Logout clears the token, role and permissions, in memory and on disk.
// Calling it when already logged out is a no-op apart from clearing storage.
func (s *Store) Logout() {
	defer s.notify()

	s.transition.Lock()
	defer s.transition.Unlock()

	s.logoutLocked("logout")
}

func (s *Store) hydrate() {
	defer s.notify()

	s.transition.Lock()
	defer s.transition.Unlock()

	state, err := s.persister.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Warn().Err(err).Msg("persisted session unreadable, starting logged out")
			s.logoutLocked("invalid")
		}
		return
	}

	telemetry.GetMetrics().RecordSessionTransition(context.Background(), "hydrate")

	s.commit(Snapshot{Token: state.Token, Permissions: access.NewModuleSet(state.Permissions...)})
	s.onTokenChange()
}

// onTokenChange derives the role from the current token. Must be called with
// transition held.
func (s *Store) onTokenChange() {
	snap := s.Snapshot()
	if snap.Token == "" {
		return
	}

	fingerprint := auth.Fingerprint(snap.Token)

	claims, err := s.decoder.Decode(snap.Token)
	if err != nil {
		log.Warn().Err(err).Str("token", fingerprint).Msg("invalid token, forcing logout")
		s.logoutLocked("invalid")
		return
	}

	if claims.Expired(s.now()) {
		log.Warn().
			Str("token", fingerprint).
			Time("expires_at", claims.ExpiresAt.Time).
			Msg("token expired, forcing logout")
		s.logoutLocked("expired")
		return
	}

	snap.Role = claims.AccessRole()
	snap.Subject = claims.Subject
	snap.ExpiresAt = claims.ExpiresAt.Time
	s.commit(snap)

	log.Debug().
		Str("token", fingerprint).
		Str("subject", snap.Subject).
		Str("role", snap.Role.String()).
		Strs("permissions", snap.Permissions.Strings()).
		Msg("session resolved")
}

// logoutLocked clears persisted and in-memory state. Must be called with
// transition held.
func (s *Store) logoutLocked(event string) {
	if err := s.persister.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear persisted session")
	}
	for _, fn := range s.onClear {
		fn()
	}

	if s.Snapshot().Authenticated() {
		telemetry.GetMetrics().RecordSessionTransition(context.Background(), event)
		s.commit(Snapshot{})
	}
}

// commit publishes next and queues it for subscribers. Must be called with
// transition held.
func (s *Store) commit(next Snapshot) {
	s.mu.Lock()
	next.Version = s.current.Version + 1
	s.current = next
	s.queue = append(s.queue, next)
	s.mu.Unlock()
}

// notify delivers queued snapshots in commit order. Only one goroutine
// delivers at a time; a nested call from a subscriber returns immediately and
// its snapshots are delivered by the outer loop.
func (s *Store) notify() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		fns := s.subscribers()
		s.mu.Unlock()

		for _, fn := range fns {
			fn(next)
		}

		s.mu.Lock()
	}

	s.draining = false
	s.mu.Unlock()
}

// subscribers returns the callbacks in subscription order. Must be called
// with mu held.
func (s *Store) subscribers() []func(Snapshot) {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	return fns
}
