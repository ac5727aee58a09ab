package session

import (
	"context"
	"sync"
	"time"
	"unicode"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/logging"
)

// DefaultIdleTTL is how long a session survives without a turn before the
// janitor discards it.
const DefaultIdleTTL = 30 * time.Minute

// maxIDLength bounds caller-supplied identifiers; anything longer is treated
// as malformed.
const maxIDLength = 128

type entry struct {
	turnMu   sync.Mutex // serializes turns for this session
	sess     *core.Session
	lastSeen time.Time
}

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. Locking is partitioned: the store mutex only guards the map,
// while each session carries its own turn mutex, so one session's turn never
// blocks another's.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	logger  logging.Logger
	now     func() time.Time
}

// Options configure the in-memory store.
type Options struct {
	IdleTTL time.Duration
	Logger  logging.Logger
}

// NewInMemoryStore constructs an empty store. Start must be called to enable
// idle expiry; without it sessions live until deleted.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{IdleTTL: DefaultIdleTTL}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		entries: make(map[string]*entry),
		ttl:     opts.IdleTTL,
		logger:  logging.OrNoOp(opts.Logger),
		now:     time.Now,
	}
}

// WithIdleTTL overrides the idle expiry period.
func WithIdleTTL(d time.Duration) func(o *Options) {
	return func(o *Options) { o.IdleTTL = d }
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Acquire returns the session for id with its turn lock held, creating a
// fresh one for unseen, malformed or expired identifiers. The caller must
// invoke the release function when the turn completes. A malformed id is
// replaced by a server-generated one; the returned session's ID is
// authoritative.
func (s *InMemoryStore) Acquire(id string) (*core.Session, func(), error) {
	if !validID(id) {
		id = core.NewID()
		s.logger.Debug("session.id.replaced", "reason", core.ErrInvalidSession.Error(), "new_id", id)
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{sess: core.NewSession(id), lastSeen: s.now()}
		s.entries[id] = e
		s.logger.Info("session.created", "session_id", id)
	}
	s.mu.Unlock()

	e.turnMu.Lock()
	if s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl {
		// Idle past the TTL but not yet swept: start over with a clean
		// history under the same identifier.
		e.sess = core.NewSession(id)
		s.logger.Info("session.expired", "session_id", id)
	}
	e.lastSeen = s.now()

	release := func() {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && cur == e {
			e.lastSeen = s.now()
		}
		s.mu.Unlock()
		e.turnMu.Unlock()
	}
	return e.sess, release, nil
}

// Delete removes a session immediately.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Start launches the idle-expiry janitor. It stops when ctx is cancelled.
func (s *InMemoryStore) Start(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// sweep discards sessions idle past the TTL. Sessions with a turn in flight
// are skipped and revisited on the next pass.
func (s *InMemoryStore) sweep() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.lastSeen.After(cutoff) {
			continue
		}
		if !e.turnMu.TryLock() {
			continue
		}
		delete(s.entries, id)
		e.turnMu.Unlock()
		s.logger.Info("session.swept", "session_id", id)
	}
}

// validID accepts non-empty printable identifiers up to maxIDLength runes.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
