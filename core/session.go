package core

import (
	"sync"
	"time"
)

// Clarification marks a question the assistant asked the user and is waiting
// on. While set, the next user message is routed back to the originating
// capability instead of being reclassified from scratch.
type Clarification struct {
	Capability Intent   `json:"capability"`
	Query      string   `json:"query"`    // the reference that resolved ambiguously
	Question   string   `json:"question"` // the question shown to the user
	Options    []string `json:"options"`  // candidate titles, ranked
}

// Session is a per-conversation container tracking the ordered turn history,
// the last classified intent, an optional pending clarification and the round
// counter of the in-flight turn. It is safe for concurrent access.
//
// Contract:
//   - Turn history grows append-only; messages are immutable
//   - History returns a defensive copy
//   - The round counter is reset by the orchestrator at the end of each turn
type Session struct {
	ID      string
	Created time.Time
	Updated time.Time

	mu         sync.RWMutex
	turns      []Message
	lastIntent Intent
	pending    *Clarification
	rounds     int
}

// NewSession creates an empty session with the given identifier.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, Created: now, Updated: now}
}

// AppendTurn appends a message to the turn history.
func (s *Session) AppendTurn(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, m)
	s.Updated = time.Now().UTC()
}

// History returns a defensive copy of the full turn history.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.turns))
	copy(out, s.turns)
	return out
}

// ConversationHistory returns the turns suitable as model context: user and
// assistant messages only, tool and system entries excluded.
func (s *Session) ConversationHistory() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, len(s.turns))
	for _, m := range s.turns {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

// SetLastIntent records the capability the current turn was dispatched to.
func (s *Session) SetLastIntent(i Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIntent = i
	s.Updated = time.Now().UTC()
}

// LastIntent returns the most recently recorded capability tag.
func (s *Session) LastIntent() Intent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastIntent
}

// SetPending stores a pending clarification marker.
func (s *Session) SetPending(c *Clarification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = c
	s.Updated = time.Now().UTC()
}

// Pending returns the pending clarification, or nil.
func (s *Session) Pending() *Clarification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// ClearPending removes the pending clarification marker.
func (s *Session) ClearPending() { s.SetPending(nil) }

// IncrementRound bumps the round counter of the in-flight turn and returns
// the new value.
func (s *Session) IncrementRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds++
	return s.rounds
}

// Rounds returns the current round counter.
func (s *Session) Rounds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rounds
}

// ResetRounds zeroes the round counter for the next turn.
func (s *Session) ResetRounds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = 0
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Created: s.Created, Updated: s.Updated, lastIntent: s.lastIntent, rounds: s.rounds}
	clone.turns = make([]Message, len(s.turns))
	copy(clone.turns, s.turns)
	if s.pending != nil {
		p := *s.pending
		p.Options = append([]string(nil), s.pending.Options...)
		clone.pending = &p
	}
	return clone
}

// SessionStore persists sessions keyed by identifier and serializes turns per
// session: Acquire blocks while another turn for the same identifier is in
// flight and returns the live session together with a release function.
// Turns for distinct identifiers proceed in parallel.
//
// An unknown, malformed or expired identifier yields a fresh session rather
// than an error; the returned session's ID is authoritative.
type SessionStore interface {
	Acquire(id string) (*Session, func(), error)
	Delete(id string)
}
