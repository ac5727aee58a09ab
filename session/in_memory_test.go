package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonySuccar/autogen-realestate/core"
)

func TestAcquireCreatesSession(t *testing.T) {
	s := NewInMemoryStore()

	sess, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	release()

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, 1, s.Len())

	again, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	release()
	assert.Same(t, sess, again)
}

func TestAcquireReplacesInvalidID(t *testing.T) {
	s := NewInMemoryStore()

	for _, id := range []string{"", "has space", "ctrl\x00char", string(make([]byte, 200))} {
		sess, release, err := s.Acquire(id)
		require.NoError(t, err)
		release()
		assert.NotEqual(t, id, sess.ID)
		assert.NotEmpty(t, sess.ID)
	}
}

func TestAcquireSerializesTurns(t *testing.T) {
	s := NewInMemoryStore()

	sess, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	sess.AppendTurn(core.NewMessage(core.RoleUser, "first"))

	acquired := make(chan *core.Session)
	go func() {
		other, otherRelease, err := s.Acquire("sess-1")
		assert.NoError(t, err)
		defer otherRelease()
		acquired <- other
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire should block while the first turn is in flight")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case other := <-acquired:
		assert.Len(t, other.History(), 1)
	case <-time.After(time.Second):
		t.Fatal("second Acquire never proceeded")
	}
}

func TestAcquireExpiresIdleSession(t *testing.T) {
	now := time.Now()
	s := NewInMemoryStore(WithIdleTTL(10 * time.Minute))
	s.now = func() time.Time { return now }

	sess, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	sess.AppendTurn(core.NewMessage(core.RoleUser, "hello"))
	release()

	now = now.Add(11 * time.Minute)
	fresh, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	release()

	assert.Equal(t, "sess-1", fresh.ID)
	assert.Empty(t, fresh.History(), "expired session should restart with a clean history")
}

func TestSweepDiscardsIdleSessions(t *testing.T) {
	now := time.Now()
	s := NewInMemoryStore(WithIdleTTL(10 * time.Minute))
	s.now = func() time.Time { return now }

	_, release, err := s.Acquire("stale")
	require.NoError(t, err)
	release()

	now = now.Add(11 * time.Minute)
	_, release, err = s.Acquire("fresh")
	require.NoError(t, err)
	release()

	s.sweep()
	assert.Equal(t, 1, s.Len())
}

func TestSweepSkipsInFlightTurn(t *testing.T) {
	now := time.Now()
	s := NewInMemoryStore(WithIdleTTL(10 * time.Minute))
	s.now = func() time.Time { return now }

	_, release, err := s.Acquire("busy")
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	s.sweep()
	assert.Equal(t, 1, s.Len(), "a session with a turn in flight must not be swept")

	release()
}

func TestDelete(t *testing.T) {
	s := NewInMemoryStore()
	_, release, err := s.Acquire("sess-1")
	require.NoError(t, err)
	release()

	s.Delete("sess-1")
	assert.Zero(t, s.Len())
}
