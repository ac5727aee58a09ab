package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionHistoryIsDefensivelyCopied(t *testing.T) {
	s := NewSession("sess-1")
	s.AppendTurn(NewMessage(RoleUser, "hello"))

	h := s.History()
	h[0].Text = "mutated"

	assert.Equal(t, "hello", s.History()[0].Text)
}

func TestConversationHistoryFiltersRoles(t *testing.T) {
	s := NewSession("sess-1")
	s.AppendTurn(NewMessage(RoleUser, "u1"))
	s.AppendTurn(NewMessage(RoleTool, "tool output"))
	s.AppendTurn(NewMessage(RoleSystem, "sys"))
	s.AppendTurn(NewMessage(RoleAssistant, "a1"))

	h := s.ConversationHistory()
	assert.Len(t, h, 2)
	assert.Equal(t, RoleUser, h[0].Role)
	assert.Equal(t, RoleAssistant, h[1].Role)
}

func TestSessionRoundCounter(t *testing.T) {
	s := NewSession("sess-1")
	assert.Equal(t, 1, s.IncrementRound())
	assert.Equal(t, 2, s.IncrementRound())
	assert.Equal(t, 2, s.Rounds())

	s.ResetRounds()
	assert.Zero(t, s.Rounds())
}

func TestSessionPending(t *testing.T) {
	s := NewSession("sess-1")
	assert.Nil(t, s.Pending())

	c := &Clarification{Capability: IntentBooking, Query: "apartment", Options: []string{"a", "b"}}
	s.SetPending(c)
	assert.Equal(t, c, s.Pending())

	s.ClearPending()
	assert.Nil(t, s.Pending())
}

func TestSessionClone(t *testing.T) {
	s := NewSession("sess-1")
	s.AppendTurn(NewMessage(RoleUser, "hello"))
	s.SetPending(&Clarification{Query: "q", Options: []string{"a"}})

	clone := s.Clone()
	clone.AppendTurn(NewMessage(RoleAssistant, "extra"))
	clone.Pending().Options[0] = "changed"

	assert.Len(t, s.History(), 1)
	assert.Equal(t, "a", s.Pending().Options[0])
}

func TestIntentValid(t *testing.T) {
	for _, i := range []Intent{IntentSearch, IntentBooking, IntentFAQ, IntentGeneral} {
		assert.True(t, i.Valid())
	}
	assert.False(t, Intent("billing").Valid())
	assert.False(t, Intent("").Valid())
}
