package realestate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/embedding"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/store"
)

func TestAssistantChat(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{Text: "Happy to help with your property search. TERMINATE"})

	a, err := New(
		WithModel(m),
		WithEmbedder(embedding.NewMockEmbedder()),
	)
	require.NoError(t, err)

	resp, err := a.Chat(context.Background(), "", "find me a house")
	require.NoError(t, err)

	assert.Equal(t, core.IntentSearch, resp.Capability)
	assert.Equal(t, "Happy to help with your property search.", resp.Response)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAssistantClearSession(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{Text: "Hello! TERMINATE"}).
		Enqueue(model.Response{Text: "Hello again! TERMINATE"})

	a, err := New(WithModel(m), WithEmbedder(embedding.NewMockEmbedder()))
	require.NoError(t, err)

	first, err := a.Chat(context.Background(), "", "hello")
	require.NoError(t, err)

	a.ClearSession(first.SessionID)

	second, err := a.Chat(context.Background(), first.SessionID, "hello")
	require.NoError(t, err)
	// Cleared sessions restart with empty history.
	reqs := m.Requests()
	assert.Len(t, reqs[1].Messages, 1)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestIndexEntries(t *testing.T) {
	embedder := embedding.NewMockEmbedder()
	entries, err := IndexEntries(context.Background(), embedder, store.SeedFAQ())
	require.NoError(t, err)

	require.Len(t, entries, len(store.SeedFAQ()))
	for _, e := range entries {
		assert.NotEmpty(t, e.Vector)
	}
}
