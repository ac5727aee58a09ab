package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/embedding"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/retrieval"
	"github.com/TonySuccar/autogen-realestate/store"
)

func TestFAQRetrievalGroundsAnswer(t *testing.T) {
	embedder := embedding.NewMockEmbedder().
		AddVector("what documents do I need", []float64{1, 0, 0})

	kb := store.NewInMemoryKnowledgeBase(
		core.EmbeddingEntry{ID: 1, Question: "What documents do I need to buy a house?",
			Answer: "Identity, income proof and a pre-approval letter.", Vector: []float64{0.95, 0.05, 0}},
		core.EmbeddingEntry{ID: 2, Question: "How long does closing take?",
			Answer: "30-45 days.", Vector: []float64{0, 1, 0}},
		core.EmbeddingEntry{ID: 3, Question: "Do I need an inspection?",
			Answer: "Strongly recommended.", Vector: []float64{0, 0, 1}},
	)

	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_faq", Arguments: `{"query":"what documents do I need"}`},
		}}).
		Enqueue(model.Response{Text: "You need identity and income documents. TERMINATE"})

	f := NewFAQ(m, embedder, kb, retrieval.New(), WithTopK(2))
	outcome, err := f.Handle(context.Background(), newTurn("what documents do I need"))
	require.NoError(t, err)

	require.Len(t, outcome.ToolInvocations, 1)
	result := outcome.ToolInvocations[0].Result
	assert.Contains(t, result, "What documents do I need to buy a house?")
	assert.Contains(t, result, `"count":2`)
	assert.Contains(t, outcome.Response, "identity")
}

func TestFAQEmptyKnowledgeBase(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_faq", Arguments: `{"query":"anything"}`},
		}}).
		Enqueue(model.Response{Text: "I don't have information on that yet. TERMINATE"})

	f := NewFAQ(m, embedding.NewMockEmbedder(), store.NewInMemoryKnowledgeBase(), retrieval.New())
	outcome, err := f.Handle(context.Background(), newTurn("anything"))
	require.NoError(t, err)

	require.Len(t, outcome.ToolInvocations, 1)
	assert.Contains(t, outcome.ToolInvocations[0].Result, `"count":0`)
}

func TestFAQLowConfidenceFlag(t *testing.T) {
	embedder := embedding.NewMockEmbedder().
		AddVector("unrelated question", []float64{1, 0, 0})
	kb := store.NewInMemoryKnowledgeBase(
		core.EmbeddingEntry{ID: 1, Question: "q", Answer: "a", Vector: []float64{0, 1, 0}},
	)

	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_faq", Arguments: `{"query":"unrelated question"}`},
		}}).
		Enqueue(model.Response{Text: "I'm not certain about that. TERMINATE"})

	f := NewFAQ(m, embedder, kb, retrieval.New())
	outcome, err := f.Handle(context.Background(), newTurn("unrelated question"))
	require.NoError(t, err)

	require.Len(t, outcome.ToolInvocations, 1)
	assert.Contains(t, outcome.ToolInvocations[0].Result, `"low_confidence":true`)
}

// flakyEmbedder fails its first n calls, then delegates to the mock.
type flakyEmbedder struct {
	inner    *embedding.MockEmbedder
	failures int
	calls    int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("embedding backend unavailable")
	}
	return f.inner.Embed(ctx, text)
}

func TestFAQEmbedRetriedAfterTransientFailure(t *testing.T) {
	embedder := &flakyEmbedder{
		inner:    embedding.NewMockEmbedder().AddVector("how long does closing take", []float64{0, 1, 0}),
		failures: 1,
	}
	kb := store.NewInMemoryKnowledgeBase(
		core.EmbeddingEntry{ID: 1, Question: "How long does closing take?",
			Answer: "30-45 days.", Vector: []float64{0, 1, 0}},
	)

	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_faq", Arguments: `{"query":"how long does closing take"}`},
		}}).
		Enqueue(model.Response{Text: "Closing usually takes 30-45 days. TERMINATE"})

	f := NewFAQ(m, embedder, kb, retrieval.New())
	outcome, err := f.Handle(context.Background(), newTurn("how long does closing take"))
	require.NoError(t, err)

	assert.Equal(t, 2, embedder.calls)
	require.Len(t, outcome.ToolInvocations, 1)
	assert.Empty(t, outcome.ToolInvocations[0].Error)
	assert.Contains(t, outcome.ToolInvocations[0].Result, `"count":1`)
	assert.Equal(t, "Closing usually takes 30-45 days.", outcome.Response)
}

func TestFAQEmbedDoubleFailureDegrades(t *testing.T) {
	embedder := &flakyEmbedder{inner: embedding.NewMockEmbedder(), failures: 2}
	kb := store.NewInMemoryKnowledgeBase(
		core.EmbeddingEntry{ID: 1, Question: "q", Answer: "a", Vector: []float64{0, 1, 0}},
	)

	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_faq", Arguments: `{"query":"anything"}`},
		}})

	f := NewFAQ(m, embedder, kb, retrieval.New())
	outcome, err := f.Handle(context.Background(), newTurn("anything"))
	require.NoError(t, err)

	assert.Equal(t, 2, embedder.calls)
	assert.Equal(t, apologyResponse, outcome.Response)
	require.Len(t, outcome.ToolInvocations, 1)
	assert.Contains(t, outcome.ToolInvocations[0].Error, "provider embed failed")
	assert.Equal(t, 1, m.Calls())
}
