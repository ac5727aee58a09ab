package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/store"
)

func newTurn(message string) *Turn {
	return &Turn{Session: core.NewSession("sess-1"), Message: message}
}

func TestSearchSingleRound(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{Text: "We have several listings available. TERMINATE", FinishReason: "stop"})
	search := NewSearch(m, store.NewInMemoryCatalog(store.SeedProperties()...))

	outcome, err := search.Handle(context.Background(), newTurn("find me an apartment"))
	require.NoError(t, err)

	assert.Equal(t, "We have several listings available.", outcome.Response)
	assert.Equal(t, 1, outcome.RoundsUsed)
	assert.False(t, outcome.Truncated)
	assert.Empty(t, outcome.ToolInvocations)
}

func TestSearchToolRound(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "search_properties", Arguments: `{"city":"New York"}`},
		}}).
		Enqueue(model.Response{Text: "Two properties in New York. TERMINATE"})
	search := NewSearch(m, store.NewInMemoryCatalog(store.SeedProperties()...))

	outcome, err := search.Handle(context.Background(), newTurn("show properties in new york"))
	require.NoError(t, err)

	assert.Equal(t, "Two properties in New York.", outcome.Response)
	assert.Equal(t, 2, outcome.RoundsUsed)
	require.Len(t, outcome.ToolInvocations, 1)
	assert.Equal(t, "search_properties", outcome.ToolInvocations[0].Name)
	assert.Contains(t, outcome.ToolInvocations[0].Result, "Luxury Downtown Apartment")

	// The second request carried the tool result back to the model.
	reqs := m.Requests()
	require.Len(t, reqs, 2)
	last := reqs[1].Messages[len(reqs[1].Messages)-1]
	assert.Equal(t, core.RoleTool, last.Role)
	require.NotNil(t, last.ToolResult)
	assert.Equal(t, "call-1", last.ToolResult.CallID)
}

func TestEmptyModelReplyGetsFallbackText(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{Text: "", FinishReason: "stop"})
	search := NewSearch(m, store.NewInMemoryCatalog(store.SeedProperties()...))

	outcome, err := search.Handle(context.Background(), newTurn("find me an apartment"))
	require.NoError(t, err)

	assert.Equal(t, "I wasn't able to complete that request. Could you rephrase or provide more detail?", outcome.Response)
	assert.Equal(t, 1, outcome.RoundsUsed)
}

func TestRoundCapSynthesizesClose(t *testing.T) {
	m := model.NewMockModel()
	// Every response demands another tool call, so only the cap ends the loop.
	m.Fallback = model.Response{ToolCalls: []model.ToolCall{
		{ID: "call-x", Name: "search_properties", Arguments: `{}`},
	}}
	search := NewSearch(m, store.NewInMemoryCatalog(store.SeedProperties()...), WithMaxRounds(3))

	outcome, err := search.Handle(context.Background(), newTurn("find everything"))
	require.NoError(t, err)

	assert.True(t, outcome.Truncated)
	assert.Equal(t, 3, outcome.RoundsUsed)
	assert.Equal(t, 3, m.Calls())
	assert.NotEmpty(t, outcome.Response, "round-cap termination still produces a usable reply")
	assert.Len(t, outcome.ToolInvocations, 3)
}

func TestProviderRetryOnceThenSucceed(t *testing.T) {
	m := model.NewMockModel().
		EnqueueError(errors.New("transient upstream error")).
		Enqueue(model.Response{Text: "Recovered fine. TERMINATE"})
	general := NewGeneral(m)

	outcome, err := general.Handle(context.Background(), newTurn("hello"))
	require.NoError(t, err)

	assert.Equal(t, "Recovered fine.", outcome.Response)
	assert.Equal(t, 2, m.Calls())
}

func TestProviderDoubleFailureDegradesToApology(t *testing.T) {
	m := model.NewMockModel().
		EnqueueError(errors.New("boom")).
		EnqueueError(errors.New("boom again"))
	general := NewGeneral(m)

	outcome, err := general.Handle(context.Background(), newTurn("hello"))
	require.NoError(t, err, "provider failure must degrade, not abort the turn")

	assert.Equal(t, apologyResponse, outcome.Response)
	assert.Equal(t, 2, m.Calls())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	general := NewGeneral(model.NewMockModel())
	_, err := general.Handle(ctx, newTurn("hello"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnknownToolReportedToModel(t *testing.T) {
	m := model.NewMockModel().
		Enqueue(model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "no_such_tool", Arguments: `{}`},
		}}).
		Enqueue(model.Response{Text: "Understood. TERMINATE"})
	general := NewGeneral(m)

	outcome, err := general.Handle(context.Background(), newTurn("hello"))
	require.NoError(t, err)

	require.Len(t, outcome.ToolInvocations, 1)
	assert.Contains(t, outcome.ToolInvocations[0].Error, "unknown tool")
	assert.Equal(t, "Understood.", outcome.Response)
}

func TestStripMarker(t *testing.T) {
	text, done := stripMarker("All set. TERMINATE")
	assert.True(t, done)
	assert.Equal(t, "All set.", text)

	text, done = stripMarker("still working")
	assert.False(t, done)
	assert.Equal(t, "still working", text)
}
