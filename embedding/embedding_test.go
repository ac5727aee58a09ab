package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.Embed(ctx, "what is a mortgage")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "what is a mortgage")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := m.Embed(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestMockEmbedderUnitVector(t *testing.T) {
	m := NewMockEmbedder()
	vec, err := m.Embed(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, vec, 8)

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestMockEmbedderFixedVector(t *testing.T) {
	m := NewMockEmbedder().AddVector("known", []float64{1, 2, 3})
	vec, err := m.Embed(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)

	// Returned slice is a copy; mutating it does not affect later calls.
	vec[0] = 99
	again, err := m.Embed(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, again)
}

func TestMockEmbedderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockEmbedder().Embed(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
