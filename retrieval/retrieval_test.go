package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TonySuccar/autogen-realestate/core"
)

func TestCosineSimilarity(t *testing.T) {
	v := []float64{0.3, -0.4, 0.5}

	// Self similarity is 1 regardless of magnitude.
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)

	// Symmetric.
	w := []float64{1, 2, 3}
	assert.InDelta(t, CosineSimilarity(v, w), CosineSimilarity(w, v), 1e-12)

	// Orthogonal vectors score 0.
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)

	// Opposite vectors score -1.
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// Length mismatch and zero magnitude degrade to 0.
	assert.Zero(t, CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func corpus() []core.EmbeddingEntry {
	return []core.EmbeddingEntry{
		{ID: 1, Question: "q1", Vector: []float64{1, 0, 0}},
		{ID: 2, Question: "q2", Vector: []float64{0.9, 0.1, 0}},
		{ID: 3, Question: "q3", Vector: []float64{0, 1, 0}},
		{ID: 4, Question: "q4", Vector: []float64{0, 0, 1}},
	}
}

func TestSearchOrdering(t *testing.T) {
	r := New()
	results := r.Search([]float64{1, 0, 0}, corpus(), 4)

	assert.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		assert.Equal(t, i+1, results[i].Rank)
	}
	assert.Equal(t, int64(1), results[0].Entry.ID)
	assert.Equal(t, int64(2), results[1].Entry.ID)
}

func TestSearchTopK(t *testing.T) {
	r := New()

	assert.Len(t, r.Search([]float64{1, 0, 0}, corpus(), 2), 2)
	// topK larger than the corpus returns everything.
	assert.Len(t, r.Search([]float64{1, 0, 0}, corpus(), 10), 4)
	assert.Nil(t, r.Search([]float64{1, 0, 0}, corpus(), 0))
	assert.Nil(t, r.Search([]float64{1, 0, 0}, nil, 3))
}

func TestSearchLowConfidence(t *testing.T) {
	r := New(WithLowScoreThreshold(0.5))
	results := r.Search([]float64{1, 0, 0}, corpus(), 4)

	assert.False(t, results[0].LowConfidence)
	assert.True(t, results[3].LowConfidence)
}
