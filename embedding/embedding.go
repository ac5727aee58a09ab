// Package embedding defines the embedding-provider abstraction: a blocking
// call turning text into a fixed-length vector. The retriever consumes
// vectors only; how they are produced stays behind this interface. Provider
// adapters live in subpackages; MockEmbedder supports tests.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates a fixed-length vector representation of text. Calls
// block until completion or ctx expiry.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// MockEmbedder produces deterministic unit vectors derived from the input
// text, or exact vectors registered per input. Dimensions defaults to 8.
type MockEmbedder struct {
	Dimensions int
	fixed      map[string][]float64
}

// NewMockEmbedder constructs a MockEmbedder with 8 dimensions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimensions: 8, fixed: make(map[string][]float64)}
}

// AddVector registers an exact vector for an input text.
func (m *MockEmbedder) AddVector(text string, vec []float64) *MockEmbedder {
	m.fixed[text] = vec
	return m
}

// Embed implements Embedder. Unregistered inputs hash into a repeatable
// unit vector so equal texts always embed identically.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if vec, ok := m.fixed[text]; ok {
		out := make([]float64, len(vec))
		copy(out, vec)
		return out, nil
	}
	dims := m.Dimensions
	if dims <= 0 {
		dims = 8
	}
	vec := make([]float64, dims)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float64(int64(seed>>11)) / float64(1<<52)
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}
