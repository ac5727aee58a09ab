// Package retrieval ranks knowledge-base entries against a query vector by
// cosine similarity. Search is pure: it never mutates the corpus and holds no
// state between calls.
package retrieval

import (
	"math"
	"sort"

	"github.com/TonySuccar/autogen-realestate/core"
)

// DefaultLowScoreThreshold marks results whose similarity falls below it as
// low confidence, letting callers caveat the answer. Tunable via
// WithLowScoreThreshold.
const DefaultLowScoreThreshold = 0.30

// CosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]: the dot product divided by the product of magnitudes. Vectors of
// different lengths or zero magnitude yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Options tune a Retriever.
type Options struct {
	LowScoreThreshold float64
}

// WithLowScoreThreshold overrides the low-confidence cutoff.
func WithLowScoreThreshold(t float64) func(o *Options) {
	return func(o *Options) { o.LowScoreThreshold = t }
}

// Retriever computes top-K similarity rankings over embedding corpora.
type Retriever struct {
	opts Options
}

// New constructs a Retriever with optional overrides.
func New(optFns ...func(o *Options)) *Retriever {
	opts := Options{LowScoreThreshold: DefaultLowScoreThreshold}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Retriever{opts: opts}
}

// Search returns the min(topK, len(corpus)) entries most similar to the query
// vector, ordered by non-increasing score. Equal scores keep corpus iteration
// order. A non-positive topK returns nil.
func (r *Retriever) Search(queryVector []float64, corpus []core.EmbeddingEntry, topK int) []core.RetrievalResult {
	if topK <= 0 || len(corpus) == 0 {
		return nil
	}

	results := make([]core.RetrievalResult, len(corpus))
	for i, entry := range corpus {
		results[i] = core.RetrievalResult{
			Entry: entry,
			Score: CosineSimilarity(queryVector, entry.Vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
		results[i].LowConfidence = results[i].Score < r.opts.LowScoreThreshold
	}
	return results
}
