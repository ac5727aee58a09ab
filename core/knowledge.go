package core

import "context"

// EmbeddingEntry is a knowledge-base record paired with its precomputed
// fixed-length embedding vector. Entries are immutable snapshots supplied by
// the knowledge-base collaborator per retrieval call; retrieval never writes
// them.
type EmbeddingEntry struct {
	ID       int64     `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Tags     []string  `json:"tags,omitempty"`
	Vector   []float64 `json:"vector"`
}

// RetrievalResult ranks a knowledge-base entry against a query vector.
// Score is cosine similarity in [-1, 1]; Rank starts at 1.
type RetrievalResult struct {
	Entry         EmbeddingEntry `json:"entry"`
	Score         float64        `json:"score"`
	Rank          int            `json:"rank"`
	LowConfidence bool           `json:"low_confidence,omitempty"`
}

// KnowledgeBase supplies the retrieval corpus.
type KnowledgeBase interface {
	// AllEntries returns every entry that carries an embedding vector.
	AllEntries(ctx context.Context) ([]EmbeddingEntry, error)
}
