// Package openai implements embedding.Embedder over the OpenAI Embeddings
// API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/TonySuccar/autogen-realestate/embedding"
)

// Options configure the OpenAI embedding adapter.
type Options struct {
	Model openai.EmbeddingModel
}

// Embedder wraps the OpenAI Embeddings API behind embedding.Embedder.
type Embedder struct {
	client *openai.Client
	opts   Options
}

var _ embedding.Embedder = (*Embedder)(nil)

// NewEmbedder creates an OpenAI embedder using the default client (API key
// from the environment).
func NewEmbedder(optFns ...func(o *Options)) *Embedder {
	client := openai.NewClient()
	return NewEmbedderFromClient(&client, optFns...)
}

// NewEmbedderFromClient creates an OpenAI embedder from an existing client.
func NewEmbedderFromClient(client *openai.Client, optFns ...func(o *Options)) *Embedder {
	opts := Options{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{client: client, opts: opts}
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: e.opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings error: empty response")
	}
	return resp.Data[0].Embedding, nil
}
