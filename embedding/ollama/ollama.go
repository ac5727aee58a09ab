// Package ollama implements embedding.Embedder against a local Ollama
// server's embeddings endpoint over plain HTTP.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TonySuccar/autogen-realestate/embedding"
)

// Options configure the Ollama embedding adapter.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Embedder calls the Ollama /api/embeddings endpoint.
type Embedder struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ embedding.Embedder = (*Embedder)(nil)

// NewEmbedder constructs an Ollama embedder. Defaults: localhost:11434,
// nomic-embed-text, 60s timeout.
func NewEmbedder(optFns ...func(o *Options)) *Embedder {
	opts := Options{
		BaseURL: "http://localhost:11434",
		Model:   "nomic-embed-text",
		Timeout: 60 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{
		baseURL: opts.BaseURL,
		model:   opts.Model,
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ollama returned %d: %s", resp.StatusCode, raw)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned empty embedding")
	}
	return out.Embedding, nil
}
