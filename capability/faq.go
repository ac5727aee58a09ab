package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/embedding"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/retrieval"
	"github.com/TonySuccar/autogen-realestate/tool"
)

const faqInstructions = `You are a real estate FAQ assistant. Use the search_faq tool to retrieve relevant knowledge-base entries, then answer the user's question grounded in what was retrieved. If every retrieved entry is marked low confidence, say you are not certain and suggest contacting an agent. End your reply with TERMINATE when the question is answered.`

// FAQ answers informational questions by retrieval-augmented generation: the
// query is embedded, the knowledge base is ranked by cosine similarity and
// the top entries ground the model's answer.
type FAQ struct {
	exchange *exchange
}

var _ Capability = (*FAQ)(nil)

// NewFAQ builds the FAQ capability.
func NewFAQ(
	m model.Model,
	embedder embedding.Embedder,
	kb core.KnowledgeBase,
	ret *retrieval.Retriever,
	optFns ...func(o *Options),
) *FAQ {
	opts := buildOptions(optFns)
	return &FAQ{
		exchange: &exchange{
			model:        m,
			tools:        []tool.Tool{faqTool(embedder, kb, ret, opts)},
			instructions: faqInstructions,
			opts:         opts,
		},
	}
}

// Name implements Capability.
func (f *FAQ) Name() core.Intent { return core.IntentFAQ }

// Handle implements Capability.
func (f *FAQ) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	return f.exchange.run(ctx, turn, f.exchange.instructions)
}

func faqTool(embedder embedding.Embedder, kb core.KnowledgeBase, ret *retrieval.Retriever, opts Options) tool.Tool {
	return tool.NewFunctionTool(
		"search_faq",
		"Retrieve the knowledge-base entries most relevant to a question.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "The question to look up"},
			},
			"required": []string{"query"},
		},
		func(tc *tool.Context, args map[string]any) (any, error) {
			query, _ := stringArg(args, "query")

			vec, err := embedQuery(tc, embedder, query, opts.Timeout)
			if err != nil {
				return nil, err
			}

			corpus, err := kb.AllEntries(tc.Context())
			if err != nil {
				return nil, err
			}
			if len(corpus) == 0 {
				return map[string]any{"count": 0, "entries": []any{}}, nil
			}

			results := ret.Search(vec, corpus, opts.TopK)
			entries := make([]map[string]any, 0, len(results))
			for _, r := range results {
				entries = append(entries, map[string]any{
					"rank":           r.Rank,
					"question":       r.Entry.Question,
					"answer":         r.Entry.Answer,
					"score":          fmt.Sprintf("%.3f", r.Score),
					"low_confidence": r.LowConfidence,
				})
			}
			return map[string]any{"count": len(entries), "entries": entries}, nil
		},
	)
}

// embedQuery calls the embedding provider with a per-attempt deadline,
// retrying a single time on failure with identical inputs.
func embedQuery(tc *tool.Context, embedder embedding.Embedder, query string, timeout time.Duration) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(tc.Context(), timeout)
		vec, err := embedder.Embed(callCtx, query)
		cancel()
		if err == nil {
			return vec, nil
		}
		if tc.Context().Err() != nil {
			return nil, tc.Context().Err()
		}
		lastErr = &core.ProviderError{
			Op:      "embed",
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
		if attempt == 0 {
			tc.Logger().Warn("exchange.retry", "op", "embed", "error", err.Error())
		}
	}
	return nil, lastErr
}
