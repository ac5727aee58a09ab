// Package realestate assembles the conversational real-estate assistant:
// guardrail filtering, intent dispatch, property search, viewing booking and
// retrieval-augmented FAQ answering over pluggable model, embedding and
// storage backends.
package realestate

import (
	"context"
	"time"

	"github.com/TonySuccar/autogen-realestate/capability"
	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/embedding"
	openaiembed "github.com/TonySuccar/autogen-realestate/embedding/openai"
	"github.com/TonySuccar/autogen-realestate/guardrail"
	"github.com/TonySuccar/autogen-realestate/logging"
	"github.com/TonySuccar/autogen-realestate/model"
	openaimodel "github.com/TonySuccar/autogen-realestate/model/openai"
	"github.com/TonySuccar/autogen-realestate/orchestrator"
	"github.com/TonySuccar/autogen-realestate/resolver"
	"github.com/TonySuccar/autogen-realestate/retrieval"
	"github.com/TonySuccar/autogen-realestate/session"
	"github.com/TonySuccar/autogen-realestate/store"
)

// Options configure the assembled assistant. Zero values fall back to OpenAI
// backends, in-memory stores seeded with the demo fixtures and the default
// thresholds.
type Options struct {
	Model    model.Model
	Embedder embedding.Embedder

	Catalog   core.PropertyCatalog
	Knowledge core.KnowledgeBase
	Bookings  core.BookingService

	Policy *guardrail.Policy
	Logger logging.Logger

	MaxRounds         int
	Timeout           time.Duration
	TopK              int
	OverlapThreshold  float64
	LowScoreThreshold float64
	SessionTTL        time.Duration
}

// WithModel overrides the language-model backend.
func WithModel(m model.Model) func(o *Options) {
	return func(o *Options) { o.Model = m }
}

// WithEmbedder overrides the embedding backend.
func WithEmbedder(e embedding.Embedder) func(o *Options) {
	return func(o *Options) { o.Embedder = e }
}

// WithCatalog overrides the property catalog.
func WithCatalog(c core.PropertyCatalog) func(o *Options) {
	return func(o *Options) { o.Catalog = c }
}

// WithKnowledge overrides the FAQ knowledge base.
func WithKnowledge(kb core.KnowledgeBase) func(o *Options) {
	return func(o *Options) { o.Knowledge = kb }
}

// WithBookings overrides the booking service.
func WithBookings(b core.BookingService) func(o *Options) {
	return func(o *Options) { o.Bookings = b }
}

// WithPolicy overrides the guardrail policy.
func WithPolicy(p guardrail.Policy) func(o *Options) {
	return func(o *Options) { o.Policy = &p }
}

// WithLogger attaches a logger to every component.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMaxRounds caps the model/tool rounds per turn.
func WithMaxRounds(n int) func(o *Options) {
	return func(o *Options) { o.MaxRounds = n }
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.Timeout = d }
}

// WithTopK sets how many FAQ entries retrieval returns.
func WithTopK(k int) func(o *Options) {
	return func(o *Options) { o.TopK = k }
}

// WithOverlapThreshold tunes the resolver's word-overlap cutoff.
func WithOverlapThreshold(t float64) func(o *Options) {
	return func(o *Options) { o.OverlapThreshold = t }
}

// WithLowScoreThreshold tunes the retrieval low-confidence cutoff.
func WithLowScoreThreshold(t float64) func(o *Options) {
	return func(o *Options) { o.LowScoreThreshold = t }
}

// WithSessionTTL sets the idle expiry for sessions.
func WithSessionTTL(d time.Duration) func(o *Options) {
	return func(o *Options) { o.SessionTTL = d }
}

// Assistant is the assembled conversational assistant. One instance serves
// many sessions concurrently; turns on the same session serialize.
type Assistant struct {
	orchestrator *orchestrator.Orchestrator
	sessions     *session.InMemoryStore
	embedder     embedding.Embedder
	knowledge    core.KnowledgeBase
	logger       logging.Logger
}

// New assembles an assistant.
func New(optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		MaxRounds:         capability.DefaultMaxRounds,
		Timeout:           capability.DefaultTimeout,
		TopK:              capability.DefaultTopK,
		OverlapThreshold:  resolver.DefaultOverlapThreshold,
		LowScoreThreshold: retrieval.DefaultLowScoreThreshold,
		SessionTTL:        session.DefaultIdleTTL,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)
	if opts.Model == nil {
		opts.Model = openaimodel.NewModel()
	}
	if opts.Embedder == nil {
		opts.Embedder = openaiembed.NewEmbedder()
	}
	if opts.Catalog == nil {
		opts.Catalog = store.NewInMemoryCatalog(store.SeedProperties()...)
	}
	if opts.Knowledge == nil {
		opts.Knowledge = store.NewInMemoryKnowledgeBase()
	}
	if opts.Bookings == nil {
		opts.Bookings = store.NewInMemoryBookings()
	}
	policy := guardrail.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	sessions := session.NewInMemoryStore(
		session.WithIdleTTL(opts.SessionTTL),
		session.WithLogger(logger),
	)

	capOpts := []func(o *capability.Options){
		capability.WithMaxRounds(opts.MaxRounds),
		capability.WithTimeout(opts.Timeout),
		capability.WithTopK(opts.TopK),
		capability.WithLogger(logger),
	}

	res := resolver.New(resolver.WithOverlapThreshold(opts.OverlapThreshold))
	ret := retrieval.New(retrieval.WithLowScoreThreshold(opts.LowScoreThreshold))

	capabilities := []capability.Capability{
		capability.NewSearch(opts.Model, opts.Catalog, capOpts...),
		capability.NewBooking(opts.Model, opts.Catalog, opts.Bookings, res, capOpts...),
		capability.NewFAQ(opts.Model, opts.Embedder, opts.Knowledge, ret, capOpts...),
		capability.NewGeneral(opts.Model, capOpts...),
	}

	orch, err := orchestrator.New(
		sessions,
		guardrail.NewFilter(policy),
		capabilities,
		orchestrator.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		orchestrator: orch,
		sessions:     sessions,
		embedder:     opts.Embedder,
		knowledge:    opts.Knowledge,
		logger:       logger,
	}, nil
}

// Start launches background maintenance (session expiry sweeps) until ctx is
// cancelled.
func (a *Assistant) Start(ctx context.Context) {
	a.sessions.Start(ctx)
}

// Chat handles one user message. An empty sessionID starts a new
// conversation; the returned SessionID identifies it for subsequent calls.
func (a *Assistant) Chat(ctx context.Context, sessionID, message string) (*orchestrator.TurnResponse, error) {
	return a.orchestrator.Turn(ctx, orchestrator.TurnRequest{Message: message, SessionID: sessionID})
}

// ClearSession discards a conversation and its history.
func (a *Assistant) ClearSession(sessionID string) {
	a.orchestrator.ClearSession(sessionID)
}

// IndexEntries embeds each entry's question and returns the entries with
// vectors attached, ready to load into a knowledge base.
func IndexEntries(ctx context.Context, embedder embedding.Embedder, entries []core.EmbeddingEntry) ([]core.EmbeddingEntry, error) {
	out := make([]core.EmbeddingEntry, 0, len(entries))
	for _, e := range entries {
		vec, err := embedder.Embed(ctx, e.Question)
		if err != nil {
			return nil, &core.ProviderError{Op: "embed", Err: err}
		}
		e.Vector = vec
		out = append(out, e)
	}
	return out, nil
}
