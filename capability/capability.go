package capability

import (
	"context"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/logging"
)

// Turn is the per-message input handed to a capability: the owning session,
// the raw user message and the clarification the user may be answering.
type Turn struct {
	Session *core.Session
	Message string
	Pending *core.Clarification
}

// ToolInvocation records one executed tool call for the turn transcript.
type ToolInvocation struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Outcome is what a capability produced for one turn. Exactly one of a final
// Response or a Clarification question is meaningful; Truncated marks a
// response synthesized after the round cap was reached.
type Outcome struct {
	Response        string
	ToolInvocations []ToolInvocation
	Clarification   *core.Clarification
	RoundsUsed      int
	Truncated       bool
}

// Capability handles the turns classified to its intent.
type Capability interface {
	// Name returns the intent tag this capability serves.
	Name() core.Intent

	// Handle runs the turn to completion and never lets a provider failure
	// escape as an error; degraded turns still produce an Outcome.
	Handle(ctx context.Context, turn *Turn) (*Outcome, error)
}

// Options tune a capability's exchange loop.
type Options struct {
	MaxRounds int
	Timeout   time.Duration
	TopK      int
	Logger    logging.Logger
}

// WithMaxRounds caps the model/tool rounds per turn.
func WithMaxRounds(n int) func(o *Options) {
	return func(o *Options) { o.MaxRounds = n }
}

// WithTimeout bounds each individual provider call.
func WithTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.Timeout = d }
}

// WithTopK sets how many knowledge-base entries retrieval returns. Only the
// FAQ capability reads it.
func WithTopK(k int) func(o *Options) {
	return func(o *Options) { o.TopK = k }
}

// WithLogger attaches a logger to the exchange loop.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := Options{
		MaxRounds: DefaultMaxRounds,
		Timeout:   DefaultTimeout,
		TopK:      DefaultTopK,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return opts
}
