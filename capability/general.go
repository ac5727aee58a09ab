package capability

import (
	"context"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/model"
)

const generalInstructions = `You are a friendly real estate assistant. Answer conversationally and steer the user toward what you can help with: searching properties, scheduling viewings and answering common real estate questions. End your reply with TERMINATE.`

// General handles conversational turns that fit no specialist capability. It
// exposes no tools, so the exchange resolves in a single round.
type General struct {
	exchange *exchange
}

var _ Capability = (*General)(nil)

// NewGeneral builds the general-chat capability.
func NewGeneral(m model.Model, optFns ...func(o *Options)) *General {
	opts := buildOptions(optFns)
	return &General{
		exchange: &exchange{
			model:        m,
			instructions: generalInstructions,
			opts:         opts,
		},
	}
}

// Name implements Capability.
func (g *General) Name() core.Intent { return core.IntentGeneral }

// Handle implements Capability.
func (g *General) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	return g.exchange.run(ctx, turn, g.exchange.instructions)
}
