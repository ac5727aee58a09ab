// Package orchestrator is the top-level turn state machine: guardrail check,
// intent classification, dispatch to a specialist capability and session
// bookkeeping. One Turn call handles one user message end to end.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/TonySuccar/autogen-realestate/capability"
	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/guardrail"
	"github.com/TonySuccar/autogen-realestate/logging"
)

// TurnRequest is one inbound user message. An empty or unknown SessionID
// yields a fresh session; the SessionID in the response is authoritative.
type TurnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// TurnResponse is the completed turn returned to the caller.
type TurnResponse struct {
	Response   string                      `json:"response"`
	SessionID  string                      `json:"session_id"`
	Capability core.Intent                 `json:"capability,omitempty"`
	ToolCalls  []capability.ToolInvocation `json:"tool_calls,omitempty"`
}

// Options configure an Orchestrator.
type Options struct {
	Logger logging.Logger
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Orchestrator routes turns through the guardrail filter and a closed
// dispatch table of capabilities.
type Orchestrator struct {
	store        core.SessionStore
	filter       *guardrail.Filter
	capabilities map[core.Intent]capability.Capability
	logger       logging.Logger
}

// New builds an Orchestrator over the given capabilities. The dispatch table
// is closed at construction; a general capability must be present as the
// classification fallback.
func New(
	store core.SessionStore,
	filter *guardrail.Filter,
	capabilities []capability.Capability,
	optFns ...func(o *Options),
) (*Orchestrator, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	table := make(map[core.Intent]capability.Capability, len(capabilities))
	for _, c := range capabilities {
		if !c.Name().Valid() {
			return nil, fmt.Errorf("capability has invalid intent tag %q", c.Name())
		}
		if _, dup := table[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate capability for intent %q", c.Name())
		}
		table[c.Name()] = c
	}
	if _, ok := table[core.IntentGeneral]; !ok {
		return nil, fmt.Errorf("missing general capability")
	}

	return &Orchestrator{
		store:        store,
		filter:       filter,
		capabilities: table,
		logger:       logging.OrNoOp(opts.Logger),
	}, nil
}

// Turn processes one user message: acquire the session (turns on the same
// session serialize), run the guardrail, rejoin a pending clarification or
// classify fresh, dispatch, then persist the turn and reset the round
// counter. The round counter never exceeds the capability's configured cap.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	sess, release, err := o.store.Acquire(req.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	pending := sess.Pending()

	// The off-topic check is skipped while a clarification is pending, so a
	// bare answer like "the first one" is not bounced. Injection detection
	// always applies.
	verdict := o.filter.Check(req.Message)
	if !verdict.Allowed && (verdict.Reason == core.RejectInjection || pending == nil) {
		o.logger.Warn("turn.rejected",
			"session_id", sess.ID, "reason", verdict.Reason, "pattern", verdict.Pattern)
		response := guardrail.RedirectionResponse(verdict.Reason)
		sess.AppendTurn(core.NewMessage(core.RoleUser, req.Message))
		sess.AppendTurn(core.NewMessage(core.RoleAssistant, response))
		return &TurnResponse{Response: response, SessionID: sess.ID}, nil
	}

	var intent core.Intent
	if pending != nil {
		intent = pending.Capability
		sess.ClearPending()
		o.logger.Debug("turn.clarification_rejoin", "session_id", sess.ID, "capability", string(intent))
	} else {
		intent = Classify(req.Message)
		o.logger.Debug("turn.classified", "session_id", sess.ID, "capability", string(intent))
	}
	sess.SetLastIntent(intent)

	handler, ok := o.capabilities[intent]
	if !ok {
		handler = o.capabilities[core.IntentGeneral]
		intent = core.IntentGeneral
	}

	turn := &capability.Turn{Session: sess, Message: req.Message, Pending: pending}
	outcome, err := handler.Handle(ctx, turn)
	if err != nil {
		sess.ResetRounds()
		return nil, err
	}

	sess.AppendTurn(core.NewMessage(core.RoleUser, req.Message))
	sess.AppendTurn(core.NewMessage(core.RoleAssistant, outcome.Response))
	if outcome.Clarification != nil {
		if outcome.Clarification.Capability == "" {
			outcome.Clarification.Capability = intent
		}
		sess.SetPending(outcome.Clarification)
	}
	sess.ResetRounds()

	o.logger.Info("turn.completed",
		"session_id", sess.ID,
		"capability", string(intent),
		"rounds", outcome.RoundsUsed,
		"tool_calls", len(outcome.ToolInvocations),
		"truncated", outcome.Truncated)

	return &TurnResponse{
		Response:   outcome.Response,
		SessionID:  sess.ID,
		Capability: intent,
		ToolCalls:  outcome.ToolInvocations,
	}, nil
}

// ClearSession discards a session and its history.
func (o *Orchestrator) ClearSession(id string) {
	o.store.Delete(id)
}
