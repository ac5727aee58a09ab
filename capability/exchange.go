package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/logging"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/tool"
)

// Exchange defaults.
const (
	DefaultMaxRounds = 8
	DefaultTimeout   = 60 * time.Second
	DefaultTopK      = 3

	// TerminationMarker is the token the model appends when the exchange is
	// complete. It is stripped from user-facing text.
	TerminationMarker = "TERMINATE"
)

const apologyResponse = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// exchange is the bounded round loop shared by all capabilities: build a
// request from instructions, history and tools, call the model, execute the
// tool calls it asks for, feed the results back, repeat. The loop ends on a
// termination marker, a plain text reply, a clarification question, or the
// round cap.
type exchange struct {
	model        model.Model
	tools        []tool.Tool
	instructions string
	opts         Options
}

// run executes the loop for one turn. Provider failures after one retry and
// round-cap exhaustion both degrade into a usable Outcome; only context
// cancellation returns an error.
func (e *exchange) run(ctx context.Context, turn *Turn, instructions string) (*Outcome, error) {
	logger := logging.OrNoOp(e.opts.Logger)

	byName := make(map[string]tool.Tool, len(e.tools))
	defs := make([]model.ToolDefinition, 0, len(e.tools))
	for _, t := range e.tools {
		byName[t.Name()] = t
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	messages := historyMessages(turn.Session)
	messages = append(messages, model.Message{Role: core.RoleUser, Text: turn.Message})

	outcome := &Outcome{}
	var lastText string

	for round := 0; round < e.opts.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		turn.Session.IncrementRound()
		outcome.RoundsUsed = round + 1

		req := model.Request{Instructions: instructions, Messages: messages, Tools: defs}
		resp, err := e.complete(ctx, req, logger)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("exchange.provider_failed", "error", err.Error(), "round", round+1)
			outcome.Response = apologyResponse
			return outcome, nil
		}

		text, terminated := stripMarker(resp.Text)
		if text != "" {
			lastText = text
		}

		if len(resp.ToolCalls) == 0 {
			if text == "" {
				text = lastText
			}
			if text == "" {
				text = synthesizeClose("", outcome.ToolInvocations)
			}
			outcome.Response = text
			if terminated {
				logger.Debug("exchange.terminated", "rounds", outcome.RoundsUsed)
			}
			return outcome, nil
		}

		messages = append(messages, model.Message{
			Role:      core.RoleAssistant,
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			content, failed := e.invoke(ctx, turn, call, byName, logger, outcome)
			if failed != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				var amb *core.AmbiguousReferenceError
				if errors.As(failed, &amb) {
					outcome.Clarification = clarificationFor(amb)
					outcome.Response = outcome.Clarification.Question
					return outcome, nil
				}
				logger.Error("exchange.provider_failed", "error", failed.Error(), "round", round+1)
				outcome.Response = apologyResponse
				return outcome, nil
			}
			messages = append(messages, model.Message{
				Role:       core.RoleTool,
				ToolResult: &model.ToolResult{CallID: call.ID, Name: call.Name, Content: content},
			})
		}
	}

	logger.Warn("exchange.round_limit", "max_rounds", e.opts.MaxRounds, "session_id", turn.Session.ID)
	outcome.Response = synthesizeClose(lastText, outcome.ToolInvocations)
	outcome.Truncated = true
	return outcome, nil
}

// complete calls the model once with a per-call deadline, retrying a single
// time on failure with identical inputs.
func (e *exchange) complete(ctx context.Context, req model.Request, logger logging.Logger) (*model.Response, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
		resp, err := e.model.Complete(callCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = &core.ProviderError{
			Op:      "complete",
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
		if attempt == 0 {
			logger.Warn("exchange.retry", "error", err.Error())
		}
	}
	return nil, lastErr
}

// invoke executes a single tool call and records it on the outcome. An
// ambiguous property reference or an exhausted provider retry is returned
// to the caller, which turns the former into a clarification question and
// the latter into the degraded apology; every other failure is reported
// back to the model as the tool-result content.
func (e *exchange) invoke(
	ctx context.Context,
	turn *Turn,
	call model.ToolCall,
	byName map[string]tool.Tool,
	logger logging.Logger,
	outcome *Outcome,
) (string, error) {
	inv := ToolInvocation{Name: call.Name, Arguments: call.Arguments}

	t, ok := byName[call.Name]
	if !ok {
		inv.Error = fmt.Sprintf("unknown tool %q", call.Name)
		outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
		return inv.Error, nil
	}

	args := map[string]any{}
	if strings.TrimSpace(call.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			inv.Error = fmt.Sprintf("invalid arguments for %s: %v", call.Name, err)
			outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
			return inv.Error, nil
		}
	}

	result, err := t.Call(tool.NewContext(ctx, turn.Session, call.ID, logger), args)
	if err != nil {
		var amb *core.AmbiguousReferenceError
		if errors.As(err, &amb) {
			inv.Error = amb.Error()
			outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
			return "", amb
		}
		if ctx.Err() != nil {
			inv.Error = err.Error()
			outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
			return "", ctx.Err()
		}
		var provider *core.ProviderError
		if errors.As(err, &provider) {
			inv.Error = provider.Error()
			outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
			return "", provider
		}
		inv.Error = err.Error()
		outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
		return inv.Error, nil
	}

	inv.Result = encodeResult(result)
	outcome.ToolInvocations = append(outcome.ToolInvocations, inv)
	return inv.Result, nil
}

func encodeResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// historyMessages converts the session's user/assistant turns into model
// context.
func historyMessages(sess *core.Session) []model.Message {
	history := sess.ConversationHistory()
	out := make([]model.Message, 0, len(history)+1)
	for _, m := range history {
		out = append(out, model.Message{Role: m.Role, Text: m.Text})
	}
	return out
}

// stripMarker removes the termination marker and reports whether it was
// present.
func stripMarker(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, TerminationMarker) {
		return trimmed, false
	}
	cleaned := strings.ReplaceAll(trimmed, TerminationMarker, "")
	return strings.TrimSpace(cleaned), true
}

// clarificationFor phrases an ambiguous property reference as a question with
// the candidate titles as options.
func clarificationFor(amb *core.AmbiguousReferenceError) *core.Clarification {
	options := make([]string, 0, len(amb.Candidates))
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d properties matching %q. Which one did you mean?", len(amb.Candidates), amb.Query)
	for i, rec := range amb.Candidates {
		options = append(options, rec.Title)
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, rec.Title, rec.City)
	}
	return &core.Clarification{
		Query:    amb.Query,
		Question: b.String(),
		Options:  options,
	}
}

// synthesizeClose builds a best-effort reply when the round cap ends the loop
// before the model produced a terminal answer.
func synthesizeClose(lastText string, invocations []ToolInvocation) string {
	if lastText != "" {
		return lastText
	}
	for i := len(invocations) - 1; i >= 0; i-- {
		if invocations[i].Result != "" {
			return "Here's what I found so far: " + invocations[i].Result
		}
	}
	return "I wasn't able to complete that request. Could you rephrase or provide more detail?"
}
