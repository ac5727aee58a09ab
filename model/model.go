package model

import (
	"context"
	"strings"
	"sync"

	"github.com/TonySuccar/autogen-realestate/core"
)

// ToolCall is a function invocation requested by the model, unified across
// providers so downstream logic needs no per-vendor branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON payload
}

// ToolResult carries the outcome of a previously requested tool call back to
// the model.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a minimal JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Message is one normalized conversation entry of a request. Assistant
// messages may carry tool calls; tool-role messages carry exactly one result.
type Message struct {
	Role       core.Role   `json:"role"`
	Text       string      `json:"text,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// Request captures the normalized model input produced by a capability round.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Response is the completed model output for one round.
type Response struct {
	Text         string     `json:"text"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface capabilities use to drive generation. Calls
// block until completion or ctx expiry; providers must honor ctx deadlines.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is a scripted in-memory Model for tests. Responses are consumed
// in FIFO order; once the script is exhausted every call returns Fallback.
type MockModel struct {
	mu       sync.Mutex
	script   []scripted
	requests []Request

	// Fallback is returned when the script is empty.
	Fallback Response
}

type scripted struct {
	resp Response
	err  error
}

// NewMockModel constructs a MockModel whose fallback echoes the last user
// message.
func NewMockModel() *MockModel {
	return &MockModel{Fallback: Response{Text: "ok", FinishReason: "stop"}}
}

// Enqueue appends a canned response to the script.
func (m *MockModel) Enqueue(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{resp: resp})
	return m
}

// EnqueueError appends a canned failure to the script.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// Requests returns a copy of every request seen, for assertions.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many times Complete was invoked.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		resp := m.Fallback
		return &resp, nil
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.err != nil {
		return nil, next.err
	}
	resp := next.resp
	return &resp, nil
}

// Info implements Model.
func (m *MockModel) Info() Info {
	return Info{Name: "mock", Provider: "mock", SupportsTools: true}
}

// LastUserText returns the text of the final user message of a request, an
// assertion helper for scripted tests.
func (r Request) LastUserText() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == core.RoleUser {
			return strings.TrimSpace(r.Messages[i].Text)
		}
	}
	return ""
}
