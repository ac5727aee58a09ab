// Package tool implements the function-calling subsystem that lets
// capabilities expose structured operations (catalog search, viewing
// creation, FAQ retrieval) to the language model with schema-validated
// arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/logging"
)

// Tool is a callable capability operation exposed to the language model.
//
// Implementations should provide descriptive snake_case names, a minimal
// JSON-schema parameter spec, and be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier used in function-call declarations.
	Name() string

	// Description is shown to the model to guide tool selection.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments.
	Call(tc *Context, args map[string]any) (any, error)
}

// Context is the constrained surface a tool sees during one invocation: the
// request context, the owning session and the originating call id.
type Context struct {
	ctx     context.Context
	session *core.Session
	callID  string
	logger  logging.Logger
}

// NewContext binds a tool invocation to a request context and session.
func NewContext(ctx context.Context, sess *core.Session, callID string, logger logging.Logger) *Context {
	return &Context{ctx: ctx, session: sess, callID: callID, logger: logging.OrNoOp(logger)}
}

// Context returns the request context of the invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// Session returns the owning session.
func (tc *Context) Session() *core.Session { return tc.session }

// SessionID returns the owning session's identifier.
func (tc *Context) SessionID() string {
	if tc.session == nil {
		return ""
	}
	return tc.session.ID
}

// CallID returns the function-call identifier correlating the model request
// with this execution.
func (tc *Context) CallID() string { return tc.callID }

// Logger returns the invocation logger.
func (tc *Context) Logger() logging.Logger { return tc.logger }

// Error codes attached to *Error.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// Error represents a failure during tool execution.
type Error struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause so callers can match domain errors
// (ambiguous reference, no match) through the tool layer.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error with the given details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
