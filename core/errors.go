package core

import (
	"errors"
	"fmt"
)

// Guardrail reject reasons.
const (
	RejectInjection = "injection_attempt"
	RejectOffTopic  = "off_topic"
)

// Sentinel errors for turn-scoped conditions. None of these are fatal to the
// process; the orchestrator recovers each into a user-facing response.
var (
	// ErrNoMatch signals that resolution or retrieval produced nothing.
	ErrNoMatch = errors.New("no matching record")

	// ErrInvalidSession signals a malformed or expired session identifier.
	// Stores recover it internally by creating a fresh session.
	ErrInvalidSession = errors.New("invalid session")
)

// AmbiguousReferenceError reports that a free-text reference matched more
// than one equally ranked record. Candidates preserve rank order.
type AmbiguousReferenceError struct {
	Query      string
	Candidates []PropertyRecord
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("reference %q is ambiguous across %d candidates", e.Query, len(e.Candidates))
}

// ProviderError wraps a failure or timeout from the external language-model
// or embedding provider. A single round retries once; a second failure
// degrades the turn instead of aborting the request.
type ProviderError struct {
	Op      string // "complete" or "embed"
	Timeout bool
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider %s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying provider error for errors.Is/As.
func (e *ProviderError) Unwrap() error { return e.Err }
