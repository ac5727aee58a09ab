package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

// Conversation roles. RoleTool marks the result of a tool invocation fed back
// into the exchange; it never reaches the end user directly.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is a single immutable conversation entry. It is never mutated after
// creation; session history grows by appending new messages only.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(role Role, text string) Message {
	return Message{Role: role, Text: text, Timestamp: time.Now().UTC()}
}

// NewID generates a unique identifier for sessions, turns and tool calls.
func NewID() string { return uuid.NewString() }
