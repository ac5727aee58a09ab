// Package model defines the language-model abstraction used by capabilities:
// a blocking, context-bounded completion call over a normalized request shape
// (instructions, conversation, tool definitions). Provider adapters live in
// subpackages; MockModel supports tests.
package model
