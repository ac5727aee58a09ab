package guardrail

import (
	"strings"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/internal/textutil"
)

// Verdict is the outcome of a guardrail check.
type Verdict struct {
	Allowed bool
	// Reason is set on reject: core.RejectInjection or core.RejectOffTopic.
	Reason string
	// Pattern is the matched injection phrase, for logging.
	Pattern string
}

// Allow is the verdict for an accepted message.
var Allow = Verdict{Allowed: true}

// Filter validates inbound messages against a static policy. Check is a pure
// function of the message text; filters are safe for concurrent use.
type Filter struct {
	policy Policy
}

// NewFilter builds a filter from the given policy.
func NewFilter(policy Policy) *Filter {
	return &Filter{policy: policy}
}

// Check classifies a message as allowed, an injection attempt, or off-topic.
//
// Injection detection runs first and is never bypassed. A message is
// on-topic when it contains domain vocabulary, an FAQ-style question word,
// or is a short greeting.
func (f *Filter) Check(message string) Verdict {
	if pattern, ok := textutil.ContainsAny(message, f.policy.InjectionPatterns); ok {
		return Verdict{Reason: core.RejectInjection, Pattern: pattern}
	}
	if textutil.HasToken(message, f.policy.DomainTerms) {
		return Allow
	}
	if textutil.HasToken(message, f.policy.QuestionWords) {
		return Allow
	}
	if f.isGreeting(message) {
		return Allow
	}
	return Verdict{Reason: core.RejectOffTopic}
}

// isGreeting matches short salutations ("hi", "good morning!").
func (f *Filter) isGreeting(message string) bool {
	n := textutil.Normalize(message)
	short := len(textutil.Tokenize(message)) <= 4
	for _, g := range f.policy.Greetings {
		if n == g || (short && strings.HasPrefix(n, g)) {
			return true
		}
	}
	return false
}

// RedirectionResponse is the fixed polite reply returned when a message is
// rejected, phrased per reject reason.
func RedirectionResponse(reason string) string {
	if reason == core.RejectInjection {
		return "I'm programmed to assist only with real estate matters. What property question can I help you with?"
	}
	return "I'm a real estate assistant and can only help with property-related questions. How can I assist you with real estate today?"
}
