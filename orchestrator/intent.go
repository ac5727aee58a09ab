package orchestrator

import (
	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/internal/textutil"
)

// Keyword groups scanned in fixed priority order. The first group with a hit
// decides the intent; nothing matched falls through to general chat.
var (
	searchKeywords  = []string{"find", "search", "show", "list", "looking", "browse"}
	bookingKeywords = []string{"book", "schedule", "viewing", "appointment", "visit"}
	faqKeywords     = []string{"can", "how", "what", "why", "when", "where", "do", "does", "is", "are"}
)

// Classify maps a message onto one of the four capability tags.
func Classify(message string) core.Intent {
	switch {
	case textutil.HasToken(message, searchKeywords):
		return core.IntentSearch
	case textutil.HasToken(message, bookingKeywords):
		return core.IntentBooking
	case textutil.HasToken(message, faqKeywords):
		return core.IntentFAQ
	default:
		return core.IntentGeneral
	}
}
