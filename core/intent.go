package core

// Intent is the closed enumeration of specialist capabilities a turn can be
// dispatched to. Classification is a fixed-priority keyword scan performed by
// the orchestrator; there is no dynamic capability registration.
type Intent string

// Capability tags.
const (
	IntentSearch  Intent = "search"
	IntentBooking Intent = "booking"
	IntentFAQ     Intent = "faq"
	IntentGeneral Intent = "general"
)

// Valid reports whether the intent is one of the closed capability tags.
func (i Intent) Valid() bool {
	switch i {
	case IntentSearch, IntentBooking, IntentFAQ, IntentGeneral:
		return true
	}
	return false
}
