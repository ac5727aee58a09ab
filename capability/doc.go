// Package capability implements the specialist handlers a conversation turn
// can be dispatched to: property search, viewing booking, FAQ answering and
// general chat. All four share the bounded multi-round exchange loop that
// drives the language model and executes the tool calls it requests.
package capability
