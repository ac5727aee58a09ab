// Package core provides the foundational domain types and interfaces of the
// assistant: conversation messages, sessions with their store contract,
// property and knowledge-base records, and the turn-scoped error kinds. It
// defines:
//
//   - Messages (immutable conversation turn entries)
//   - Sessions (per-conversation containers with turn history, pending
//     clarification and round accounting)
//   - Collaborator ports (property catalog, knowledge base, booking service)
//   - Retrieval and resolution value types shared across packages
//
// The package intentionally keeps implementation concerns (persistence,
// orchestration, concrete capabilities) out of scope, exposing small
// interfaces so backends can be swapped.
package core
