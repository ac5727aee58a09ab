// Package logging provides a tiny abstraction over slog so the rest of the
// assistant can depend on a minimal interface (Logger) while callers plug in
// any structured logger. A NoOpLogger keeps logging optional in libraries and
// tests.
package logging
