// Package store provides in-memory implementations of the catalog,
// knowledge-base and booking collaborator interfaces, suitable for tests and
// demo wiring. Durable sqlite-backed implementations live in store/sqlite.
package store
