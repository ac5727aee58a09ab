// Package session provides the in-memory SessionStore: sessions keyed by
// identifier with per-session turn serialization and idle expiry. Turns for
// the same identifier run one at a time; distinct identifiers proceed fully
// in parallel.
package session
