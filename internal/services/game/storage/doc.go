// Package storage defines the journal contract for recorded game actions.
//
// A journal is an append-only, per-session log. Storage assigns the sequence
// number and the integrity fields (event hash, previous hash, chain hash) on
// append so callers cannot forge chain positions. Implementations live in
// subpackages (sqlite) and in domain/journal (in-memory).
//
// Common error types:
//   - ErrNotFound: the session does not exist
//   - ErrSessionRequired: an empty session id was supplied
package storage
