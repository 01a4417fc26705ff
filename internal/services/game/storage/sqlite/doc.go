// Package sqlite implements the journal contract on a single SQLite file.
//
// Why this package exists:
// - It is the durable backend for recorded game actions.
// - It owns the journal schema and applies embedded migrations on open.
// - It seals entries inside the append transaction so sequence assignment and
//   chain hashing can never disagree.
package sqlite
