// Package action defines GameAction, the single player decision recorded
// for the event chain, and the wire formats it travels in.
//
// A GameAction is a pure data-transfer value: a turn number and an opaque
// payload. The package deliberately knows nothing about transport, signing
// or ordering so those layers can be replaced without touching it.
//
// Wire formats are named and versioned ("json/v1", "cbor/v1", "proto/v1").
// Every codec obeys the round-trip law Decode(Encode(a)) == a and reports
// malformed input as a *DecodeError, never a panic and never a partially
// filled action.
package action
