package action

import (
	"bytes"
	"fmt"
)

// GameAction is a turn-scoped player decision.
//
// Values are immutable: fields are unexported and Payload returns a copy.
// The zero value is turn 0 with an empty payload.
type GameAction struct {
	turn    uint64
	payload []byte
}

// New builds an action. Neither field is validated; the payload is copied so
// later writes to the caller's slice cannot change the action.
func New(turn uint64, payload []byte) GameAction {
	return GameAction{turn: turn, payload: bytes.Clone(payload)}
}

// Turn returns the game turn in which the action occurred.
func (a GameAction) Turn() uint64 {
	return a.turn
}

// Payload returns a copy of the opaque action content.
func (a GameAction) Payload() []byte {
	return bytes.Clone(a.payload)
}

// PayloadLen returns the payload size in bytes.
func (a GameAction) PayloadLen() int {
	return len(a.payload)
}

// Equal reports structural equality. Nil and empty payloads are equal.
func (a GameAction) Equal(other GameAction) bool {
	return a.turn == other.turn && bytes.Equal(a.payload, other.payload)
}

// String renders a log-safe summary that omits payload content.
func (a GameAction) String() string {
	return fmt.Sprintf("GameAction{turn: %d, payload: %d bytes}", a.turn, len(a.payload))
}
