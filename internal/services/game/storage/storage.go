package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

// ErrNotFound indicates a requested session is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "session not found")

// ErrSessionRequired indicates a call was made without a session id.
var ErrSessionRequired = apperrors.New(apperrors.CodeSessionEmpty, "session id is required")

// Entry is one sealed position in a session's event chain.
type Entry struct {
	// SessionID is the player session this entry belongs to.
	SessionID string
	// Seq is the position within the session (starts at 1).
	Seq uint64
	// Action is the recorded game action.
	Action action.GameAction
	// Format is the wire format of Encoded.
	Format action.Format
	// Encoded is the stored encoding of Action.
	Encoded []byte
	// EventHash is the hex SHA-256 of the canonical json/v1 encoding.
	EventHash string
	// PrevHash is the previous entry's chain hash (empty for seq 1).
	PrevHash string
	// ChainHash links this entry to PrevHash.
	ChainHash string
	// RecordedAt is when storage accepted the entry (UTC, millisecond precision).
	RecordedAt time.Time
}

// Journal records actions for player sessions.
//
// The journal records turn numbers as given; ordering of turns is not
// enforced at this layer.
type Journal interface {
	// CreateSession starts an empty session and returns its id.
	CreateSession(ctx context.Context) (string, error)
	// Append seals a onto the end of the session's chain.
	Append(ctx context.Context, sessionID string, a action.GameAction) (Entry, error)
	// List returns entries with Seq > afterSeq in order; limit <= 0 means all.
	List(ctx context.Context, sessionID string, afterSeq uint64, limit int) ([]Entry, error)
	// Head returns the latest entry; ok is false for an empty session.
	Head(ctx context.Context, sessionID string) (entry Entry, ok bool, err error)
	// Close releases resources. It is safe to call on a nil journal.
	Close() error
}
