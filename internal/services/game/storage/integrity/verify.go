package integrity

import (
	"fmt"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
)

// ChainError identifies the first entry that breaks a chain.
type ChainError struct {
	Seq    uint64
	Reason string
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	return fmt.Sprintf("chain broken at seq %d: %s", e.Seq, e.Reason)
}

// Unwrap lets callers match on the CHAIN_BROKEN code.
func (e *ChainError) Unwrap() error {
	return apperrors.New(apperrors.CodeChainBroken, e.Reason)
}

// VerifyChain checks a full session listing, starting at seq 1: contiguous
// sequence numbers, stored encodings that decode to the recorded action,
// event hashes, previous-hash links and chain hashes.
func VerifyChain(entries []storage.Entry, registry *action.Registry) error {
	if registry == nil {
		registry = action.DefaultRegistry()
	}
	var prev storage.Entry
	for i, entry := range entries {
		want := uint64(i + 1)
		if entry.Seq != want {
			return &ChainError{Seq: want, Reason: fmt.Sprintf("found seq %d", entry.Seq)}
		}
		if i > 0 && entry.SessionID != prev.SessionID {
			return &ChainError{Seq: entry.Seq, Reason: "session id changed"}
		}
		if len(entry.Encoded) > 0 {
			codec, err := registry.Lookup(entry.Format)
			if err != nil {
				return &ChainError{Seq: entry.Seq, Reason: err.Error()}
			}
			stored, err := codec.Decode(entry.Encoded)
			if err != nil {
				return &ChainError{Seq: entry.Seq, Reason: err.Error()}
			}
			if !stored.Equal(entry.Action) {
				return &ChainError{Seq: entry.Seq, Reason: "stored encoding does not match action"}
			}
		}
		hash, err := EventHash(entry.Action)
		if err != nil {
			return &ChainError{Seq: entry.Seq, Reason: err.Error()}
		}
		if hash != entry.EventHash {
			return &ChainError{Seq: entry.Seq, Reason: "event hash mismatch"}
		}
		wantPrev := ""
		if i > 0 {
			wantPrev = prev.ChainHash
		}
		if entry.PrevHash != wantPrev {
			return &ChainError{Seq: entry.Seq, Reason: "previous hash does not link"}
		}
		chainHash, err := ChainHash(entry, entry.PrevHash)
		if err != nil {
			return &ChainError{Seq: entry.Seq, Reason: err.Error()}
		}
		if chainHash != entry.ChainHash {
			return &ChainError{Seq: entry.Seq, Reason: "chain hash mismatch"}
		}
		prev = entry
	}
	return nil
}
