package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
)

// EventHash computes the content hash of an action: hex SHA-256 over its
// json/v1 encoding, independent of the format the journal stores.
func EventHash(a action.GameAction) (string, error) {
	encoded, err := action.JSONCodec{}.Encode(a)
	if err != nil {
		return "", fmt.Errorf("encode canonical action: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// chainEnvelope fixes the field order of the chain hash input.
type chainEnvelope struct {
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
	EventHash string `json:"event_hash"`
	PrevHash  string `json:"prev_hash"`
}

// ChainHash computes the SHA-256 hash that links an entry to its predecessor.
// The entry must already carry its session, sequence and event hash.
func ChainHash(entry storage.Entry, prevHash string) (string, error) {
	if strings.TrimSpace(entry.SessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	if entry.Seq == 0 {
		return "", fmt.Errorf("sequence must be assigned")
	}
	if strings.TrimSpace(entry.EventHash) == "" {
		return "", fmt.Errorf("event hash is required")
	}
	payload, err := json.Marshal(chainEnvelope{
		SessionID: entry.SessionID,
		Seq:       entry.Seq,
		EventHash: entry.EventHash,
		PrevHash:  prevHash,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chain envelope: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Seal fills in the integrity fields for the entry at seq, following prev
// (the zero Entry when seq is 1). The stored encoding is produced with codec.
func Seal(sessionID string, seq uint64, a action.GameAction, codec action.Codec, prev storage.Entry, now time.Time) (storage.Entry, error) {
	if codec == nil {
		return storage.Entry{}, fmt.Errorf("codec is required")
	}
	if seq > 1 && prev.Seq != seq-1 {
		return storage.Entry{}, fmt.Errorf("previous entry seq %d does not precede %d", prev.Seq, seq)
	}
	encoded, err := codec.Encode(a)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("encode action: %w", err)
	}
	hash, err := EventHash(a)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("compute event hash: %w", err)
	}

	entry := storage.Entry{
		SessionID:  sessionID,
		Seq:        seq,
		Action:     a,
		Format:     codec.Format(),
		Encoded:    encoded,
		EventHash:  hash,
		RecordedAt: now.UTC().Truncate(time.Millisecond),
	}
	if seq > 1 {
		entry.PrevHash = prev.ChainHash
	}
	chainHash, err := ChainHash(entry, entry.PrevHash)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("compute chain hash: %w", err)
	}
	entry.ChainHash = chainHash
	return entry, nil
}
