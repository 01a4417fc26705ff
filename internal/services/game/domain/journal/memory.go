package journal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/freeciv-nostr/internal/platform/id"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage/integrity"
)

// Memory is a concurrency-safe in-memory journal.
type Memory struct {
	mu       sync.Mutex
	codec    action.Codec
	sessions map[string][]storage.Entry
	now      func() time.Time
	newID    func() (string, error)
}

// NewMemory builds an empty journal that stores actions with codec
// (json/v1 when nil).
func NewMemory(codec action.Codec) *Memory {
	if codec == nil {
		codec = action.JSONCodec{}
	}
	return &Memory{
		codec:    codec,
		sessions: make(map[string][]storage.Entry),
		now:      time.Now,
		newID:    id.NewID,
	}
}

// CreateSession starts an empty session.
func (m *Memory) CreateSession(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sessionID, err := m.newID()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = nil
	return sessionID, nil
}

// Append seals a onto the session's chain.
func (m *Memory) Append(ctx context.Context, sessionID string, a action.GameAction) (storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Entry{}, storage.ErrSessionRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.sessions[sessionID]
	if !ok {
		return storage.Entry{}, storage.ErrNotFound
	}
	var prev storage.Entry
	if n := len(entries); n > 0 {
		prev = entries[n-1]
	}
	entry, err := integrity.Seal(sessionID, prev.Seq+1, a, m.codec, prev, m.now())
	if err != nil {
		return storage.Entry{}, err
	}
	m.sessions[sessionID] = append(entries, entry)
	return entry, nil
}

// List returns entries after afterSeq, at most limit when limit > 0.
func (m *Memory) List(ctx context.Context, sessionID string, afterSeq uint64, limit int) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, storage.ErrSessionRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.sessions[sessionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var out []storage.Entry
	for _, entry := range entries {
		if entry.Seq <= afterSeq {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Head returns the latest entry for the session.
func (m *Memory) Head(ctx context.Context, sessionID string) (storage.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, false, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Entry{}, false, storage.ErrSessionRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.sessions[sessionID]
	if !ok {
		return storage.Entry{}, false, storage.ErrNotFound
	}
	if len(entries) == 0 {
		return storage.Entry{}, false, nil
	}
	return entries[len(entries)-1], true, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

var _ storage.Journal = (*Memory)(nil)
