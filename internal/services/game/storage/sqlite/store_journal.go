package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage/integrity"
)

const entryColumns = "session_id, seq, format, encoded, event_hash, prev_hash, chain_hash, recorded_at"

// CreateSession inserts an empty session row.
func (s *Store) CreateSession(ctx context.Context) (id string, err error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	ctx, span := s.tracer.Start(ctx, "journal.CreateSession")
	defer func() { endSpan(span, err) }()

	id, err = s.newID()
	if err != nil {
		return "", err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO sessions (id, created_at) VALUES (?, ?)",
		id, toMillis(s.now()),
	); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", id))
	s.logger.Debug().Str("session_id", id).Msg("session created")
	return id, nil
}

// Append seals a onto the session's chain inside one transaction.
func (s *Store) Append(ctx context.Context, sessionID string, a action.GameAction) (entry storage.Entry, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.Entry{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Entry{}, storage.ErrSessionRequired
	}
	ctx, span := s.tracer.Start(ctx, "journal.Append", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("action.format", string(s.codec.Format())),
		attribute.Int("action.payload_len", a.PayloadLen()),
	))
	defer func() { endSpan(span, err) }()

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Bumping head_seq first takes the write lock before any read.
	var seq int64
	err = tx.QueryRowContext(ctx,
		"UPDATE sessions SET head_seq = head_seq + 1 WHERE id = ? RETURNING head_seq",
		sessionID,
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Entry{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Entry{}, fmt.Errorf("increment session seq: %w", err)
	}

	var prev storage.Entry
	if seq > 1 {
		prev, err = s.scanEntry(tx.QueryRowContext(ctx,
			"SELECT "+entryColumns+" FROM entries WHERE session_id = ? AND seq = ?",
			sessionID, seq-1,
		))
		if err != nil {
			return storage.Entry{}, fmt.Errorf("load previous entry: %w", err)
		}
	}

	entry, err = integrity.Seal(sessionID, uint64(seq), a, s.codec, prev, s.now())
	if err != nil {
		return storage.Entry{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO entries (session_id, seq, turn, format, encoded, event_hash, prev_hash, chain_hash, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.SessionID,
		int64(entry.Seq),
		strconv.FormatUint(a.Turn(), 10),
		string(entry.Format),
		entry.Encoded,
		entry.EventHash,
		entry.PrevHash,
		entry.ChainHash,
		toMillis(entry.RecordedAt),
	); err != nil {
		return storage.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Entry{}, fmt.Errorf("commit: %w", err)
	}

	span.SetAttributes(attribute.Int64("entry.seq", seq))
	s.logger.Debug().
		Str("session_id", sessionID).
		Uint64("seq", entry.Seq).
		Uint64("turn", a.Turn()).
		Str("chain_hash", entry.ChainHash).
		Msg("action appended")
	return entry, nil
}

// List returns entries after afterSeq, at most limit when limit > 0.
func (s *Store) List(ctx context.Context, sessionID string, afterSeq uint64, limit int) (entries []storage.Entry, err error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, storage.ErrSessionRequired
	}
	ctx, span := s.tracer.Start(ctx, "journal.List", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int64("after_seq", int64(afterSeq)),
		attribute.Int("limit", limit),
	))
	defer func() { endSpan(span, err) }()

	if _, err := s.headSeq(ctx, sessionID); err != nil {
		return nil, err
	}

	sqlLimit := int64(-1)
	if limit > 0 {
		sqlLimit = int64(limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE session_id = ? AND seq > ? ORDER BY seq LIMIT ?",
		sessionID, int64(afterSeq), sqlLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := s.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

// Head returns the latest entry for the session.
func (s *Store) Head(ctx context.Context, sessionID string) (entry storage.Entry, ok bool, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.Entry{}, false, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Entry{}, false, storage.ErrSessionRequired
	}
	ctx, span := s.tracer.Start(ctx, "journal.Head", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	seq, err := s.headSeq(ctx, sessionID)
	if err != nil {
		return storage.Entry{}, false, err
	}
	if seq == 0 {
		return storage.Entry{}, false, nil
	}
	entry, err = s.scanEntry(s.sqlDB.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE session_id = ? AND seq = ?",
		sessionID, seq,
	))
	if err != nil {
		return storage.Entry{}, false, fmt.Errorf("load head entry: %w", err)
	}
	return entry, true, nil
}

func (s *Store) headSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq int64
	err := s.sqlDB.QueryRowContext(ctx, "SELECT head_seq FROM sessions WHERE id = ?", sessionID).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	return seq, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one entries row and decodes the stored action. A row whose
// bytes no longer decode is still returned, with a zero Action, so that
// integrity.VerifyChain can report where the chain broke.
func (s *Store) scanEntry(row rowScanner) (storage.Entry, error) {
	var (
		entry      storage.Entry
		seq        int64
		format     string
		recordedAt int64
	)
	if err := row.Scan(
		&entry.SessionID,
		&seq,
		&format,
		&entry.Encoded,
		&entry.EventHash,
		&entry.PrevHash,
		&entry.ChainHash,
		&recordedAt,
	); err != nil {
		return storage.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	entry.Seq = uint64(seq)
	entry.Format = action.Format(format)
	entry.RecordedAt = fromMillis(recordedAt)

	codec, err := s.registry.Lookup(entry.Format)
	if err == nil {
		entry.Action, err = codec.Decode(entry.Encoded)
	}
	if err != nil {
		entry.Action = action.GameAction{}
		s.logger.Warn().Err(err).
			Str("session_id", entry.SessionID).
			Uint64("seq", entry.Seq).
			Msg("stored entry does not decode")
	}
	return entry, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
