package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"github.com/louisbranch/freeciv-nostr/internal/platform/id"
	platformotel "github.com/louisbranch/freeciv-nostr/internal/platform/otel"
	"github.com/louisbranch/freeciv-nostr/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/freeciv-nostr/internal/platform/timeouts"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage/sqlite/migrations"
)

const migrationRoot = "journal"

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed journal.
type Store struct {
	sqlDB    *sql.DB
	codec    action.Codec
	registry *action.Registry
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() (string, error)

	// appendMu serializes appends from this process; SQLite's busy timeout
	// covers other processes.
	appendMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the format new entries are stored in.
func WithCodec(codec action.Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (creating if needed) a journal at path and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cleanPath, timeouts.SQLiteBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{
		sqlDB:    sqlDB,
		codec:    action.JSONCodec{},
		registry: action.DefaultRegistry(),
		logger:   zerolog.Nop(),
		tracer:   platformotel.Tracer("freeciv-nostr/journal/sqlite"),
		now:      time.Now,
		newID:    id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	applied, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.JournalFS, migrationRoot)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, name := range applied {
		store.logger.Info().Str("migration", name).Msg("applied journal migration")
	}
	store.logger.Debug().Str("path", cleanPath).Str("format", string(store.codec.Format())).Msg("journal opened")
	return store, nil
}

// Close closes the underlying SQLite database.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

var _ storage.Journal = (*Store)(nil)
