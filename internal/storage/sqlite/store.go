// Package sqlite implements the world journal over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/hollowfall/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/hollowfall/internal/storage"
	"github.com/louisbranch/hollowfall/internal/storage/sqlite/migrations"
	"github.com/louisbranch/hollowfall/internal/world/entity"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements the journal interfaces over a single SQLite file, so the
// action feed, sound log, and telemetry share one transaction boundary.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a journal store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendActionMessage persists one action-message pair.
func (s *Store) AppendActionMessage(ctx context.Context, record storage.ActionMessageRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO action_messages (performer, performer_text, others_text, at) VALUES (?, ?, ?, ?)`,
		string(record.Performer), record.PerformerText, record.OthersText, toMillis(record.At),
	)
	if err != nil {
		return fmt.Errorf("append action message: %w", err)
	}
	return nil
}

// AppendSoundEvent persists one networked-sound request.
func (s *Store) AppendSoundEvent(ctx context.Context, record storage.SoundEventRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sound_events (name, pos_x, pos_y, pitch, at) VALUES (?, ?, ?, ?, ?)`,
		record.Name, record.Position.X, record.Position.Y, record.Pitch, toMillis(record.At),
	)
	if err != nil {
		return fmt.Errorf("append sound event: %w", err)
	}
	return nil
}

// ListActionMessages returns up to limit most recent messages, oldest first.
func (s *Store) ListActionMessages(ctx context.Context, limit int) ([]storage.ActionMessageRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT sequence, performer, performer_text, others_text, at
		 FROM action_messages ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list action messages: %w", err)
	}
	defer rows.Close()

	var records []storage.ActionMessageRecord
	for rows.Next() {
		var record storage.ActionMessageRecord
		var performer string
		var at int64
		if err := rows.Scan(&record.Sequence, &performer, &record.PerformerText, &record.OthersText, &at); err != nil {
			return nil, fmt.Errorf("scan action message: %w", err)
		}
		record.Performer = entity.Ref(performer)
		record.At = fromMillis(at)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action messages: %w", err)
	}
	reverse(records)
	return records, nil
}

// ListSoundEvents returns up to limit most recent sound events, oldest first.
func (s *Store) ListSoundEvents(ctx context.Context, limit int) ([]storage.SoundEventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT sequence, name, pos_x, pos_y, pitch, at
		 FROM sound_events ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sound events: %w", err)
	}
	defer rows.Close()

	var records []storage.SoundEventRecord
	for rows.Next() {
		var record storage.SoundEventRecord
		var at int64
		if err := rows.Scan(&record.Sequence, &record.Name, &record.Position.X, &record.Position.Y, &record.Pitch, &at); err != nil {
			return nil, fmt.Errorf("scan sound event: %w", err)
		}
		record.At = fromMillis(at)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sound events: %w", err)
	}
	reverse(records)
	return records, nil
}

// AppendTelemetryEvent persists one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO telemetry_events (timestamp, severity, service, operation, detail) VALUES (?, ?, ?, ?, ?)`,
		toMillis(event.Timestamp), event.Severity, event.Service, event.Operation, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

func reverse[T any](values []T) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}

var _ storage.JournalStore = (*Store)(nil)
var _ storage.TelemetryStore = (*Store)(nil)
