// Package storage defines the persistence interfaces for the world journal.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ActionMessageRecord is a persisted action-message pair.
type ActionMessageRecord struct {
	Sequence      int64
	Performer     entity.Ref
	PerformerText string
	OthersText    string
	At            time.Time
}

// SoundEventRecord is a persisted networked-sound request.
type SoundEventRecord struct {
	Sequence int64
	Name     string
	Position geo.Vec2
	Pitch    float64
	At       time.Time
}

// TelemetryEvent records one operational event.
type TelemetryEvent struct {
	Timestamp time.Time
	Severity  string
	Service   string
	Operation string
	Detail    string
}

// JournalStore persists the world interaction journal.
type JournalStore interface {
	AppendActionMessage(ctx context.Context, record ActionMessageRecord) error
	AppendSoundEvent(ctx context.Context, record SoundEventRecord) error
	ListActionMessages(ctx context.Context, limit int) ([]ActionMessageRecord, error)
	ListSoundEvents(ctx context.Context, limit int) ([]SoundEventRecord, error)
}

// TelemetryStore persists operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
