// Package telemetry records operational events into the journal store.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/hollowfall/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store   storage.TelemetryStore
	service string
	clock   func() time.Time
}

// NewEmitter creates a new telemetry emitter attributed to service.
func NewEmitter(store storage.TelemetryStore, service string) *Emitter {
	return &Emitter{store: store, service: service, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, severity Severity, operation, detail string) error {
	if e == nil || e.store == nil {
		return nil
	}
	clock := e.clock
	if clock == nil {
		clock = time.Now
	}
	return e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		Timestamp: clock().UTC(),
		Severity:  string(severity),
		Service:   e.service,
		Operation: operation,
		Detail:    detail,
	})
}
