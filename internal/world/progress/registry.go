// Package progress owns pending timed actions: registration, per-position
// occupancy, tick-driven completion, and cancellation.
//
// Every accepted registration fires its completion continuation exactly
// once, with ReasonCompleted when the deadline passes or ReasonCancelled
// when the action is interrupted or the registry shuts down.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/hollowfall/internal/errors"
	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
	"github.com/louisbranch/hollowfall/internal/world/interaction"
)

// EventType labels observer notifications.
type EventType string

const (
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventCancelled EventType = "cancelled"
)

// Event describes a registry state change for observers (gateway feed,
// journal).
type Event struct {
	Type      EventType
	HandleID  string
	Kind      string
	Performer entity.Ref
	Position  geo.Vec2
	Duration  time.Duration
}

// Handle is the opaque token returned for an accepted registration.
type Handle struct {
	id string
}

// ID returns the handle token.
func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

type registration struct {
	handle     *Handle
	kind       string
	pos        geo.Vec2
	posKey     string
	performer  entity.Ref
	duration   time.Duration
	deadline   time.Time
	onComplete interaction.CompletionFunc
	done       bool
}

// Registry tracks pending timed actions.
type Registry struct {
	mu       sync.Mutex
	clock    func() time.Time
	byID     map[string]*registration
	byPos    map[string]*registration
	observer func(Event)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithObserver registers a state-change observer. Observers run outside the
// registry lock and must not call back into the registry synchronously.
func WithObserver(observer func(Event)) Option {
	return func(r *Registry) {
		r.observer = observer
	}
}

// NewRegistry creates an empty progress registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock: time.Now,
		byID:  make(map[string]*registration),
		byPos: make(map[string]*registration),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start registers a timed action. It returns nil when the duration is not
// positive or another action already occupies the position; the caller
// treats nil as "action did not begin".
func (r *Registry) Start(kind string, pos geo.Vec2, duration time.Duration, onComplete interaction.CompletionFunc, performer entity.Ref) interaction.Handle {
	if duration <= 0 {
		return nil
	}

	posKey := pos.Key()

	r.mu.Lock()
	if _, occupied := r.byPos[posKey]; occupied {
		r.mu.Unlock()
		return nil
	}
	reg := &registration{
		handle:     &Handle{id: uuid.NewString()},
		kind:       kind,
		pos:        pos,
		posKey:     posKey,
		performer:  performer,
		duration:   duration,
		deadline:   r.clock().Add(duration),
		onComplete: onComplete,
	}
	r.byID[reg.handle.id] = reg
	r.byPos[posKey] = reg
	r.mu.Unlock()

	r.notify(Event{
		Type:      EventStarted,
		HandleID:  reg.handle.id,
		Kind:      kind,
		Performer: performer,
		Position:  pos,
		Duration:  duration,
	})
	return reg.handle
}

// Advance fires completions for every registration whose deadline has
// passed at now. Callbacks run outside the registry lock.
func (r *Registry) Advance(now time.Time) {
	r.mu.Lock()
	var due []*registration
	for id, reg := range r.byID {
		if reg.done || reg.deadline.After(now) {
			continue
		}
		reg.done = true
		delete(r.byID, id)
		delete(r.byPos, reg.posKey)
		due = append(due, reg)
	}
	r.mu.Unlock()

	for _, reg := range due {
		r.finish(reg, interaction.ReasonCompleted, EventCompleted)
	}
}

// Cancel interrupts the registration for the handle token, firing its
// continuation with ReasonCancelled.
func (r *Registry) Cancel(handleID string) error {
	r.mu.Lock()
	reg, ok := r.byID[handleID]
	if !ok || reg.done {
		r.mu.Unlock()
		return errors.WithMetadata(errors.CodeProgressHandleUnknown, "progress handle not found",
			map[string]string{"handle_id": handleID})
	}
	reg.done = true
	delete(r.byID, handleID)
	delete(r.byPos, reg.posKey)
	r.mu.Unlock()

	r.finish(reg, interaction.ReasonCancelled, EventCancelled)
	return nil
}

// CancelAll interrupts every pending registration. Called at teardown so no
// continuation is left unfired.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	var pending []*registration
	for id, reg := range r.byID {
		reg.done = true
		delete(r.byID, id)
		delete(r.byPos, reg.posKey)
		pending = append(pending, reg)
	}
	r.mu.Unlock()

	for _, reg := range pending {
		r.finish(reg, interaction.ReasonCancelled, EventCancelled)
	}
}

// Active returns the number of pending registrations.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Run drives the registry with a ticker until ctx ends, then cancels every
// pending registration.
func (r *Registry) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CancelAll()
			return
		case now := <-ticker.C:
			r.Advance(now)
		}
	}
}

func (r *Registry) finish(reg *registration, reason interaction.Reason, eventType EventType) {
	if reg.onComplete != nil {
		reg.onComplete(reason)
	}
	r.notify(Event{
		Type:      eventType,
		HandleID:  reg.handle.id,
		Kind:      reg.kind,
		Performer: reg.performer,
		Position:  reg.pos,
		Duration:  reg.duration,
	})
}

func (r *Registry) notify(event Event) {
	if r.observer != nil {
		r.observer(event)
	}
}
