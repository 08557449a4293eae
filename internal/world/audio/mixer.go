// Package audio fans out networked sound events to connected clients.
//
// The mixer does no signal processing; it records which sound should play
// where, at what pitch, and lets the gateway distribute playback.
package audio

import (
	"sync"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/geo"
)

// maxRecentSounds bounds retained history; older entries roll off.
const maxRecentSounds = 256

// Sound is one networked playback request.
type Sound struct {
	Sequence int64
	Name     string
	Position geo.Vec2
	Pitch    float64
	At       time.Time
}

// Mixer is a bounded sound log with subscriber fan-out. Playback requests
// are fire-and-forget: slow subscribers drop events rather than block.
type Mixer struct {
	mu           sync.Mutex
	clock        func() time.Time
	nextSequence int64
	recent       []Sound
	subscribers  map[chan Sound]struct{}
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{
		clock:       time.Now,
		subscribers: make(map[chan Sound]struct{}),
	}
}

// WithClock overrides the wall clock, for tests.
func (m *Mixer) WithClock(clock func() time.Time) *Mixer {
	if clock != nil {
		m.clock = clock
	}
	return m
}

// PlayNetworkedAtPosition records a playback request and fans it out.
func (m *Mixer) PlayNetworkedAtPosition(name string, pos geo.Vec2, pitch float64) {
	m.mu.Lock()
	m.nextSequence++
	snd := Sound{
		Sequence: m.nextSequence,
		Name:     name,
		Position: pos,
		Pitch:    pitch,
		At:       m.clock().UTC(),
	}
	m.recent = append(m.recent, snd)
	if len(m.recent) > maxRecentSounds {
		m.recent = m.recent[len(m.recent)-maxRecentSounds:]
	}
	targets := make([]chan Sound, 0, len(m.subscribers))
	for sub := range m.subscribers {
		targets = append(targets, sub)
	}
	m.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub <- snd:
		default:
		}
	}
}

// Subscribe registers a buffered subscriber channel. The returned stop
// function unregisters and closes it.
func (m *Mixer) Subscribe(buffer int) (<-chan Sound, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	sub := make(chan Sound, buffer)

	m.mu.Lock()
	m.subscribers[sub] = struct{}{}
	m.mu.Unlock()

	stop := func() {
		m.mu.Lock()
		if _, ok := m.subscribers[sub]; ok {
			delete(m.subscribers, sub)
			close(sub)
		}
		m.mu.Unlock()
	}
	return sub, stop
}

// Recent returns up to limit most recent sounds, oldest first.
func (m *Mixer) Recent(limit int) []Sound {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.recent) {
		limit = len(m.recent)
	}
	out := make([]Sound, limit)
	copy(out, m.recent[len(m.recent)-limit:])
	return out
}
