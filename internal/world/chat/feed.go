// Package chat provides the action-message feed: the performer sees one
// text, nearby observers see another.
package chat

import (
	"sync"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
)

// maxFeedMessages bounds retained history; older entries roll off.
const maxFeedMessages = 1000

// Message is one action-message pair on the feed.
type Message struct {
	Sequence      int64
	Performer     entity.Ref
	PerformerText string
	OthersText    string
	At            time.Time
}

// Feed is a bounded action-message log with subscriber fan-out. Posting is
// fire-and-forget: slow subscribers drop messages rather than block the
// poster.
type Feed struct {
	mu           sync.Mutex
	clock        func() time.Time
	nextSequence int64
	messages     []Message
	subscribers  map[chan Message]struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		clock:       time.Now,
		subscribers: make(map[chan Message]struct{}),
	}
}

// WithClock overrides the wall clock, for tests.
func (f *Feed) WithClock(clock func() time.Time) *Feed {
	if clock != nil {
		f.clock = clock
	}
	return f
}

// AddActionMessage appends a message pair and fans it out to subscribers.
func (f *Feed) AddActionMessage(performer entity.Ref, performerText, othersText string) {
	f.mu.Lock()
	f.nextSequence++
	msg := Message{
		Sequence:      f.nextSequence,
		Performer:     performer,
		PerformerText: performerText,
		OthersText:    othersText,
		At:            f.clock().UTC(),
	}
	f.messages = append(f.messages, msg)
	if len(f.messages) > maxFeedMessages {
		f.messages = f.messages[len(f.messages)-maxFeedMessages:]
	}
	targets := make([]chan Message, 0, len(f.subscribers))
	for sub := range f.subscribers {
		targets = append(targets, sub)
	}
	f.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub <- msg:
		default:
		}
	}
}

// Subscribe registers a buffered subscriber channel. The returned stop
// function unregisters and closes it.
func (f *Feed) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	sub := make(chan Message, buffer)

	f.mu.Lock()
	f.subscribers[sub] = struct{}{}
	f.mu.Unlock()

	stop := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[sub]; ok {
			delete(f.subscribers, sub)
			close(sub)
		}
		f.mu.Unlock()
	}
	return sub, stop
}

// History returns up to limit most recent messages, oldest first.
func (f *Feed) History(limit int) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit <= 0 || limit > len(f.messages) {
		limit = len(f.messages)
	}
	out := make([]Message, limit)
	copy(out, f.messages[len(f.messages)-limit:])
	return out
}
