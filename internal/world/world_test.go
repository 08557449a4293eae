package world

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
	"github.com/louisbranch/hollowfall/internal/world/interaction"
	"github.com/louisbranch/hollowfall/internal/world/progress"
)

// fakeClock steps time manually so timed actions complete deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func TestTimedToolUseEndToEnd(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	w := New(1, progress.WithClock(clock.Now))

	w.Entities.Put("item.crowbar", entity.ToolProfile{
		SpeedMultiplier: 2,
		Traits:          map[entity.Trait]struct{}{entity.TraitCrowbar: {}},
	})

	target := geo.Vec2{X: 4, Y: 9}
	msgs := interaction.Messages{
		StartSelf:    "You start prying.",
		StartOthers:  "survivor starts prying.",
		FinishSelf:   "You pry it open.",
		FinishOthers: "survivor pries it open.",
	}

	succeeded := false
	handle := w.Dispatcher.UseToolWithMessages(
		interaction.RequestAt("survivor", "item.crowbar", target, 10),
		msgs,
		func() { succeeded = true },
	)
	if handle == nil {
		t.Fatal("expected a handle for a timed action")
	}

	// The start pair and the tool sound land immediately.
	history := w.Chat.History(10)
	if len(history) != 1 || history[0].PerformerText != "You start prying." {
		t.Fatalf("history = %+v, want the start message", history)
	}
	sounds := w.Audio.Recent(10)
	if len(sounds) != 1 || sounds[0].Name != "crowbar_pry" {
		t.Fatalf("sounds = %+v, want crowbar_pry", sounds)
	}
	if succeeded {
		t.Fatal("onSuccess fired before completion")
	}

	// The crowbar halves the ten second request; five seconds is enough.
	w.Progress.Advance(clock.Advance(5 * time.Second))

	if !succeeded {
		t.Fatal("onSuccess did not fire on completion")
	}
	history = w.Chat.History(10)
	if len(history) != 2 || history[1].PerformerText != "You pry it open." {
		t.Fatalf("history = %+v, want the finish message", history)
	}
	if w.Progress.Active() != 0 {
		t.Fatalf("active = %d, want 0", w.Progress.Active())
	}
}

func TestCancelledToolUseSkipsFinish(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	w := New(1, progress.WithClock(clock.Now))

	succeeded := false
	handle := w.Dispatcher.UseToolWithMessages(
		interaction.RequestBare("survivor", geo.Vec2{X: 1, Y: 1}, 10),
		interaction.Messages{StartSelf: "You get to work.", FinishSelf: "You finish."},
		func() { succeeded = true },
	)
	if handle == nil {
		t.Fatal("expected a handle")
	}

	if err := w.Progress.Cancel(handle.ID()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	w.Progress.Advance(clock.Advance(time.Minute))

	if succeeded {
		t.Fatal("onSuccess fired after cancellation")
	}
	history := w.Chat.History(10)
	if len(history) != 1 {
		t.Fatalf("history = %+v, want only the start message", history)
	}
}

func TestRunCancelsPendingOnShutdown(t *testing.T) {
	w := New(1)

	var reason interaction.Reason
	fired := make(chan struct{})
	handle := w.Dispatcher.UseTool(
		interaction.RequestBare("survivor", geo.Vec2{X: 1, Y: 1}, 60),
		func(r interaction.Reason) {
			reason = r
			close(fired)
		},
	)
	if handle == nil {
		t.Fatal("expected a handle")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("continuation never fired")
	}
	if reason != interaction.ReasonCancelled {
		t.Fatalf("reason = %v, want cancelled", reason)
	}
}
