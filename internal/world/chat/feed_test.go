package chat

import (
	"fmt"
	"testing"
	"time"
)

func TestAddActionMessageAssignsSequenceAndTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	feed := NewFeed().WithClock(func() time.Time { return at })

	feed.AddActionMessage("survivor", "You start prying.", "survivor starts prying.")
	feed.AddActionMessage("survivor", "You pry it open.", "survivor pries it open.")

	history := feed.History(0)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Sequence != 1 || history[1].Sequence != 2 {
		t.Fatalf("sequences = %d, %d, want 1, 2", history[0].Sequence, history[1].Sequence)
	}
	if !history[0].At.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", history[0].At, at)
	}
	if history[1].PerformerText != "You pry it open." {
		t.Fatalf("performer text = %q", history[1].PerformerText)
	}
}

func TestHistoryBounded(t *testing.T) {
	feed := NewFeed()
	for i := 0; i < maxFeedMessages+10; i++ {
		feed.AddActionMessage("survivor", fmt.Sprintf("msg %d", i), "")
	}

	history := feed.History(0)
	if len(history) != maxFeedMessages {
		t.Fatalf("history length = %d, want %d", len(history), maxFeedMessages)
	}
	if history[0].PerformerText != "msg 10" {
		t.Fatalf("oldest retained = %q, want msg 10", history[0].PerformerText)
	}
}

func TestHistoryLimit(t *testing.T) {
	feed := NewFeed()
	for i := 0; i < 5; i++ {
		feed.AddActionMessage("survivor", fmt.Sprintf("msg %d", i), "")
	}

	history := feed.History(2)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].PerformerText != "msg 3" || history[1].PerformerText != "msg 4" {
		t.Fatalf("history = %q, %q, want msg 3, msg 4", history[0].PerformerText, history[1].PerformerText)
	}
}

func TestSubscribeReceivesMessages(t *testing.T) {
	feed := NewFeed()
	sub, stop := feed.Subscribe(4)
	defer stop()

	feed.AddActionMessage("survivor", "hello", "survivor says hello")

	select {
	case msg := <-sub:
		if msg.PerformerText != "hello" {
			t.Fatalf("message = %q, want hello", msg.PerformerText)
		}
	default:
		t.Fatal("subscriber did not receive the message")
	}
}

func TestSubscribeStopIsIdempotent(t *testing.T) {
	feed := NewFeed()
	_, stop := feed.Subscribe(1)
	stop()
	stop()

	// Posting after unsubscribe must not panic on a closed channel.
	feed.AddActionMessage("survivor", "after stop", "")
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	feed := NewFeed()
	sub, stop := feed.Subscribe(1)
	defer stop()

	feed.AddActionMessage("survivor", "first", "")
	feed.AddActionMessage("survivor", "second", "")

	if got := len(sub); got != 1 {
		t.Fatalf("buffered messages = %d, want 1 (drop on full)", got)
	}
}
