// Package interaction coordinates tool-use actions: it decides whether an
// action is instantaneous or timed, plays audio feedback, posts action
// messages, and hands the completion continuation to the progress registry.
//
// The package is pure orchestration. It owns no state beyond a seeded pitch
// source and holds no locks across collaborator calls; every behavior is a
// single synchronous decision with at most one asynchronous continuation.
package interaction

import (
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
)

// Reason reports how an action ended.
type Reason int

const (
	// ReasonCompleted means the action ran to completion.
	ReasonCompleted Reason = iota
	// ReasonCancelled means the action was interrupted before completing.
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CompletionFunc is a single-shot continuation invoked exactly once per
// accepted action, with the reason the action ended.
type CompletionFunc func(Reason)

// KindToolUse labels tool-use registrations in the progress registry.
const KindToolUse = "tool_use"

// ActionRequest is the normalized input for one tool-use invocation.
type ActionRequest struct {
	Performer entity.Ref
	// Tool may be None: the action proceeds with no speed scaling and no
	// sound.
	Tool     entity.Ref
	Target   geo.Vec2
	Duration time.Duration
}

// Messages carries the chat text pairs shown around a messaged tool use.
type Messages struct {
	StartSelf    string
	StartOthers  string
	FinishSelf   string
	FinishOthers string
}

// Handle is an opaque token for a pending timed action. Ownership stays with
// the progress registry; this layer only passes it back to callers.
type Handle interface {
	ID() string
}

// ProgressRunner registers timed actions. A nil handle means the
// registration was declined (for example, the position is occupied).
// The runner must invoke onComplete exactly once per accepted registration.
type ProgressRunner interface {
	Start(kind string, pos geo.Vec2, duration time.Duration, onComplete CompletionFunc, performer entity.Ref) Handle
}

// Messenger posts an action message pair: one text for the performer, one
// for nearby observers. Fire-and-forget.
type Messenger interface {
	AddActionMessage(performer entity.Ref, performerText, othersText string)
}

// SoundPlayer requests networked playback of a named sound. Fire-and-forget.
type SoundPlayer interface {
	PlayNetworkedAtPosition(sound string, pos geo.Vec2, pitch float64)
}

// CapabilityLookup resolves the tool profile of an entity, if it has one.
type CapabilityLookup interface {
	ToolProfile(ref entity.Ref) (entity.ToolProfile, bool)
}
