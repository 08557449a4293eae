package interaction

import (
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
)

// The interaction layer is entered from several call shapes (wire frames,
// scripted triggers, direct engine calls). Each shape funnels through one of
// these constructors so the dispatcher only ever sees a normalized request.

// RequestAt builds a request for a tool use aimed at a world position, with
// the duration given in seconds. Negative durations clamp to zero, which the
// dispatcher treats as instantaneous.
func RequestAt(performer, tool entity.Ref, target geo.Vec2, seconds float64) ActionRequest {
	if seconds < 0 {
		seconds = 0
	}
	return ActionRequest{
		Performer: performer,
		Tool:      tool,
		Target:    target,
		Duration:  time.Duration(seconds * float64(time.Second)),
	}
}

// RequestInstant builds a request that completes synchronously regardless of
// tool speed, used by triggers that only want the sound and the callback.
func RequestInstant(performer, tool entity.Ref, target geo.Vec2) ActionRequest {
	return ActionRequest{
		Performer: performer,
		Tool:      tool,
		Target:    target,
	}
}

// RequestBare builds a request with no tool: no speed scaling and no sound,
// only the timed progress registration.
func RequestBare(performer entity.Ref, target geo.Vec2, seconds float64) ActionRequest {
	return RequestAt(performer, entity.None, target, seconds)
}
