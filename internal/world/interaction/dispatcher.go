package interaction

import (
	"math/rand"
	"sync"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
)

// Pitch variation bounds for networked tool sounds.
const (
	pitchMin = 0.8
	pitchMax = 1.2
)

// soundByTrait maps traits to sound names in priority order; the first
// matching trait wins.
var soundByTrait = []struct {
	trait entity.Trait
	sound string
}{
	{entity.TraitCrowbar, "crowbar_pry"},
	{entity.TraitScrewdriver, "screwdriver_turn"},
	{entity.TraitWirecutter, "wirecutter_snip"},
	{entity.TraitWrench, "wrench_ratchet"},
	{entity.TraitWelder, "welder_arc"},
}

// Deps wires the dispatcher to its collaborators.
type Deps struct {
	Progress     ProgressRunner
	Chat         Messenger
	Audio        SoundPlayer
	Capabilities CapabilityLookup
}

// Dispatcher coordinates tool-use actions against the progress, chat, and
// audio collaborators.
type Dispatcher struct {
	deps Deps

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDispatcher creates a dispatcher. The seed drives pitch variation;
// given the same seed, successive sounds carry the same pitch sequence.
func NewDispatcher(deps Deps, seed int64) *Dispatcher {
	return &Dispatcher{
		deps: deps,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// UseTool performs one tool-use action.
//
// The tool's speed multiplier scales the requested duration. When the
// effective duration is zero or less the action is instantaneous: the tool
// sound plays, onComplete fires synchronously with ReasonCompleted, and no
// handle is returned. Otherwise the action is registered with the progress
// runner; the sound plays only if the registration was accepted, and the
// handle (or nil on rejection) is returned. A missing tool degrades to no
// scaling and no sound.
func (d *Dispatcher) UseTool(req ActionRequest, onComplete CompletionFunc) Handle {
	effective := d.effectiveDuration(req)

	if effective <= 0 {
		d.PlayToolSound(req.Tool, req.Target)
		if onComplete != nil {
			onComplete(ReasonCompleted)
		}
		return nil
	}

	if d.deps.Progress == nil {
		return nil
	}
	handle := d.deps.Progress.Start(KindToolUse, req.Target, effective, onComplete, req.Performer)
	if handle == nil {
		return nil
	}
	d.PlayToolSound(req.Tool, req.Target)
	return handle
}

// UseToolWithMessages performs a tool-use action bracketed by chat feedback.
//
// The start message pair is posted before anything else, so it shows even
// when the action is instantaneous or the registration is declined. The
// finish pair and onSuccess fire only when the action completes; a
// cancellation skips both.
func (d *Dispatcher) UseToolWithMessages(req ActionRequest, msgs Messages, onSuccess func()) Handle {
	if d.deps.Chat != nil {
		d.deps.Chat.AddActionMessage(req.Performer, msgs.StartSelf, msgs.StartOthers)
	}

	wrapped := func(reason Reason) {
		if reason != ReasonCompleted {
			return
		}
		if d.deps.Chat != nil {
			d.deps.Chat.AddActionMessage(req.Performer, msgs.FinishSelf, msgs.FinishOthers)
		}
		if onSuccess != nil {
			onSuccess()
		}
	}

	return d.UseTool(req, wrapped)
}

// PlayToolSound plays the sound mapped to the tool's highest-priority trait
// at the target position, with uniform pitch variation. A missing tool or a
// tool with no mapped trait plays nothing.
func (d *Dispatcher) PlayToolSound(tool entity.Ref, target geo.Vec2) {
	if tool == entity.None || d.deps.Audio == nil || d.deps.Capabilities == nil {
		return
	}
	profile, ok := d.deps.Capabilities.ToolProfile(tool)
	if !ok {
		return
	}
	for _, mapping := range soundByTrait {
		if profile.HasTrait(mapping.trait) {
			d.deps.Audio.PlayNetworkedAtPosition(mapping.sound, target, d.nextPitch())
			return
		}
	}
}

// effectiveDuration applies the tool's speed multiplier, when present and
// positive, to the requested duration.
func (d *Dispatcher) effectiveDuration(req ActionRequest) time.Duration {
	if req.Tool == entity.None || d.deps.Capabilities == nil {
		return req.Duration
	}
	profile, ok := d.deps.Capabilities.ToolProfile(req.Tool)
	if !ok || profile.SpeedMultiplier <= 0 {
		return req.Duration
	}
	return time.Duration(float64(req.Duration) / profile.SpeedMultiplier)
}

func (d *Dispatcher) nextPitch() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return pitchMin + d.rng.Float64()*(pitchMax-pitchMin)
}
