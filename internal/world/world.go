// Package world assembles the simulation subsystems: entity capabilities,
// the progress registry, the chat feed, the audio mixer, and the tool-use
// dispatcher that coordinates them.
package world

import (
	"context"
	"time"

	"github.com/louisbranch/hollowfall/internal/world/audio"
	"github.com/louisbranch/hollowfall/internal/world/chat"
	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/interaction"
	"github.com/louisbranch/hollowfall/internal/world/progress"
)

// World bundles the live simulation subsystems for one server process.
type World struct {
	Entities   *entity.Registry
	Progress   *progress.Registry
	Chat       *chat.Feed
	Audio      *audio.Mixer
	Dispatcher *interaction.Dispatcher
}

// New wires a world from a pitch seed and optional progress options.
func New(seed int64, progressOpts ...progress.Option) *World {
	entities := entity.NewRegistry()
	registry := progress.NewRegistry(progressOpts...)
	feed := chat.NewFeed()
	mixer := audio.NewMixer()

	dispatcher := interaction.NewDispatcher(interaction.Deps{
		Progress:     registry,
		Chat:         feed,
		Audio:        mixer,
		Capabilities: entities,
	}, seed)

	return &World{
		Entities:   entities,
		Progress:   registry,
		Chat:       feed,
		Audio:      mixer,
		Dispatcher: dispatcher,
	}
}

// Run drives the progress tick loop until ctx ends. Pending actions are
// cancelled on the way out so every continuation fires.
func (w *World) Run(ctx context.Context, tick time.Duration) {
	w.Progress.Run(ctx, tick)
}
