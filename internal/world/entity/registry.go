// Package entity provides opaque entity references and the capability
// registry used to look up tool profiles.
//
// The registry replaces engine-side component access: interaction code never
// walks an object graph, it queries capabilities by reference.
package entity

import (
	"strings"
	"sync"

	"github.com/louisbranch/hollowfall/internal/errors"
)

// Ref is an opaque reference to a world entity.
type Ref string

// None is the absent entity reference.
const None Ref = ""

// Trait is a categorical tag on an item, used to select audio feedback.
type Trait string

const (
	TraitCrowbar     Trait = "Crowbar"
	TraitScrewdriver Trait = "Screwdriver"
	TraitWirecutter  Trait = "Wirecutter"
	TraitWrench      Trait = "Wrench"
	TraitWelder      Trait = "Welder"
)

// ParseTrait maps a case-insensitive trait name to its canonical value.
func ParseTrait(name string) (Trait, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crowbar":
		return TraitCrowbar, true
	case "screwdriver":
		return TraitScrewdriver, true
	case "wirecutter":
		return TraitWirecutter, true
	case "wrench":
		return TraitWrench, true
	case "welder":
		return TraitWelder, true
	default:
		return "", false
	}
}

// ToolProfile captures the tool capabilities of an entity.
type ToolProfile struct {
	// SpeedMultiplier scales action durations; values <= 0 mean no scaling.
	SpeedMultiplier float64
	Traits          map[Trait]struct{}
}

// HasTrait reports whether the profile carries the trait.
func (p ToolProfile) HasTrait(trait Trait) bool {
	_, ok := p.Traits[trait]
	return ok
}

// Registry indexes tool profiles by entity reference.
type Registry struct {
	mu       sync.RWMutex
	profiles map[Ref]ToolProfile
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[Ref]ToolProfile)}
}

// Put registers or replaces the tool profile for ref.
func (r *Registry) Put(ref Ref, profile ToolProfile) error {
	if strings.TrimSpace(string(ref)) == "" {
		return errors.New(errors.CodeEntityEmptyRef, "entity ref is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[ref] = profile
	return nil
}

// ToolProfile returns the profile registered for ref, if any.
func (r *Registry) ToolProfile(ref Ref) (ToolProfile, bool) {
	if r == nil || ref == None {
		return ToolProfile{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[ref]
	return profile, ok
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
