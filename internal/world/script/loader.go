// Package script loads Lua item definitions into the entity capability
// registry.
//
// World content is authored as small Lua scripts:
//
//	local crowbar = Item.new("item.crowbar")
//	crowbar:trait("Crowbar")
//	crowbar:speed(1.25)
//
// Every Item.new call is collected during the run; the script needs no
// return value.
package script

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/hollowfall/internal/errors"
	"github.com/louisbranch/hollowfall/internal/world/entity"
)

const itemTypeName = "item"

type itemDef struct {
	ref    entity.Ref
	speed  float64
	traits map[entity.Trait]struct{}
	errs   []error
}

// Loader evaluates item scripts and registers the resulting tool profiles.
type Loader struct {
	registry *entity.Registry
}

// NewLoader creates a loader targeting the given registry.
func NewLoader(registry *entity.Registry) *Loader {
	return &Loader{registry: registry}
}

// LoadFile evaluates one script file and registers its items. It returns
// the number of items registered.
func (l *Loader) LoadFile(path string) (int, error) {
	return l.load(func(state *lua.State) error {
		if err := lua.LoadFile(state, path, ""); err != nil {
			return errors.Wrap(errors.CodeScriptLoadFailed, fmt.Sprintf("load script %s", path), err)
		}
		return nil
	}, path)
}

// LoadString evaluates inline script source, for tests and seeds.
func (l *Loader) LoadString(source string) (int, error) {
	return l.load(func(state *lua.State) error {
		if err := lua.LoadString(state, source); err != nil {
			return errors.Wrap(errors.CodeScriptLoadFailed, "load inline script", err)
		}
		return nil
	}, "inline")
}

func (l *Loader) load(loadChunk func(*lua.State) error, origin string) (int, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	var defs []*itemDef
	registerItemType(state, &defs)

	if err := loadChunk(state); err != nil {
		return 0, err
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return 0, errors.Wrap(errors.CodeScriptLoadFailed, fmt.Sprintf("run script %s", origin), err)
	}

	registered := 0
	for _, def := range defs {
		if len(def.errs) > 0 {
			return registered, def.errs[0]
		}
		if def.ref == entity.None {
			return registered, errors.New(errors.CodeScriptInvalidItem, "item ref is required")
		}
		profile := entity.ToolProfile{
			SpeedMultiplier: def.speed,
			Traits:          def.traits,
		}
		if err := l.registry.Put(def.ref, profile); err != nil {
			return registered, err
		}
		registered++
	}
	return registered, nil
}

func registerItemType(state *lua.State, defs *[]*itemDef) {
	lua.NewMetaTable(state, itemTypeName)
	state.NewTable()
	lua.SetFunctions(state, itemMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: func(state *lua.State) int {
			ref := lua.CheckString(state, 1)
			def := &itemDef{
				ref:    entity.Ref(ref),
				traits: make(map[entity.Trait]struct{}),
			}
			*defs = append(*defs, def)
			state.PushUserData(def)
			lua.SetMetaTableNamed(state, itemTypeName)
			return 1
		}},
	}, 0)
	state.SetGlobal("Item")
}

var itemMethods = []lua.RegistryFunction{
	{Name: "trait", Function: itemTrait},
	{Name: "speed", Function: itemSpeed},
}

func itemTrait(state *lua.State) int {
	def := checkItem(state)
	name := lua.CheckString(state, 2)
	trait, ok := entity.ParseTrait(name)
	if !ok {
		def.errs = append(def.errs, errors.WithMetadata(errors.CodeScriptUnknownTrait,
			fmt.Sprintf("unknown trait %q on item %s", name, def.ref),
			map[string]string{"trait": name, "item": string(def.ref)}))
		return 0
	}
	def.traits[trait] = struct{}{}
	return 0
}

func itemSpeed(state *lua.State) int {
	def := checkItem(state)
	value := lua.CheckNumber(state, 2)
	if value <= 0 {
		def.errs = append(def.errs, errors.WithMetadata(errors.CodeScriptInvalidItem,
			fmt.Sprintf("speed must be positive on item %s", def.ref),
			map[string]string{"item": string(def.ref)}))
		return 0
	}
	def.speed = value
	return 0
}

func checkItem(state *lua.State) *itemDef {
	ud := lua.CheckUserData(state, 1, itemTypeName)
	if def, ok := ud.(*itemDef); ok && def != nil {
		return def
	}
	lua.ArgumentError(state, 1, "item expected")
	return nil
}
