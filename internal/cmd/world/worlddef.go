package world

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/louisbranch/hollowfall/internal/errors"
)

// defaultTickMS drives the progress loop when no definition overrides it.
const defaultTickMS = 100

// Definition is the TOML world definition: simulation cadence and the item
// scripts to load at startup.
type Definition struct {
	TickMS  int64    `toml:"tick_ms"`
	Scripts []string `toml:"scripts"`
}

// LoadDefinition reads a world definition file. An empty path yields the
// default definition.
func LoadDefinition(path string) (Definition, error) {
	def := Definition{TickMS: defaultTickMS}
	if path == "" {
		return def, nil
	}

	if _, err := toml.DecodeFile(path, &def); err != nil {
		return Definition{}, fmt.Errorf("decode world definition %s: %w", path, err)
	}
	if def.TickMS <= 0 {
		return Definition{}, errors.WithMetadata(errors.CodeWorldDefInvalid,
			fmt.Sprintf("tick_ms must be positive in %s", path),
			map[string]string{"path": path})
	}
	return def, nil
}
