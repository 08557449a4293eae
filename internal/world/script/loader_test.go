package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/hollowfall/internal/errors"
	"github.com/louisbranch/hollowfall/internal/world/entity"
)

func TestLoadStringRegistersItems(t *testing.T) {
	registry := entity.NewRegistry()
	loader := NewLoader(registry)

	count, err := loader.LoadString(`
local crowbar = Item.new("item.crowbar")
crowbar:trait("Crowbar")
crowbar:speed(1.25)

local welder = Item.new("item.welder")
welder:trait("Welder")
`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if count != 2 {
		t.Fatalf("registered = %d, want 2", count)
	}

	crowbar, ok := registry.ToolProfile("item.crowbar")
	if !ok {
		t.Fatal("crowbar not registered")
	}
	if !crowbar.HasTrait(entity.TraitCrowbar) {
		t.Fatal("crowbar missing trait")
	}
	if crowbar.SpeedMultiplier != 1.25 {
		t.Fatalf("crowbar speed = %v, want 1.25", crowbar.SpeedMultiplier)
	}

	welder, ok := registry.ToolProfile("item.welder")
	if !ok {
		t.Fatal("welder not registered")
	}
	if welder.SpeedMultiplier != 0 {
		t.Fatalf("welder speed = %v, want 0 (unset)", welder.SpeedMultiplier)
	}
}

func TestLoadStringUnknownTrait(t *testing.T) {
	loader := NewLoader(entity.NewRegistry())

	_, err := loader.LoadString(`
local spoon = Item.new("item.spoon")
spoon:trait("Spoon")
`)
	if err == nil {
		t.Fatal("expected error for unknown trait")
	}
	domainErr, ok := err.(*errors.Error)
	if !ok || domainErr.Code != errors.CodeScriptUnknownTrait {
		t.Fatalf("error = %v, want code %s", err, errors.CodeScriptUnknownTrait)
	}
}

func TestLoadStringInvalidSpeed(t *testing.T) {
	loader := NewLoader(entity.NewRegistry())

	_, err := loader.LoadString(`
local crowbar = Item.new("item.crowbar")
crowbar:speed(0)
`)
	if err == nil {
		t.Fatal("expected error for non-positive speed")
	}
	domainErr, ok := err.(*errors.Error)
	if !ok || domainErr.Code != errors.CodeScriptInvalidItem {
		t.Fatalf("error = %v, want code %s", err, errors.CodeScriptInvalidItem)
	}
}

func TestLoadStringSyntaxError(t *testing.T) {
	loader := NewLoader(entity.NewRegistry())

	_, err := loader.LoadString(`this is not lua`)
	if err == nil {
		t.Fatal("expected error for invalid source")
	}
	domainErr, ok := err.(*errors.Error)
	if !ok || domainErr.Code != errors.CodeScriptLoadFailed {
		t.Fatalf("error = %v, want code %s", err, errors.CodeScriptLoadFailed)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.lua")
	source := `
local wrench = Item.new("item.wrench")
wrench:trait("Wrench")
wrench:speed(2)
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	registry := entity.NewRegistry()
	loader := NewLoader(registry)

	count, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if count != 1 {
		t.Fatalf("registered = %d, want 1", count)
	}
	profile, ok := registry.ToolProfile("item.wrench")
	if !ok || !profile.HasTrait(entity.TraitWrench) || profile.SpeedMultiplier != 2 {
		t.Fatalf("profile = %+v, ok = %v", profile, ok)
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader(entity.NewRegistry())
	if _, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
