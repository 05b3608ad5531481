package main

import (
	"fmt"
	"io/fs"

	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/scene"
)

type report struct {
	name     string
	geometry int
	coins    int
	keys     int
	enemies  int
	shooters int
	doors    int
	skipped  int
	frames   int
	final    scene.Status
}

func (r report) String() string {
	return fmt.Sprintf("ok   %s: geometry=%d coins=%d keys=%d enemies=%d shooters=%d doors=%d skipped=%d | after %d frames: %s hp=%d/%d at (%.0f, %.0f)",
		r.name, r.geometry, r.coins, r.keys, r.enemies, r.shooters, r.doors, r.skipped,
		r.frames, r.final.State, r.final.Health, r.final.MaxHealth, r.final.X, r.final.Y)
}

// check loads name from fsys and runs frames of idle simulation. A player
// that dies or leaves the level while standing still is reported as an
// error.
func check(fsys fs.FS, name string, frames int, seed uint64) (report, error) {
	s, err := scene.New(name, scene.Options{Seed: seed, Levels: fsys})
	if err != nil {
		return report{}, err
	}
	loaded := s.Loaded()
	r := report{
		name:     loaded.Name,
		geometry: len(loaded.Geometry),
		coins:    loaded.Coins,
		keys:     loaded.Keys,
		enemies:  loaded.Enemies,
		shooters: loaded.Shooters,
		doors:    loaded.Doors,
		skipped:  loaded.Unhandled,
		frames:   frames,
	}
	if r.geometry == 0 {
		return r, fmt.Errorf("level %q has no collision geometry", name)
	}

	for i := 0; i < frames; i++ {
		s.Update(component.Input{})
		s.DrainEvents()
	}
	r.final = s.Status()
	if r.final.State == component.PlayerDead {
		return r, fmt.Errorf("level %q: idle player died within %d frames", name, frames)
	}
	if !r.final.Grounded {
		return r, fmt.Errorf("level %q: idle player is not standing on ground after %d frames", name, frames)
	}
	return r, nil
}
