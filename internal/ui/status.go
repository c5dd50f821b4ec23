// Package ui draws the on-screen panels of the graphical runner.
package ui

import (
	"fmt"

	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

// Status is what the HUD reports about the running simulation.
type Status struct {
	Scene  string
	Tick   uint64
	Census grid.Census
	Brush  tile.Material
	Paused bool
}

// Lines formats the status for the panel header.
func (s Status) Lines() []string {
	state := "running"
	if s.Paused {
		state = "paused"
	}
	return []string{
		fmt.Sprintf("%s  tick %d  %s", s.Scene, s.Tick, state),
		fmt.Sprintf("sand %d  water %d", s.Census.Sand, s.Census.Water),
		fmt.Sprintf("air %d", s.Census.Air),
		fmt.Sprintf("brush %s", s.Brush),
	}
}

// Tracker is a sink that remembers the tick and census of the latest frame.
type Tracker struct {
	tick   uint64
	census grid.Census
}

func (t *Tracker) Render(f grid.Frame) error {
	t.tick = f.Tick
	t.census = f.Census()
	return nil
}

// Tick reports the tick of the last frame seen.
func (t *Tracker) Tick() uint64 { return t.tick }

// Census reports the material counts of the last frame seen.
func (t *Tracker) Census() grid.Census { return t.census }
