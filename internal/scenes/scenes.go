// Package scenes builds initial grids. Every scene registers itself with the
// core registry under its name, so importing this package for side effects is
// enough to make them selectable by configuration.
package scenes

import (
	"strconv"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/tile"
)

// Default is the scene used when none is configured.
const Default = "walls"

// Names lists the registered scenes in sorted order.
func Names() []string { return core.SceneNames() }

// Lookup builds the named scene from its options.
func Lookup(name string, cfg map[string]string) (core.Scene, bool) {
	f, ok := core.Scenes()[name]
	if !ok {
		return nil, false
	}
	return f(cfg), true
}

func interior(c core.Canvas, fn func(x, y int)) {
	size := c.Size()
	for x := 1; x < size.W-1; x++ {
		for y := 1; y < size.H-1; y++ {
			fn(x, y)
		}
	}
}

func fill(c core.Canvas, x0, y0, x1, y1 int, t tile.Tile) {
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			c.Paint(x, y, t)
		}
	}
}

func parseFraction(cfg map[string]string, key string, dst *float64) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
		*dst = parsed
	}
}

func parseInt(cfg map[string]string, key string, dst *int) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil {
		*dst = parsed
	}
}
