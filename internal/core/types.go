package core

import (
	"sort"

	"hiekkapeli/internal/tile"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Canvas is the write surface a Scene paints its initial tiles onto.
type Canvas interface {
	Size() Size
	// Paint writes an interior tile and reports whether (x, y) was interior.
	Paint(x, y int, t tile.Tile) bool
}

// Scene populates a freshly reset grid before the first tick.
type Scene interface {
	Name() string
	Populate(c Canvas, seed int64)
}

// Factory constructs a Scene using an optional configuration map.
type Factory func(cfg map[string]string) Scene

var scenes = map[string]Factory{}

// Register adds a scene factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	scenes[name] = f
}

// Scenes exposes the registry of available scene factories.
func Scenes() map[string]Factory {
	return scenes
}

// SceneNames lists the registered scenes in sorted order.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
