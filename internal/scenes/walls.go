package scenes

import "hiekkapeli/internal/core"

// Walls leaves the interior as calm air inside the border walls.
type Walls struct{}

func (Walls) Name() string { return "walls" }

func (Walls) Populate(core.Canvas, int64) {}

func init() {
	core.Register("walls", func(map[string]string) core.Scene { return Walls{} })
}
