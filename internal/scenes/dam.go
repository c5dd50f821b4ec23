package scenes

import (
	"hiekkapeli/internal/core"
	"hiekkapeli/internal/tile"
)

// DamConfig places a wet sand wall holding back a reservoir.
type DamConfig struct {
	// Wall is the column of the dam. Non-positive values centre it.
	Wall int
	// Thickness is the dam width in columns.
	Thickness int
	// Level is the filled fraction of the reservoir height.
	Level float64
}

// DefaultDamConfig returns the default dam.
func DefaultDamConfig() DamConfig {
	return DamConfig{Thickness: 2, Level: 0.75}
}

// DamFromMap populates a DamConfig from a string map.
func DamFromMap(cfg map[string]string) DamConfig {
	c := DefaultDamConfig()
	if cfg == nil {
		return c
	}
	parseInt(cfg, "wall", &c.Wall)
	parseInt(cfg, "thickness", &c.Thickness)
	if c.Thickness < 1 {
		c.Thickness = 1
	}
	parseFraction(cfg, "level", &c.Level)
	return c
}

// Dam fills the left side with water up to Level behind a saturated sand
// wall. The wall dries from its dry face until it slumps and the water
// breaks through.
type Dam struct {
	cfg DamConfig
}

// NewDam returns a dam scene.
func NewDam(cfg DamConfig) *Dam { return &Dam{cfg: cfg} }

func (d *Dam) Name() string { return "dam" }

func (d *Dam) Populate(c core.Canvas, _ int64) {
	size := c.Size()
	wall := d.cfg.Wall
	if wall <= 0 {
		wall = size.W / 2
	}
	top := size.H - 1 - int(float64(size.H-2)*d.cfg.Level)
	fill(c, 1, top, wall, size.H-1, tile.Water(0))
	fill(c, wall, 1, wall+d.cfg.Thickness, size.H-1, tile.Sand(255))
}

func init() {
	core.Register("dam", func(cfg map[string]string) core.Scene {
		return NewDam(DamFromMap(cfg))
	})
}
