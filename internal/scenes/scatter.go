package scenes

import (
	"hiekkapeli/internal/core"
	"hiekkapeli/internal/tile"
)

// ScatterConfig controls the random fill.
type ScatterConfig struct {
	// Density is the chance that an interior cell is filled at all.
	Density float64
	// WaterRatio is the share of filled cells that hold water instead of sand.
	WaterRatio float64
	// Humidity is the upper bound for the starting humidity of sand.
	Humidity int
}

// DefaultScatterConfig returns the default random fill.
func DefaultScatterConfig() ScatterConfig {
	return ScatterConfig{Density: 0.35, WaterRatio: 0.4, Humidity: 0}
}

// ScatterFromMap populates a ScatterConfig from a string map.
func ScatterFromMap(cfg map[string]string) ScatterConfig {
	c := DefaultScatterConfig()
	if cfg == nil {
		return c
	}
	parseFraction(cfg, "density", &c.Density)
	parseFraction(cfg, "water_ratio", &c.WaterRatio)
	parseInt(cfg, "humidity", &c.Humidity)
	if c.Humidity < 0 {
		c.Humidity = 0
	}
	if c.Humidity > 255 {
		c.Humidity = 255
	}
	return c
}

// Scatter fills the interior at random. The same seed always yields the same
// layout.
type Scatter struct {
	cfg ScatterConfig
}

// NewScatter returns a random fill scene.
func NewScatter(cfg ScatterConfig) *Scatter { return &Scatter{cfg: cfg} }

func (s *Scatter) Name() string { return "scatter" }

func (s *Scatter) Populate(c core.Canvas, seed int64) {
	rng := core.NewRNG(seed)
	interior(c, func(x, y int) {
		if !rng.Chance(s.cfg.Density) {
			return
		}
		if rng.Chance(s.cfg.WaterRatio) {
			c.Paint(x, y, tile.Water(0))
			return
		}
		c.Paint(x, y, tile.Sand(uint8(rng.IntN(s.cfg.Humidity+1))))
	})
}

func init() {
	core.Register("scatter", func(cfg map[string]string) core.Scene {
		return NewScatter(ScatterFromMap(cfg))
	})
}
