package scenes

import (
	"strings"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/tile"
)

// ArtConfig describes a hand-drawn layout in glyphs.
type ArtConfig struct {
	// Rows are drawn top to bottom. Rows are separated by '/' or newlines
	// when given as a single option string.
	Rows []string
	// X and Y offset the drawing. At zero the first glyph lands on the
	// top-left wall, so a drawing can include the border for readability.
	X, Y int
}

// ArtFromMap populates an ArtConfig from a string map.
func ArtFromMap(cfg map[string]string) ArtConfig {
	var c ArtConfig
	if cfg == nil {
		return c
	}
	c.Rows = SplitRows(cfg["art"])
	parseInt(cfg, "x", &c.X)
	parseInt(cfg, "y", &c.Y)
	return c
}

// SplitRows breaks an art string into rows.
func SplitRows(s string) []string {
	if s == "" {
		return nil
	}
	return strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\n' })
}

// Art paints glyphs as tiles. Glyphs on the border and unknown glyphs are
// ignored.
type Art struct {
	cfg ArtConfig
}

// NewArt returns a scene drawing the given rows.
func NewArt(cfg ArtConfig) *Art { return &Art{cfg: cfg} }

func (a *Art) Name() string { return "art" }

func (a *Art) Populate(c core.Canvas, _ int64) {
	for dy, row := range a.cfg.Rows {
		dx := 0
		for _, r := range row {
			if t, ok := tile.ParseGlyph(r); ok {
				c.Paint(a.cfg.X+dx, a.cfg.Y+dy, t)
			}
			dx++
		}
	}
}

func init() {
	core.Register("art", func(cfg map[string]string) core.Scene {
		return NewArt(ArtFromMap(cfg))
	})
}
