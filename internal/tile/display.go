package tile

import "image/color"

const (
	GlyphAir   = ' '
	GlyphSand  = '#'
	GlyphWater = '~'
)

// Glyph maps the tile to its console character.
func (t Tile) Glyph() rune {
	switch t.material {
	case MaterialSand:
		return GlyphSand
	case MaterialWater:
		return GlyphWater
	default:
		return GlyphAir
	}
}

// ParseGlyph is the inverse of Glyph. '.' is accepted as Air so text scenes
// can mark empty space visibly.
func ParseGlyph(r rune) (Tile, bool) {
	switch r {
	case GlyphAir, '.':
		return Air(0), true
	case GlyphSand:
		return Sand(0), true
	case GlyphWater:
		return Water(0), true
	}
	return Tile{}, false
}

var (
	sandDry   = color.NRGBA{R: 222, G: 196, B: 132, A: 255}
	sandWet   = color.NRGBA{R: 120, G: 96, B: 60, A: 255}
	waterLow  = color.NRGBA{R: 40, G: 90, B: 200, A: 255}
	waterHigh = color.NRGBA{R: 10, G: 30, B: 110, A: 255}
)

// Texel maps the tile to the color uploaded for graphical sinks. Air is
// transparent apart from a faint tint for non-zero pressure.
func (t Tile) Texel() color.RGBA {
	switch t.material {
	case MaterialSand:
		return toRGBA(blendColors(sandDry, sandWet, float64(t.value)/255))
	case MaterialWater:
		p := int8(t.value)
		if p < 0 {
			p = 0
		}
		return toRGBA(blendColors(waterLow, waterHigh, float64(p)/127))
	default:
		p := int(int8(t.value))
		if p == 0 {
			return color.RGBA{}
		}
		if p < 0 {
			return color.RGBA{B: uint8(min(-p, 127)), A: uint8(min(-p, 127))}
		}
		return color.RGBA{R: uint8(min(p, 127)), A: uint8(min(p, 127))}
	}
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(float64(base.R)*inv + float64(overlay.R)*w + 0.5),
		G: uint8(float64(base.G)*inv + float64(overlay.G)*w + 0.5),
		B: uint8(float64(base.B)*inv + float64(overlay.B)*w + 0.5),
		A: uint8(float64(base.A)*inv + float64(overlay.A)*w + 0.5),
	}
}
