// Package render converts frames into pixel buffers for graphical sinks.
package render

import (
	"image/color"

	"hiekkapeli/internal/grid"
)

// FillRGBA writes one row-major RGBA texel per tile of v into buf, which must
// hold at least 4*W*H bytes.
func FillRGBA(buf []byte, v grid.View) {
	w, h := v.Width(), v.Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			putRGBA(buf, (y*w+x)*4, v.At(x, y).Texel())
		}
	}
}

func putRGBA(buf []byte, base int, c color.RGBA) {
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}
