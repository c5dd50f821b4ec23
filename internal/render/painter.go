//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"hiekkapeli/internal/grid"
)

// Painter is a sink that uploads each frame to a texture and draws it scaled.
type Painter struct {
	w, h  int
	img   *ebiten.Image
	buf   []byte
	dirty bool
}

// NewPainter allocates a texture for a w×h grid.
func NewPainter(w, h int) *Painter {
	return &Painter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, 4*w*h),
	}
}

// Render converts the frame to texels. The upload happens on the next Draw.
func (p *Painter) Render(f grid.Frame) error {
	if f.Width() != p.w || f.Height() != p.h {
		return errSizeMismatch(f.Width(), f.Height(), p.w, p.h)
	}
	FillRGBA(p.buf, f.View)
	p.dirty = true
	return nil
}

// Draw blits the latest frame onto dst at the given integer scale.
func (p *Painter) Draw(dst *ebiten.Image, scale int) {
	if p.dirty {
		p.img.WritePixels(p.buf)
		p.dirty = false
	}
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
