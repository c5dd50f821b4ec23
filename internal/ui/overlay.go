//go:build ebiten

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/render"
)

// Overlay draws optional debugging visuals on top of the simulation: the
// pressure field and sand humidity. It is a sink so the masks are sampled
// while the frame is still valid.
type Overlay struct {
	scale        int
	maxPressure  func() int
	showPressure bool
	showHumidity bool

	mask    []float32
	maskBuf []byte
	maskImg *ebiten.Image
	dirty   bool
}

// NewOverlay constructs an overlay for a w×h grid. maxPressure reports the
// saturation bound used to normalise the pressure mask.
func NewOverlay(w, h, scale int, maxPressure func() int) *Overlay {
	return &Overlay{
		scale:       scale,
		maxPressure: maxPressure,
		maskBuf:     make([]byte, 4*w*h),
		maskImg:     ebiten.NewImage(w, h),
	}
}

// Update toggles the layers. It reports whether the visible layers changed,
// in which case the caller should present the current frame again.
func (o *Overlay) Update() bool {
	changed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		o.showPressure = !o.showPressure
		o.showHumidity = false
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHumidity = !o.showHumidity
		o.showPressure = false
		changed = true
	}
	return changed
}

func (o *Overlay) Render(f grid.Frame) error {
	switch {
	case o.showPressure:
		o.mask = render.PressureMask(o.mask, f.View, o.maxPressure())
		render.FillMaskRGBA(o.maskBuf, o.mask, render.PositiveTint, render.NegativeTint)
	case o.showHumidity:
		o.mask = render.HumidityMask(o.mask, f.View)
		render.FillMaskRGBA(o.maskBuf, o.mask, render.HumidTint, render.HumidTint)
	default:
		return nil
	}
	o.dirty = true
	return nil
}

// Draw renders the active layer onto the screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showPressure && !o.showHumidity {
		return
	}
	if o.dirty {
		o.maskImg.WritePixels(o.maskBuf)
		o.dirty = false
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
