package render

import (
	"image/color"
	"math"

	"hiekkapeli/internal/grid"
)

// Mask tints used by the debug overlay.
var (
	PositiveTint = color.RGBA{R: 255, G: 120, B: 40}
	NegativeTint = color.RGBA{R: 64, G: 164, B: 223}
	HumidTint    = color.RGBA{R: 90, G: 200, B: 120}
)

// PressureMask returns the air and water pressure of v as row-major
// intensities in [-1, 1], reusing dst when it is large enough.
func PressureMask(dst []float32, v grid.View, maxPressure int) []float32 {
	if maxPressure <= 0 {
		maxPressure = 127
	}
	return sample(dst, v, func(x, y int) float32 {
		t := v.At(x, y)
		if t.IsSand() {
			return 0
		}
		return float32(t.Pressure()) / float32(maxPressure)
	})
}

// HumidityMask returns sand humidity of v as row-major intensities in [0, 1].
func HumidityMask(dst []float32, v grid.View) []float32 {
	return sample(dst, v, func(x, y int) float32 {
		return float32(v.At(x, y).Humidity()) / 255
	})
}

func sample(dst []float32, v grid.View, fn func(x, y int) float32) []float32 {
	w, h := v.Width(), v.Height()
	if cap(dst) < w*h {
		dst = make([]float32, w*h)
	}
	dst = dst[:w*h]
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			dst[y*w+x] = fn(x, y)
		}
	}
	return dst
}

// FillMaskRGBA renders mask intensities as translucent glow. Positive values
// use pos and negative values use neg; zero is fully transparent.
func FillMaskRGBA(buf []byte, mask []float32, pos, neg color.RGBA) {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	for i, m := range mask {
		base := i * 4
		tint := pos
		intensity := float64(m)
		if intensity < 0 {
			intensity = -intensity
			tint = neg
		}
		intensity = clamp01(intensity)
		if intensity == 0 {
			putRGBA(buf, base, color.RGBA{})
			continue
		}
		alpha := math.Round(maxAlpha * math.Pow(intensity, intensityBias))
		glow := (glowBase + glowRange*math.Sqrt(intensity)) * alpha / 255
		putRGBA(buf, base, color.RGBA{
			R: scaleColorComponent(tint.R, glow),
			G: scaleColorComponent(tint.G, glow),
			B: scaleColorComponent(tint.B, glow),
			A: uint8(alpha),
		})
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
