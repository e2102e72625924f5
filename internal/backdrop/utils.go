package backdrop

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/hero-backdrop/internal/config"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// frac returns the fractional part of v in [0, 1).
func frac(v float64) float64 {
	return v - math.Floor(v)
}

// accent returns the accent colour at alpha a.
func accent(a float64) gg.RGBA {
	return gg.RGBA{R: config.Accent[0], G: config.Accent[1], B: config.Accent[2], A: a}
}

// hsla converts hue (degrees), saturation and lightness (0-1) plus alpha.
func hsla(h, s, l, a float64) gg.RGBA {
	c := gg.HSL(h, s, l)
	c.A = a
	return c
}

// glyphAt picks a stable glyph for a rain cell.
func glyphAt(column, row int) int {
	h := uint32(column)*73856093 ^ uint32(row)*19349663
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return int(h % uint32(len(config.RainGlyphs)))
}
