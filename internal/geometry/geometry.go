// Package geometry builds the static layout and initial state of the backdrop:
// ambient particles, the hex tiling and the code-rain columns.
package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/hero-backdrop/internal/config"
)

// Bounds is a viewport size in logical pixels.
type Bounds struct {
	W, H float64
}

// Empty reports whether b has no area.
func (b Bounds) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Particle is an ambient or burst particle. Life and Decay are only used by
// burst particles.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Hue    float64
	Life   float64
	Decay  float64
}

// HexCell is one anchor of the hex tiling.
type HexCell struct {
	X, Y  float64
	Phase float64
}

// RainColumn is one code-rain column.
type RainColumn struct {
	Index  int
	X      float64
	Cursor float64
}

// Point is a 2D point.
type Point struct {
	X, Y float64
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// ParticleCount derives the ambient particle count from the viewport area,
// clamped to the profile range. An empty viewport has no particles.
func ParticleCount(b Bounds, p config.Profile) int {
	if b.Empty() || p.Density <= 0 {
		return 0
	}
	n := int(math.Floor(b.W * b.H / p.Density))
	return max(p.MinParticles, min(p.MaxParticles, n))
}

// BuildParticles returns count ambient particles placed uniformly in b.
func BuildParticles(rng *rand.Rand, count int, b Bounds, p config.Profile) []Particle {
	if b.Empty() || count <= 0 {
		return nil
	}
	out := make([]Particle, count)
	for i := range out {
		speed := uniform(rng, p.SpeedMin, p.SpeedMax)
		angle := rng.Float64() * 2 * math.Pi
		out[i] = Particle{
			X:      rng.Float64() * b.W,
			Y:      rng.Float64() * b.H,
			VX:     math.Cos(angle) * speed,
			VY:     math.Sin(angle) * speed,
			Radius: uniform(rng, p.RadiusMin, p.RadiusMax),
			Hue:    uniform(rng, p.HueMin, p.HueMax),
		}
	}
	return out
}

// HexSpacing returns the column width and row height of an offset-row tiling
// of pointy-top hexagons with circumradius size.
func HexSpacing(size float64) (colW, rowH float64) {
	return math.Sqrt(3) * size, 1.5 * size
}

// hexMargin is the number of extra cells laid out beyond each edge.
const hexMargin = 2

// BuildHexGrid tiles b plus a two-cell margin on every side. Odd rows are
// shifted right by half a column.
func BuildHexGrid(rng *rand.Rand, b Bounds, size float64) []HexCell {
	if b.Empty() || size <= 0 {
		return nil
	}
	colW, rowH := HexSpacing(size)
	cols := int(math.Ceil(b.W/colW)) + 2*hexMargin + 1
	rows := int(math.Ceil(b.H/rowH)) + 2*hexMargin + 1
	x0 := -hexMargin * colW
	y0 := -hexMargin * rowH

	cells := make([]HexCell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		shift := 0.0
		if r%2 == 1 {
			shift = colW / 2
		}
		for c := 0; c < cols; c++ {
			cells = append(cells, HexCell{
				X:     x0 + float64(c)*colW + shift,
				Y:     y0 + float64(r)*rowH,
				Phase: rng.Float64() * 2 * math.Pi,
			})
		}
	}
	return cells
}

// HexVertices returns the six vertices of a pointy-top hexagon centred on
// (cx, cy).
func HexVertices(cx, cy, size float64) [6]Point {
	var v [6]Point
	for k := range v {
		a := -math.Pi/2 + float64(k)*math.Pi/3
		v[k] = Point{X: cx + size*math.Cos(a), Y: cy + size*math.Sin(a)}
	}
	return v
}

// BuildRainColumns lays out one column per pitch across the width. Cursors
// start above the top edge so columns enter at staggered times.
func BuildRainColumns(rng *rand.Rand, b Bounds, pitch float64) []RainColumn {
	if b.Empty() || pitch <= 0 {
		return nil
	}
	n := int(math.Ceil(b.W / pitch))
	cols := make([]RainColumn, n)
	for i := range cols {
		cols[i] = RainColumn{
			Index:  i,
			X:      float64(i)*pitch + pitch/2,
			Cursor: -rng.Float64() * b.H,
		}
	}
	return cols
}
