// Package backdrop is the animation engine behind the page hero: ambient
// particles with linking lines, a pulsing hex grid with pointer parallax,
// code rain, a scroll-driven sweep band and click bursts.
//
// All state is owned by one Engine and mutated from a single goroutine: the
// host's update loop delivers both input events and frame ticks.
package backdrop

import (
	"math/rand/v2"

	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/geometry"
)

// Pointer holds the raw normalized pointer position and its eased follower.
type Pointer struct {
	RawX, RawY     float64
	EasedX, EasedY float64
}

// Ring is an expanding click ring. Life runs from 1 down to 0.
type Ring struct {
	X, Y float64
	Life float64
}

// Engine is the mutable animation state for one backdrop instance.
type Engine struct {
	profile config.Profile
	rng     *rand.Rand
	bounds  geometry.Bounds

	Particles []geometry.Particle
	Hex       []geometry.HexCell
	Rain      []geometry.RainColumn
	Bursts    []geometry.Particle
	Rings     []Ring
	Pointer   Pointer

	scroll       float64 // applied progress
	scrollNext   float64
	scrollDirty  bool
	scrollUpdate int // number of times progress was applied
	sweepOffset  float64

	ticks int
}

// NewEngine builds the initial state for a viewport of size b.
func NewEngine(rng *rand.Rand, p config.Profile, b geometry.Bounds) *Engine {
	e := &Engine{
		profile: p,
		rng:     rng,
		Pointer: Pointer{RawX: 0.5, RawY: 0.5, EasedX: 0.5, EasedY: 0.5},
	}
	e.Resize(b)
	return e
}

// Profile returns the active parameter set.
func (e *Engine) Profile() config.Profile { return e.profile }

// Bounds returns the current viewport size.
func (e *Engine) Bounds() geometry.Bounds { return e.bounds }

// Ticks returns the number of frames advanced.
func (e *Engine) Ticks() int { return e.ticks }

// SweepOffset returns the top edge of the sweep band in logical pixels.
func (e *Engine) SweepOffset() float64 { return e.sweepOffset }

// Resize rebuilds the hex grid and rain columns for b. Ambient particles are
// kept; they are only created here when none exist yet, which happens when
// the engine started on an empty viewport.
func (e *Engine) Resize(b geometry.Bounds) {
	e.bounds = b
	e.Hex = geometry.BuildHexGrid(e.rng, b, e.profile.HexSize)
	e.Rain = geometry.BuildRainColumns(e.rng, b, e.profile.RainPitch)
	if len(e.Particles) == 0 {
		n := geometry.ParticleCount(b, e.profile)
		e.Particles = geometry.BuildParticles(e.rng, n, b, e.profile)
	}
	e.sweepOffset = e.sweepFor(e.scroll)
}

// sweepFor maps scroll progress onto the band's travel, from fully above the
// viewport to fully below it.
func (e *Engine) sweepFor(progress float64) float64 {
	h := e.profile.SweepHeight
	return -h + clamp01(progress)*(e.bounds.H+h)
}
