package backdrop

import (
	"math"

	"github.com/iburimskiy/hero-backdrop/internal/geometry"
)

// PointerMove records a pointer or touch position given in canvas-relative
// logical pixels.
func (e *Engine) PointerMove(x, y float64) {
	if e.bounds.Empty() {
		return
	}
	e.Pointer.RawX = clamp01(x / e.bounds.W)
	e.Pointer.RawY = clamp01(y / e.bounds.H)
}

// Scroll stores document scroll progress. It is applied at the start of the
// next frame, so any number of scroll events costs one recompute per frame.
func (e *Engine) Scroll(progress float64) {
	e.scrollNext = clamp01(progress)
	e.scrollDirty = true
}

// Click emits a burst of particles at evenly spaced angles around (x, y) and
// starts a ring there.
func (e *Engine) Click(x, y float64) {
	p := e.profile
	n := p.BurstCount
	for i := 0; i < n; i++ {
		a := float64(i)*2*math.Pi/float64(n) + (e.rng.Float64()*2-1)*p.BurstJitter
		speed := p.BurstSpeedMin + e.rng.Float64()*(p.BurstSpeedMax-p.BurstSpeedMin)
		e.Bursts = append(e.Bursts, geometry.Particle{
			X:      x,
			Y:      y,
			VX:     math.Cos(a) * speed,
			VY:     math.Sin(a) * speed,
			Radius: p.BurstRadiusMin + e.rng.Float64()*(p.BurstRadiusMax-p.BurstRadiusMin),
			Hue:    p.HueMin + e.rng.Float64()*(p.HueMax-p.HueMin),
			Life:   1,
			Decay:  p.BurstDecay,
		})
	}
	e.Rings = append(e.Rings, Ring{X: x, Y: y, Life: 1})
}

func (e *Engine) applyScroll() {
	if !e.scrollDirty {
		return
	}
	e.scroll = e.scrollNext
	e.scrollDirty = false
	e.scrollUpdate++
	e.sweepOffset = e.sweepFor(e.scroll)
}

func (e *Engine) easePointer() {
	k := e.profile.PointerEase
	e.Pointer.EasedX += (e.Pointer.RawX - e.Pointer.EasedX) * k
	e.Pointer.EasedY += (e.Pointer.RawY - e.Pointer.EasedY) * k
}
