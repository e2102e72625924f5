package host

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// environment reports the window size last seen by Layout and the monitor's
// device scale factor.
type environment struct {
	w, h     float64
	override float64
}

func (e *environment) WindowSize() (float64, float64) { return e.w, e.h }

func (e *environment) DevicePixelRatio() float64 {
	if e.override > 0 {
		return e.override
	}
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// scroller turns wheel input into scroll progress over a virtual document
// that is pages viewports tall.
type scroller struct {
	offset   float64
	viewport float64
	pages    float64
}

func (s *scroller) max() float64 {
	return math.Max(0, s.viewport*(s.pages-1))
}

// wheel applies a wheel delta (positive scrolls up) and reports the new
// progress and whether it changed.
func (s *scroller) wheel(dy, step float64) (float64, bool) {
	if dy == 0 {
		return s.progress(), false
	}
	before := s.offset
	s.offset = math.Min(s.max(), math.Max(0, s.offset-dy*step))
	return s.progress(), s.offset != before
}

// resize keeps the progress fraction when the viewport height changes.
func (s *scroller) resize(h float64) {
	p := s.progress()
	s.viewport = h
	s.offset = p * s.max()
}

func (s *scroller) progress() float64 {
	m := s.max()
	if m == 0 {
		return 0
	}
	return s.offset / m
}
