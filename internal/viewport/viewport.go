// Package viewport tracks logical and device pixel dimensions of the drawing
// surface.
package viewport

import (
	"math"

	"github.com/iburimskiy/hero-backdrop/internal/config"
)

// Environment reports the host window size in logical pixels and the raw
// device pixel ratio.
type Environment interface {
	WindowSize() (w, h float64)
	DevicePixelRatio() float64
}

// Surface is the sizing side of a drawable surface.
type Surface interface {
	SetBackingSize(w, h int)
	SetDisplaySize(w, h float64)
	SetScale(s float64)
}

// State is a snapshot of the viewport after a resize.
type State struct {
	Width, Height float64 // logical px
	Ratio         float64
	BackingWidth  int
	BackingHeight int
}

// Empty reports whether the viewport has no drawable area.
func (s State) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Tracker owns the viewport state. It is mutated only by Resize.
type Tracker struct {
	env      Environment
	surface  Surface
	state    State
	onChange []func(State)
}

// NewTracker creates a tracker. Resize must be called once before use.
func NewTracker(env Environment, surface Surface) *Tracker {
	return &Tracker{env: env, surface: surface}
}

// OnChange registers fn to run after every Resize.
func (t *Tracker) OnChange(fn func(State)) {
	t.onChange = append(t.onChange, fn)
}

// State returns the current viewport.
func (t *Tracker) State() State { return t.state }

// Resize reads the environment, applies backing size, display size and scale
// to the surface and notifies change callbacks.
func (t *Tracker) Resize() State {
	w, h := t.env.WindowSize()
	ratio := config.ClampPixelRatio(t.env.DevicePixelRatio())

	s := State{Width: w, Height: h, Ratio: ratio}
	if !s.Empty() {
		s.BackingWidth = int(math.Ceil(w * ratio))
		s.BackingHeight = int(math.Ceil(h * ratio))
	}
	t.state = s

	if t.surface != nil {
		t.surface.SetBackingSize(s.BackingWidth, s.BackingHeight)
		t.surface.SetDisplaySize(math.Max(w, 0), math.Max(h, 0))
		t.surface.SetScale(ratio)
	}
	for _, fn := range t.onChange {
		fn(s)
	}
	return s
}

// Static is an Environment with fixed values.
type Static struct {
	W, H  float64
	Ratio float64
}

func (s *Static) WindowSize() (float64, float64) { return s.W, s.H }
func (s *Static) DevicePixelRatio() float64      { return s.Ratio }
