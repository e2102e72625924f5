package config

import (
	"math"
	"regexp"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// Device pixel ratio cap
	MaxPixelRatio = 2.0

	// Viewports narrower than this use the compact profile
	CompactBreakpoint = 768

	// Scroll: virtual document height as a multiple of the viewport height
	DocumentPages = 3.0
	WheelStep     = 48.0

	FrameRate = 60
)

// Accent is the warm yellow used by every pass (rgb 250, 204, 21).
var Accent = [3]float64{250.0 / 255, 204.0 / 255, 21.0 / 255}

// RainGlyphs is the symbol set sampled by the code-rain columns.
const RainGlyphs = "01<>/{}[]=+*#$%&ABCDEF"

var mobileAgent = regexp.MustCompile(`Mobi|Android`)

// Profile is one density/visual parameter set.
type Profile struct {
	Name string

	// Particles
	Density      float64 // viewport area per particle, bigger means fewer
	MinParticles int
	MaxParticles int
	SpeedMin     float64 // px per frame
	SpeedMax     float64
	RadiusMin    float64
	RadiusMax    float64
	HueMin       float64
	HueMax       float64
	Saturation   float64
	Lightness    float64
	Alpha        float64
	WrapMargin   float64

	// Linking lines
	Links        bool
	LinkDistance float64
	LinkAlpha    float64
	LinkWidth    float64

	// Vignette
	VignetteCenterY  float64 // fraction of height
	VignetteInner    float64 // fraction of min(w, h)
	VignetteAlpha    float64
	VignetteOuterMul float64 // fraction of max(w, h)

	// Hex grid
	HexSize      float64
	HexBaseAlpha float64
	HexAmplitude float64
	HexWidth     float64
	HexPulseRate float64 // radians per second multiplier on t
	Parallax     float64 // px of hex offset at the pointer extremes
	PointerEase  float64

	// Data nodes
	DataNodes      int
	DataNodeRadius float64
	DataNodeAlpha  float64

	// Code rain
	RainPitch  float64 // column spacing in px
	RainStep   float64 // cursor advance per frame
	RainSize   float64 // glyph size in px
	RainTrail  int
	RainMargin float64
	RainAlpha  float64

	// Sweep band
	SweepHeight float64
	SweepAlpha  float64

	// Click bursts
	BurstCount     int
	BurstJitter    float64 // radians
	BurstSpeedMin  float64
	BurstSpeedMax  float64
	BurstRadiusMin float64
	BurstRadiusMax float64
	BurstDamping   float64
	BurstGravity   float64
	BurstDecay     float64 // lifetime lost per frame

	// Ripple ring
	RingDecay float64
	RingStart float64
	RingEnd   float64
	RingAlpha float64
	RingWidth float64
}

// Full is the desktop profile.
var Full = Profile{
	Name: "full",

	Density:      16000,
	MinParticles: 40,
	MaxParticles: 140,
	SpeedMin:     0.12,
	SpeedMax:     0.47,
	RadiusMin:    1,
	RadiusMax:    3.2,
	HueMin:       45,
	HueMax:       70,
	Saturation:   0.95,
	Lightness:    0.58,
	Alpha:        0.22,
	WrapMargin:   10,

	Links:        true,
	LinkDistance: 130,
	LinkAlpha:    0.085,
	LinkWidth:    0.6,

	VignetteCenterY:  0.35,
	VignetteInner:    0.15,
	VignetteAlpha:    0.06,
	VignetteOuterMul: 1,

	HexSize:      30,
	HexBaseAlpha: 0.02,
	HexAmplitude: 0.05,
	HexWidth:     1,
	HexPulseRate: 2,
	Parallax:     24,
	PointerEase:  0.06,

	DataNodes:      18,
	DataNodeRadius: 1.6,
	DataNodeAlpha:  0.08,

	RainPitch:  22,
	RainStep:   3,
	RainSize:   12,
	RainTrail:  6,
	RainMargin: 40,
	RainAlpha:  0.12,

	SweepHeight: 180,
	SweepAlpha:  0.05,

	BurstCount:     26,
	BurstJitter:    0.15,
	BurstSpeedMin:  1.5,
	BurstSpeedMax:  4,
	BurstRadiusMin: 1.4,
	BurstRadiusMax: 2.8,
	BurstDamping:   0.96,
	BurstGravity:   0.06,
	BurstDecay:     1.0 / 64,

	RingDecay: 1.0 / 32,
	RingStart: 4,
	RingEnd:   60,
	RingAlpha: 0.5,
	RingWidth: 1.5,
}

// Compact is the small-viewport / mobile profile.
var Compact = func() Profile {
	p := Full
	p.Name = "compact"
	p.Density = 24000
	p.MinParticles = 22
	p.MaxParticles = 70
	p.SpeedMin = 0.08
	p.SpeedMax = 0.30
	p.RadiusMax = 2.8
	p.Alpha = 0.28
	p.Links = false
	p.HexSize = 40
	p.Parallax = 12
	p.DataNodes = 10
	p.RainPitch = 30
	p.RainTrail = 4
	p.SweepHeight = 120
	return p
}()

// ProfileFor returns the compact or full profile.
func ProfileFor(compact bool) Profile {
	if compact {
		return Compact
	}
	return Full
}

// IsCompact reports whether a viewport of the given logical width, on a client
// with the given user agent, should use the compact profile.
func IsCompact(width float64, userAgent string) bool {
	return width < CompactBreakpoint || mobileAgent.MatchString(userAgent)
}

// ClampPixelRatio caps the device pixel ratio; non-finite or non-positive
// ratios fall back to 1.
func ClampPixelRatio(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return math.Min(r, MaxPixelRatio)
}
