package backdrop

import (
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/geometry"
)

// Tick advances the state by one frame and records the frame into out,
// back to front: clear, vignette, hex grid, particles and links, data nodes,
// rain, sweep band, bursts and rings. now is the host's elapsed time and only
// drives the time-based pulses; motion advances per frame.
func (e *Engine) Tick(now time.Duration, out *draw.List) {
	e.ticks++
	e.applyScroll()
	e.easePointer()
	e.frame(now, out, true)
}

// Still records the current state into out without advancing it. Repeated
// calls with the same now produce the same frame.
func (e *Engine) Still(now time.Duration, out *draw.List) {
	e.applyScroll()
	e.frame(now, out, false)
}

func (e *Engine) frame(now time.Duration, out *draw.List, advance bool) {
	t := now.Seconds()
	out.Reset()
	out.Clear()
	if e.bounds.Empty() {
		if advance {
			e.ageBursts()
		}
		return
	}
	e.drawVignette(out)
	e.drawHex(out, t)
	e.stepParticles(out, advance)
	e.drawDataNodes(out, t)
	e.stepRain(out, advance)
	e.drawSweep(out)
	if advance {
		e.ageBursts()
	}
	e.drawBursts(out)
}

func (e *Engine) drawVignette(out *draw.List) {
	p, b := e.profile, e.bounds
	out.FillRadial(draw.Rect{W: b.W, H: b.H},
		b.W*0.5, b.H*p.VignetteCenterY,
		math.Min(b.W, b.H)*p.VignetteInner, math.Max(b.W, b.H)*p.VignetteOuterMul,
		draw.Stop{Offset: 0, Color: accent(p.VignetteAlpha)},
		draw.Stop{Offset: 1, Color: gg.Transparent},
	)
}

// ParallaxOffset returns the hex grid translation for the eased pointer.
func (e *Engine) ParallaxOffset() (dx, dy float64) {
	k := e.profile.Parallax
	return (0.5 - e.Pointer.EasedX) * k, (0.5 - e.Pointer.EasedY) * k
}

func (e *Engine) drawHex(out *draw.List, t float64) {
	p := e.profile
	dx, dy := e.ParallaxOffset()
	var pts [6]draw.Point
	for _, c := range e.Hex {
		a := p.HexBaseAlpha + p.HexAmplitude*(0.5+0.5*math.Sin(p.HexPulseRate*t+c.Phase))
		v := geometry.HexVertices(c.X+dx, c.Y+dy, p.HexSize)
		for k := range v {
			pts[k] = draw.Point{X: v[k].X, Y: v[k].Y}
		}
		out.StrokePolygon(p.HexWidth, accent(a), pts[:]...)
	}
}

func (e *Engine) stepParticles(out *draw.List, advance bool) {
	p, b := e.profile, e.bounds
	m := p.WrapMargin
	for i := range e.Particles {
		q := &e.Particles[i]
		if advance {
			q.X += q.VX
			q.Y += q.VY
			if q.X < -m {
				q.X = b.W + m
			} else if q.X > b.W+m {
				q.X = -m
			}
			if q.Y < -m {
				q.Y = b.H + m
			} else if q.Y > b.H+m {
				q.Y = -m
			}
		}
		out.FillCircle(q.X, q.Y, q.Radius, hsla(q.Hue, p.Saturation, p.Lightness, p.Alpha))
	}

	if !p.Links {
		return
	}
	maxD := p.LinkDistance
	for i := 0; i < len(e.Particles); i++ {
		a := &e.Particles[i]
		for j := i + 1; j < len(e.Particles); j++ {
			c := &e.Particles[j]
			dx, dy := a.X-c.X, a.Y-c.Y
			d2 := dx*dx + dy*dy
			if d2 >= maxD*maxD {
				continue
			}
			alpha := p.LinkAlpha * (1 - math.Sqrt(d2)/maxD)
			out.StrokeLine(a.X, a.Y, c.X, c.Y, p.LinkWidth, accent(alpha))
		}
	}
}

// drawDataNodes paints flickering dots whose positions depend only on index
// and time.
func (e *Engine) drawDataNodes(out *draw.List, t float64) {
	p, b := e.profile, e.bounds
	for i := 0; i < p.DataNodes; i++ {
		fi := float64(i)
		x := b.W * frac(0.13+fi*0.618034+0.015*math.Sin(t*0.4+fi))
		y := b.H * frac(0.29+fi*0.381966+0.015*math.Cos(t*0.3+fi*1.7))
		a := p.DataNodeAlpha * (0.5 + 0.5*math.Sin(3*t+fi*2.1))
		out.FillCircle(x, y, p.DataNodeRadius, accent(a))
	}
}

func (e *Engine) stepRain(out *draw.List, advance bool) {
	p, b := e.profile, e.bounds
	glyphs := config.RainGlyphs
	size := p.RainSize
	for i := range e.Rain {
		col := &e.Rain[i]
		x := col.X - size*0.3

		if col.Cursor >= -size && col.Cursor <= b.H+size {
			g := glyphAt(col.Index, int(math.Floor(col.Cursor/size)))
			if advance {
				g = e.rng.IntN(len(glyphs))
			}
			out.FillText(glyphs[g:g+1], x, col.Cursor, size, accent(p.RainAlpha))
		}
		for k := 1; k <= p.RainTrail; k++ {
			y := col.Cursor - float64(k)*size
			if y < -size || y > b.H+size {
				continue
			}
			g := glyphAt(col.Index, int(math.Floor(y/size)))
			a := p.RainAlpha * (1 - float64(k)/float64(p.RainTrail+1))
			out.FillText(glyphs[g:g+1], x, y, size, accent(a))
		}

		if !advance {
			continue
		}
		col.Cursor += p.RainStep
		if col.Cursor > b.H+p.RainMargin {
			col.Cursor = -size - e.rng.Float64()*b.H*0.5
		}
	}
}

func (e *Engine) drawSweep(out *draw.List) {
	p, b := e.profile, e.bounds
	y, h := e.sweepOffset, p.SweepHeight
	out.FillLinear(draw.Rect{Y: y, W: b.W, H: h}, 0, y, 0, y+h,
		draw.Stop{Offset: 0, Color: gg.Transparent},
		draw.Stop{Offset: 0.5, Color: accent(p.SweepAlpha)},
		draw.Stop{Offset: 1, Color: gg.Transparent},
	)
}

// ageBursts applies damping and gravity, ages every burst particle and ring
// and drops the expired ones.
func (e *Engine) ageBursts() {
	p := e.profile
	live := e.Bursts[:0]
	for _, q := range e.Bursts {
		q.VX *= p.BurstDamping
		q.VY = q.VY*p.BurstDamping + p.BurstGravity
		q.X += q.VX
		q.Y += q.VY
		q.Life -= q.Decay
		if q.Life > 0 {
			live = append(live, q)
		}
	}
	clear(e.Bursts[len(live):])
	e.Bursts = live

	rings := e.Rings[:0]
	for _, r := range e.Rings {
		r.Life -= p.RingDecay
		if r.Life > 0 {
			rings = append(rings, r)
		}
	}
	clear(e.Rings[len(rings):])
	e.Rings = rings
}

// drawBursts paints burst particles and rings at their remaining life.
func (e *Engine) drawBursts(out *draw.List) {
	p := e.profile
	for _, q := range e.Bursts {
		out.FillCircle(q.X, q.Y, q.Radius, hsla(q.Hue, p.Saturation, p.Lightness, q.Life))
	}
	for _, r := range e.Rings {
		radius := p.RingStart + (p.RingEnd-p.RingStart)*(1-r.Life)
		out.StrokeCircle(r.X, r.Y, radius, p.RingWidth, accent(p.RingAlpha*r.Life))
	}
}
