package backdrop

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/geometry"
)

const frameDur = time.Second / config.FrameRate

func newEngine(p config.Profile, w, h float64) *Engine {
	return NewEngine(rand.New(rand.NewPCG(7, 11)), p, geometry.Bounds{W: w, H: h})
}

func run(e *Engine, l *draw.List, frames int) {
	for i := 0; i < frames; i++ {
		e.Tick(time.Duration(e.Ticks()+1)*frameDur, l)
	}
}

func TestEngineDesktopParticleCount(t *testing.T) {
	e := newEngine(config.Full, 1024, 768)
	if got := len(e.Particles); got != 49 {
		t.Errorf("particles = %d, want 49", got)
	}
}

func TestTickPassOrder(t *testing.T) {
	e := newEngine(config.Full, 1024, 768)
	e.Click(100, 100)
	var l draw.List
	e.Tick(frameDur, &l)

	cmds := l.Commands()
	if cmds[0].Op != draw.OpClear {
		t.Fatalf("first command = %v, want clear", cmds[0].Op)
	}
	if cmds[1].Op != draw.OpFillRadial {
		t.Fatalf("second command = %v, want vignette", cmds[1].Op)
	}
	for i := 0; i < len(e.Hex); i++ {
		if op := cmds[2+i].Op; op != draw.OpStrokePolygon {
			t.Fatalf("command %d = %v, want hex polygon", 2+i, op)
		}
	}
	for i := 0; i < len(e.Particles); i++ {
		if op := cmds[2+len(e.Hex)+i].Op; op != draw.OpFillCircle {
			t.Fatalf("command %d = %v, want particle", 2+len(e.Hex)+i, op)
		}
	}

	// Each pass's op must not appear again once a later pass started.
	pass := map[draw.Op]int{
		draw.OpClear:         0,
		draw.OpFillRadial:    1,
		draw.OpStrokePolygon: 2,
		draw.OpStrokeLine:    3,
		draw.OpFillText:      5,
		draw.OpFillLinear:    6,
		draw.OpStrokeCircle:  7,
	}
	last := 0
	sweepAt := -1
	for i, c := range cmds {
		if c.Op == draw.OpFillLinear {
			sweepAt = i
		}
		n, ok := pass[c.Op]
		if !ok {
			continue
		}
		if n < last {
			t.Fatalf("command %d (%v) out of order", i, c.Op)
		}
		last = n
	}
	if l.Count(draw.OpFillLinear) != 1 {
		t.Fatalf("sweep bands = %d, want 1", l.Count(draw.OpFillLinear))
	}
	after := 0
	for _, c := range cmds[sweepAt+1:] {
		if c.Op == draw.OpFillCircle {
			after++
		}
	}
	if after != len(e.Bursts) {
		t.Errorf("burst circles after sweep = %d, want %d", after, len(e.Bursts))
	}
	if l.Count(draw.OpStrokeCircle) != 1 {
		t.Errorf("rings = %d, want 1", l.Count(draw.OpStrokeCircle))
	}
}

func TestAmbientParticlesStayWithinWrapMargin(t *testing.T) {
	for _, p := range []config.Profile{config.Full, config.Compact} {
		e := newEngine(p, 640, 360)
		var l draw.List
		m := p.WrapMargin
		for f := 0; f < 3000; f++ {
			run(e, &l, 1)
			for i, q := range e.Particles {
				if q.X < -m || q.X > 640+m || q.Y < -m || q.Y > 360+m {
					t.Fatalf("%s frame %d: particle %d at (%v,%v) escaped", p.Name, f, i, q.X, q.Y)
				}
			}
		}
	}
}

func TestBurstLifecycle(t *testing.T) {
	e := newEngine(config.Full, 1024, 768)
	e.Click(100, 100)

	if len(e.Bursts) != 26 {
		t.Fatalf("bursts = %d, want 26", len(e.Bursts))
	}
	for i, b := range e.Bursts {
		if b.Life != 1 {
			t.Fatalf("burst %d life = %v, want 1", i, b.Life)
		}
		if b.X != 100 || b.Y != 100 {
			t.Fatalf("burst %d at (%v,%v)", i, b.X, b.Y)
		}
	}

	frames := int(math.Round(1 / config.Full.BurstDecay))
	var l draw.List
	prev := 1.0
	for f := 1; f < frames; f++ {
		run(e, &l, 1)
		if len(e.Bursts) != 26 {
			t.Fatalf("frame %d: bursts = %d, want 26", f, len(e.Bursts))
		}
		life := e.Bursts[0].Life
		if life >= prev {
			t.Fatalf("frame %d: life %v did not decrease from %v", f, life, prev)
		}
		prev = life
		for _, b := range e.Bursts {
			if b.Life <= 0 {
				t.Fatalf("frame %d: burst with life %v kept", f, b.Life)
			}
		}
	}
	run(e, &l, 1)
	if len(e.Bursts) != 0 {
		t.Errorf("after %d frames bursts = %d, want 0", frames, len(e.Bursts))
	}
}

func TestBurstSpread(t *testing.T) {
	e := newEngine(config.Full, 800, 600)
	e.Click(400, 300)
	p := config.Full
	step := 2 * math.Pi / float64(p.BurstCount)
	for i, b := range e.Bursts {
		speed := math.Hypot(b.VX, b.VY)
		if speed < p.BurstSpeedMin-1e-9 || speed > p.BurstSpeedMax+1e-9 {
			t.Errorf("burst %d speed %v outside range", i, speed)
		}
		want := float64(i) * step
		got := math.Atan2(b.VY, b.VX)
		diff := math.Remainder(got-want, 2*math.Pi)
		if math.Abs(diff) > p.BurstJitter+1e-9 {
			t.Errorf("burst %d angle off by %v", i, diff)
		}
	}
}

func TestRingsExpire(t *testing.T) {
	e := newEngine(config.Full, 800, 600)
	e.Click(10, 10)
	var l draw.List
	run(e, &l, int(math.Round(1/config.Full.RingDecay))-1)
	if len(e.Rings) != 1 {
		t.Fatalf("rings = %d, want 1", len(e.Rings))
	}
	run(e, &l, 1)
	if len(e.Rings) != 0 {
		t.Errorf("rings = %d, want 0", len(e.Rings))
	}
}

func TestResizeKeepsParticles(t *testing.T) {
	e := newEngine(config.Full, 1024, 768)
	before := append([]geometry.Particle(nil), e.Particles...)

	e.Resize(geometry.Bounds{W: 1600, H: 900})

	if len(e.Particles) != len(before) {
		t.Fatalf("particles = %d, want %d", len(e.Particles), len(before))
	}
	for i := range before {
		if e.Particles[i] != before[i] {
			t.Fatalf("particle %d changed on resize", i)
		}
	}
	want := len(geometry.BuildHexGrid(rand.New(rand.NewPCG(1, 1)), geometry.Bounds{W: 1600, H: 900}, config.Full.HexSize))
	if len(e.Hex) != want {
		t.Errorf("hex cells = %d, want %d", len(e.Hex), want)
	}
	if cols := int(math.Ceil(1600 / config.Full.RainPitch)); len(e.Rain) != cols {
		t.Errorf("rain columns = %d, want %d", len(e.Rain), cols)
	}
}

func TestResizeFromEmptyBuildsParticles(t *testing.T) {
	e := newEngine(config.Full, 0, 0)
	if len(e.Particles) != 0 || len(e.Hex) != 0 {
		t.Fatalf("empty viewport produced geometry")
	}
	var l draw.List
	e.Tick(frameDur, &l)
	if l.Len() != 1 || l.Commands()[0].Op != draw.OpClear {
		t.Errorf("empty tick recorded %d commands", l.Len())
	}

	e.Resize(geometry.Bounds{W: 1024, H: 768})
	if len(e.Particles) != 49 {
		t.Errorf("particles = %d, want 49", len(e.Particles))
	}
}

func TestSweepFollowsScroll(t *testing.T) {
	e := newEngine(config.Full, 1024, 768)
	h := config.Full.SweepHeight
	var l draw.List

	run(e, &l, 1)
	if got := e.SweepOffset(); got != -h {
		t.Fatalf("start offset = %v, want %v", got, -h)
	}

	prev := e.SweepOffset()
	maxStep := (768 + h) / 100
	for i := 1; i <= 100; i++ {
		e.Scroll(float64(i) / 100)
		run(e, &l, 1)
		got := e.SweepOffset()
		if got < prev {
			t.Fatalf("offset went back from %v to %v", prev, got)
		}
		if got-prev > maxStep+1e-9 {
			t.Fatalf("offset jumped by %v", got-prev)
		}
		prev = got
	}
	if prev != 768 {
		t.Errorf("end offset = %v, want 768", prev)
	}

	var band draw.Command
	for _, c := range l.Commands() {
		if c.Op == draw.OpFillLinear {
			band = c
		}
	}
	if band.Rect.Y != 768 || band.Rect.H != h {
		t.Errorf("band rect = %+v", band.Rect)
	}
}

func TestScrollAppliedOncePerFrame(t *testing.T) {
	e := newEngine(config.Full, 800, 600)
	for i := 0; i < 10; i++ {
		e.Scroll(float64(i) / 10)
	}
	if e.scrollUpdate != 0 {
		t.Fatalf("scroll applied before a frame")
	}
	var l draw.List
	run(e, &l, 1)
	if e.scrollUpdate != 1 {
		t.Errorf("scroll applied %d times in one frame", e.scrollUpdate)
	}
	if e.scroll != 0.9 {
		t.Errorf("scroll = %v, want last value 0.9", e.scroll)
	}
	run(e, &l, 3)
	if e.scrollUpdate != 1 {
		t.Errorf("scroll recomputed without new events")
	}
}

func TestPointerEasing(t *testing.T) {
	e := newEngine(config.Full, 1000, 500)
	e.PointerMove(1000, 500)
	if e.Pointer.RawX != 1 || e.Pointer.RawY != 1 {
		t.Fatalf("raw = %+v", e.Pointer)
	}
	e.PointerMove(2000, -10)
	if e.Pointer.RawX != 1 || e.Pointer.RawY != 0 {
		t.Fatalf("raw not clamped: %+v", e.Pointer)
	}
	e.PointerMove(1000, 500)

	var l draw.List
	run(e, &l, 1)
	k := config.Full.PointerEase
	if want := 0.5 + 0.5*k; math.Abs(e.Pointer.EasedX-want) > 1e-12 {
		t.Errorf("eased x = %v, want %v", e.Pointer.EasedX, want)
	}

	prev := e.Pointer.EasedX
	for i := 0; i < 300; i++ {
		run(e, &l, 1)
		if e.Pointer.EasedX < prev || e.Pointer.EasedX > 1 {
			t.Fatalf("eased x %v not approaching 1 monotonically", e.Pointer.EasedX)
		}
		prev = e.Pointer.EasedX
	}
	if 1-prev > 1e-6 {
		t.Errorf("eased x = %v after 300 frames", prev)
	}
	dx, dy := e.ParallaxOffset()
	if dx >= 0 || dy >= 0 {
		t.Errorf("parallax (%v,%v) should move away from the pointer", dx, dy)
	}
}

func TestHexPulseAlpha(t *testing.T) {
	e := newEngine(config.Full, 300, 200)
	var l draw.List
	now := 1500 * time.Millisecond
	e.Tick(now, &l)

	p := config.Full
	c := e.Hex[0]
	want := p.HexBaseAlpha + p.HexAmplitude*(0.5+0.5*math.Sin(2*now.Seconds()+c.Phase))
	got := l.Commands()[2]
	if got.Op != draw.OpStrokePolygon {
		t.Fatalf("command 2 = %v", got.Op)
	}
	if math.Abs(got.Color.A-want) > 1e-12 {
		t.Errorf("alpha = %v, want %v", got.Color.A, want)
	}
	if n := len(l.Points(got)); n != 6 {
		t.Errorf("hex has %d vertices", n)
	}
	for _, cmd := range l.Commands() {
		if cmd.Op == draw.OpStrokePolygon && (cmd.Color.A < p.HexBaseAlpha-1e-12 || cmd.Color.A > p.HexBaseAlpha+p.HexAmplitude+1e-12) {
			t.Fatalf("hex alpha %v outside pulse range", cmd.Color.A)
		}
	}
}

func TestLinksOnlyInFullMode(t *testing.T) {
	var l draw.List

	compact := newEngine(config.Compact, 500, 800)
	run(compact, &l, 1)
	if n := l.Count(draw.OpStrokeLine); n != 0 {
		t.Errorf("compact mode drew %d links", n)
	}

	full := newEngine(config.Full, 1024, 768)
	run(full, &l, 1)
	maxD := config.Full.LinkDistance
	for _, c := range l.Commands() {
		if c.Op != draw.OpStrokeLine {
			continue
		}
		d := math.Hypot(c.X1-c.X0, c.Y1-c.Y0)
		if d >= maxD {
			t.Fatalf("link of length %v drawn", d)
		}
		want := config.Full.LinkAlpha * (1 - d/maxD)
		if math.Abs(c.Color.A-want) > 1e-9 {
			t.Fatalf("link alpha %v, want %v", c.Color.A, want)
		}
	}
}

func TestRainColumnsReset(t *testing.T) {
	p := config.Full
	e := newEngine(p, 400, 300)
	var l draw.List
	for f := 0; f < 500; f++ {
		run(e, &l, 1)
		for _, c := range e.Rain {
			if c.Cursor > 300+p.RainMargin {
				t.Fatalf("frame %d: cursor %v past reset margin", f, c.Cursor)
			}
		}
	}
	if l.Count(draw.OpFillText) == 0 {
		t.Error("no rain glyphs drawn after 500 frames")
	}
}

func TestDataNodesDeterministic(t *testing.T) {
	a := newEngine(config.Full, 640, 480)
	b := NewEngine(rand.New(rand.NewPCG(99, 99)), config.Full, geometry.Bounds{W: 640, H: 480})
	var la, lb draw.List
	a.drawDataNodes(&la, 2.5)
	b.drawDataNodes(&lb, 2.5)
	if la.Len() != config.Full.DataNodes {
		t.Fatalf("nodes = %d", la.Len())
	}
	for i := range la.Commands() {
		if la.Commands()[i] != lb.Commands()[i] {
			t.Fatalf("node %d differs between engines", i)
		}
	}
}

func TestStillDoesNotAdvance(t *testing.T) {
	e := newEngine(config.Full, 800, 600)
	e.Click(300, 300)
	var l0 draw.List
	run(e, &l0, 5)
	particles := append([]geometry.Particle(nil), e.Particles...)
	bursts := append([]geometry.Particle(nil), e.Bursts...)
	rain := append([]geometry.RainColumn(nil), e.Rain...)
	ticks := e.Ticks()

	var a, b draw.List
	e.Still(2*time.Second, &a)
	e.Still(2*time.Second, &b)

	if e.Ticks() != ticks {
		t.Errorf("ticks = %d, want %d", e.Ticks(), ticks)
	}
	for i := range particles {
		if e.Particles[i] != particles[i] {
			t.Fatalf("particle %d moved", i)
		}
	}
	for i := range bursts {
		if e.Bursts[i] != bursts[i] {
			t.Fatalf("burst %d aged", i)
		}
	}
	for i := range rain {
		if e.Rain[i] != rain[i] {
			t.Fatalf("rain column %d advanced", i)
		}
	}
	if a.Len() != b.Len() {
		t.Fatalf("still frames differ in length: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Commands() {
		if a.Commands()[i] != b.Commands()[i] {
			t.Fatalf("command %d differs between still frames", i)
		}
	}
	if got := a.Count(draw.OpStrokeCircle); got != 1 {
		t.Errorf("rings drawn = %d, want 1", got)
	}
}

func TestBurstsAgeOnEmptyViewport(t *testing.T) {
	e := newEngine(config.Full, 800, 600)
	e.Click(100, 100)
	e.Resize(geometry.Bounds{})

	var l draw.List
	run(e, &l, int(math.Round(1/config.Full.BurstDecay)))
	if len(e.Bursts) != 0 || len(e.Rings) != 0 {
		t.Errorf("bursts = %d, rings = %d after lifetime on empty viewport", len(e.Bursts), len(e.Rings))
	}
	if l.Len() != 1 {
		t.Errorf("empty frame recorded %d commands, want clear only", l.Len())
	}
}
