package backdrop

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/frame"
	"github.com/iburimskiy/hero-backdrop/internal/geometry"
	"github.com/iburimskiy/hero-backdrop/internal/input"
	"github.com/iburimskiy/hero-backdrop/internal/viewport"
)

var (
	// ErrNoSurface is returned by Mount when the drawing surface is not
	// attached yet. Hosts retry on their next mount attempt.
	ErrNoSurface = errors.New("backdrop: drawing surface unavailable")

	// ErrNoEnvironment is returned by Mount without a viewport environment.
	ErrNoEnvironment = errors.New("backdrop: viewport environment unavailable")
)

// Config describes what an instance is mounted on.
type Config struct {
	Surface draw.Surface
	Env     viewport.Environment
	Frames  frame.Requester // nil renders a single static frame
	Events  input.Source    // nil degrades to a static frame

	Compact       bool
	ReducedMotion bool

	// Seed makes the random layout reproducible; zero picks a random seed.
	Seed uint64
}

// Instance is a mounted backdrop. It exclusively owns its surface, state and
// listeners.
type Instance struct {
	engine  *Engine
	tracker *viewport.Tracker
	sched   *frame.Scheduler
	surface draw.Surface
	list    draw.List

	removers []func()
	mounted  bool
	static   bool
}

// Mount sizes the surface, builds the initial geometry, registers listeners
// and starts the frame loop unless reduced motion is requested.
//
// If listeners cannot be registered the instance renders one static frame and
// stays mounted without a loop.
func Mount(cfg Config) (*Instance, error) {
	if cfg.Surface == nil {
		Logger().Debug("mount deferred", "err", ErrNoSurface)
		return nil, ErrNoSurface
	}
	if cfg.Env == nil {
		return nil, ErrNoEnvironment
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	inst := &Instance{surface: cfg.Surface, mounted: true}
	inst.tracker = viewport.NewTracker(cfg.Env, cfg.Surface)
	vs := inst.tracker.Resize()
	inst.engine = NewEngine(rng, config.ProfileFor(cfg.Compact), boundsOf(vs))
	inst.tracker.OnChange(inst.onViewport)
	inst.sched = frame.NewScheduler(cfg.Frames, inst.step, cfg.ReducedMotion)

	Logger().Debug("mounted",
		"width", vs.Width, "height", vs.Height, "ratio", vs.Ratio,
		"profile", inst.engine.Profile().Name,
		"particles", len(inst.engine.Particles),
		"reducedMotion", cfg.ReducedMotion)

	inst.static = cfg.ReducedMotion || cfg.Frames == nil
	if err := inst.listen(cfg.Events); err != nil {
		Logger().Warn("listeners unavailable, rendering static backdrop", "err", err)
		inst.static = true
		inst.sched.Static()
		return inst, nil
	}
	inst.sched.Start()
	return inst, nil
}

func boundsOf(s viewport.State) geometry.Bounds {
	return geometry.Bounds{W: s.Width, H: s.Height}
}

func (i *Instance) listen(src input.Source) error {
	if src == nil {
		return input.ErrClosed
	}
	handlers := []struct {
		kind input.Kind
		h    input.Handler
	}{
		{input.Resize, func(input.Event) { i.tracker.Resize() }},
		{input.PointerMove, func(ev input.Event) { i.engine.PointerMove(ev.X, ev.Y) }},
		{input.TouchMove, func(ev input.Event) { i.engine.PointerMove(ev.X, ev.Y) }},
		{input.Scroll, func(ev input.Event) { i.engine.Scroll(ev.Progress) }},
		{input.Click, func(ev input.Event) { i.engine.Click(ev.X, ev.Y) }},
	}
	if i.static {
		// A still frame only follows the viewport.
		handlers = handlers[:1]
	}
	for _, l := range handlers {
		remove, err := src.On(l.kind, l.h)
		if err != nil {
			i.removeListeners()
			return fmt.Errorf("register %s listener: %w", l.kind, err)
		}
		i.removers = append(i.removers, remove)
	}
	return nil
}

func (i *Instance) removeListeners() {
	for _, remove := range i.removers {
		remove()
	}
	i.removers = nil
}

func (i *Instance) onViewport(s viewport.State) {
	i.engine.Resize(boundsOf(s))
	Logger().Debug("resized", "width", s.Width, "height", s.Height, "ratio", s.Ratio,
		"hexCells", len(i.engine.Hex), "rainColumns", len(i.engine.Rain))
	if i.static && i.mounted {
		// No loop will repaint; redraw the still frame for the new size.
		i.render(0)
	}
}

func (i *Instance) step(now time.Duration) {
	if !i.mounted {
		return
	}
	i.render(now)
}

func (i *Instance) render(now time.Duration) {
	if i.static {
		i.engine.Still(now, &i.list)
	} else {
		i.engine.Tick(now, &i.list)
	}
	if err := i.surface.Present(&i.list); err != nil {
		Logger().Debug("frame dropped", "err", err)
	}
}

// Unmount cancels the pending frame and removes every listener. It is safe
// to call on a nil or already unmounted instance.
func (i *Instance) Unmount() {
	if i == nil || !i.mounted {
		return
	}
	i.mounted = false
	i.sched.Stop()
	i.removeListeners()
	Logger().Debug("unmounted", "frames", i.sched.Frames())
}

// Engine returns the animation state.
func (i *Instance) Engine() *Engine { return i.engine }

// Viewport returns the current viewport state.
func (i *Instance) Viewport() viewport.State { return i.tracker.State() }

// Frames returns the number of frames run by the scheduler.
func (i *Instance) Frames() int { return i.sched.Frames() }

// Running reports whether the frame loop is active.
func (i *Instance) Running() bool { return i.sched.Running() }

// Mounted reports whether the instance has not been unmounted.
func (i *Instance) Mounted() bool { return i != nil && i.mounted }

// LastFrame returns the most recently recorded frame.
func (i *Instance) LastFrame() *draw.List { return &i.list }
