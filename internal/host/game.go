// Package host runs the backdrop in an ebiten window. The window stands in
// for the page: it supplies resize, pointer, touch, click and scroll events
// and the display refresh that drives the frame loop.
package host

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/hero-backdrop/internal/audio"
	"github.com/iburimskiy/hero-backdrop/internal/backdrop"
	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/frame"
	"github.com/iburimskiy/hero-backdrop/internal/input"
)

// Options are the host settings taken from the command line.
type Options struct {
	Compact       bool
	ReducedMotion bool
	UserAgent     string
	PixelRatio    float64 // overrides the monitor scale factor when > 0
	Seed          uint64
	Sound         bool
	Overlay       bool
}

// Game implements ebiten.Game.
type Game struct {
	opts Options

	env    environment
	surf   *Surface
	queue  frame.Queue
	events *input.Dispatcher
	inst   *backdrop.Instance
	player *audio.Player

	elapsed time.Duration
	scroll  scroller

	outsideW, outsideH int
	cursorX, cursorY   int
	ratio              float64
	touches            map[ebiten.TouchID][2]int
	touchIDs           []ebiten.TouchID
	seen               map[ebiten.TouchID]bool

	quit bool
}

// NewGame creates the host. The backdrop is mounted on the first Update
// after Layout has sized the window.
func NewGame(opts Options) (*Game, error) {
	surf, err := NewSurface()
	if err != nil {
		return nil, err
	}
	g := &Game{
		opts:    opts,
		surf:    surf,
		events:  input.NewDispatcher(),
		scroll:  scroller{pages: config.DocumentPages},
		touches: make(map[ebiten.TouchID][2]int),
		seen:    make(map[ebiten.TouchID]bool),
		cursorX: -1,
		cursorY: -1,
	}
	g.env.override = opts.PixelRatio

	if opts.Sound {
		g.player = audio.NewPlayer(audio.SampleRate)
		if err := g.player.Init(); err != nil {
			backdrop.Logger().Warn("click cue disabled", "err", err)
		}
		if _, err := g.events.On(input.Click, g.playCue); err != nil {
			backdrop.Logger().Warn("click cue disabled", "err", err)
		}
	}
	return g, nil
}

func (g *Game) playCue(ev input.Event) {
	if g.env.w > 0 {
		g.player.Play(ev.X / g.env.w)
	}
}

// mount attaches the backdrop once the window has a size. A failed mount is
// retried on the next Update.
func (g *Game) mount() {
	if g.inst != nil {
		return
	}
	var surface draw.Surface
	if g.outsideW > 0 && g.outsideH > 0 {
		surface = g.surf
	}
	inst, err := backdrop.Mount(backdrop.Config{
		Surface:       surface,
		Env:           &g.env,
		Frames:        &g.queue,
		Events:        g.events,
		Compact:       g.opts.Compact || config.IsCompact(g.env.w, g.opts.UserAgent),
		ReducedMotion: g.opts.ReducedMotion,
		Seed:          g.opts.Seed,
	})
	if err != nil {
		return
	}
	g.inst = inst
}

// Shutdown unmounts the backdrop and releases the surface and audio.
func (g *Game) Shutdown() {
	if g.inst != nil {
		backdrop.Logger().Info("backdrop stopped", "uptime", formatDuration(g.elapsed), "frames", g.inst.Frames())
	}
	g.inst.Unmount()
	g.inst = nil
	g.events.Close()
	if g.player != nil {
		g.player.Close()
	}
	_ = g.surf.Close()
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.mount()
	g.pollInput()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.quit = true
		g.Shutdown()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && g.inst != nil {
		g.saveSnapshot()
	}

	g.elapsed += time.Second / time.Duration(ebiten.TPS())
	g.queue.Flush(g.elapsed)
	return nil
}

// saveSnapshot copies the current frame and saves it off the update
// goroutine so the dialog does not stall the loop.
func (g *Game) saveSnapshot() {
	var l draw.List
	g.surf.Front().CopyTo(&l)
	vs := g.inst.Viewport()
	go func() {
		if err := saveSnapshotDialog(&l, vs); err != nil {
			backdrop.Logger().Warn("snapshot failed", "err", err)
		}
	}()
}

// logical converts a screen position in backing pixels to logical pixels.
func (g *Game) logical(x, y int) (float64, float64) {
	r := 1.0
	if g.inst != nil {
		r = g.inst.Viewport().Ratio
	}
	return float64(x) / r, float64(y) / r
}

func (g *Game) pollInput() {
	cx, cy := ebiten.CursorPosition()
	if cx != g.cursorX || cy != g.cursorY {
		g.cursorX, g.cursorY = cx, cy
		x, y := g.logical(cx, cy)
		g.events.Emit(input.Event{Kind: input.PointerMove, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := g.logical(cx, cy)
		g.events.Emit(input.Event{Kind: input.Click, X: x, Y: y})
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0]) {
		tx, ty := ebiten.TouchPosition(id)
		x, y := g.logical(tx, ty)
		g.events.Emit(input.Event{Kind: input.Click, X: x, Y: y})
	}
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	clear(g.seen)
	for _, id := range g.touchIDs {
		g.seen[id] = true
		tx, ty := ebiten.TouchPosition(id)
		if prev, ok := g.touches[id]; ok && prev == [2]int{tx, ty} {
			continue
		}
		g.touches[id] = [2]int{tx, ty}
		x, y := g.logical(tx, ty)
		g.events.Emit(input.Event{Kind: input.TouchMove, X: x, Y: y})
	}
	for id := range g.touches {
		if !g.seen[id] {
			delete(g.touches, id)
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		if p, changed := g.scroll.wheel(dy, config.WheelStep); changed {
			g.events.Emit(input.Event{Kind: input.Scroll, Progress: p})
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surf.Draw(screen)
	if g.opts.Overlay && g.inst != nil {
		e := g.inst.Engine()
		msg := fmt.Sprintf("%.0f fps | %s | %s | particles %d | bursts %d | scroll %.2f",
			ebiten.ActualFPS(), formatDuration(g.elapsed), e.Profile().Name,
			len(e.Particles), len(e.Bursts), g.scroll.progress())
		ebitenutil.DebugPrintAt(screen, msg, 12, 12)
	}
}

// Layout records the window size in logical pixels and returns the high-DPI
// backing size so the surface draws at device resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.layoutChanged(outsideWidth, outsideHeight, g.env.DevicePixelRatio()) {
		g.events.Emit(input.Event{Kind: input.Resize})
	}
	if w, h := g.surf.BackingSize(); w > 0 && h > 0 {
		return w, h
	}
	r := g.env.DevicePixelRatio()
	r = config.ClampPixelRatio(r)
	return max(1, int(math.Ceil(g.env.w*r))), max(1, int(math.Ceil(g.env.h*r)))
}

// layoutChanged records the outside size and device scale and reports
// whether either differs from the last layout. A scale change alone happens
// when the window moves to another monitor.
func (g *Game) layoutChanged(w, h int, ratio float64) bool {
	if w == g.outsideW && h == g.outsideH && ratio == g.ratio {
		return false
	}
	if w != g.outsideW || h != g.outsideH {
		g.outsideW, g.outsideH = w, h
		g.env.w, g.env.h = float64(w), float64(h)
		g.scroll.resize(g.env.h)
	}
	g.ratio = ratio
	return true
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	g, err := NewGame(opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Hero backdrop - click for bursts, wheel to scroll, S: snapshot, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.FrameRate)

	err = ebiten.RunGame(g)
	if !g.quit {
		g.Shutdown()
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
