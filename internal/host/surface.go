package host

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/hero-backdrop/internal/backdrop"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/draw/ggsurface"
)

const (
	// basicfont.Face7x13 metrics
	glyphHeight = 13
	glyphAscent = 11

	maxGradients = 8
)

// gradientKey identifies a rasterized gradient independently of where it is
// placed, so a moving band reuses one image.
type gradientKey struct {
	op     draw.Op
	w, h   float64
	x0, y0 float64
	x1, y1 float64
	r0, r1 float64
	stops  [3]draw.Stop
	n      int
	scale  float64
}

// Surface is the ebiten side of the canvas. Present stores the frame built
// during Update; Draw replays it onto the screen.
type Surface struct {
	backW, backH int
	dispW, dispH float64
	scale        float64

	front draw.List

	face      *text.GoXFace
	raster    *ggsurface.Surface
	gradients map[gradientKey]*cachedGradient
	frame     uint64
}

type cachedGradient struct {
	img  *ebiten.Image
	used uint64 // frame that last drew it
}

// NewSurface creates the ebiten surface. Gradients are rasterized with gg.
func NewSurface() (*Surface, error) {
	r, err := ggsurface.New()
	if err != nil {
		return nil, err
	}
	r.Background = gg.Transparent
	return &Surface{
		scale:     1,
		face:      text.NewGoXFace(basicfont.Face7x13),
		raster:    r,
		gradients: make(map[gradientKey]*cachedGradient),
	}, nil
}

func (s *Surface) SetBackingSize(w, h int) {
	if w == s.backW && h == s.backH {
		return
	}
	s.backW, s.backH = w, h
	s.dropGradients()
}

func (s *Surface) SetDisplaySize(w, h float64) { s.dispW, s.dispH = w, h }

func (s *Surface) SetScale(f float64) {
	if f != s.scale {
		s.scale = f
		s.dropGradients()
	}
}

// BackingSize returns the size Layout should report to ebiten.
func (s *Surface) BackingSize() (int, int) { return s.backW, s.backH }

// Present keeps a copy of l for the next Draw.
func (s *Surface) Present(l *draw.List) error {
	l.CopyTo(&s.front)
	return nil
}

// Front returns the frame Draw will replay.
func (s *Surface) Front() *draw.List { return &s.front }

func (s *Surface) dropGradients() {
	for k, g := range s.gradients {
		g.img.Deallocate()
		delete(s.gradients, k)
	}
}

// staleGradient returns the least recently drawn cache entry that was not
// drawn in frame.
func staleGradient(cache map[gradientKey]*cachedGradient, frame uint64) (gradientKey, bool) {
	var (
		victim gradientKey
		oldest uint64
		found  bool
	)
	for k, g := range cache {
		if g.used < frame && (!found || g.used < oldest) {
			victim, oldest, found = k, g.used, true
		}
	}
	return victim, found
}

// evictGradient frees one gradient not drawn in the current frame. It
// reports false when every cached gradient is in use by this frame.
func (s *Surface) evictGradient() bool {
	k, ok := staleGradient(s.gradients, s.frame)
	if !ok {
		return false
	}
	s.gradients[k].img.Deallocate()
	delete(s.gradients, k)
	return true
}

// Close releases cached images and the gradient rasterizer.
func (s *Surface) Close() error {
	s.dropGradients()
	return s.raster.Close()
}

// Draw replays the last presented frame onto screen.
func (s *Surface) Draw(screen *ebiten.Image) {
	s.frame++
	for len(s.gradients) > maxGradients && s.evictGradient() {
	}
	k := float32(s.scale)
	l := &s.front
	for _, c := range l.Commands() {
		switch c.Op {
		case draw.OpClear:
			screen.Fill(color.Black)

		case draw.OpFillRadial, draw.OpFillLinear:
			img := s.gradient(c, l.Stops(c))
			if img == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(math.Floor(c.Rect.X*s.scale), math.Floor(c.Rect.Y*s.scale))
			screen.DrawImage(img, op)

		case draw.OpStrokePolygon:
			pts := l.Points(c)
			clr := c.Color.Color()
			for i := range pts {
				a, b := pts[i], pts[(i+1)%len(pts)]
				vector.StrokeLine(screen, float32(a.X)*k, float32(a.Y)*k, float32(b.X)*k, float32(b.Y)*k,
					float32(c.Width)*k, clr, true)
			}

		case draw.OpFillCircle:
			vector.DrawFilledCircle(screen, float32(c.X0)*k, float32(c.Y0)*k, float32(c.R0)*k, c.Color.Color(), true)

		case draw.OpStrokeCircle:
			vector.StrokeCircle(screen, float32(c.X0)*k, float32(c.Y0)*k, float32(c.R0)*k,
				float32(c.Width)*k, c.Color.Color(), true)

		case draw.OpStrokeLine:
			vector.StrokeLine(screen, float32(c.X0)*k, float32(c.Y0)*k, float32(c.X1)*k, float32(c.Y1)*k,
				float32(c.Width)*k, c.Color.Color(), true)

		case draw.OpFillText:
			f := c.Size * s.scale / glyphHeight
			op := &text.DrawOptions{}
			op.GeoM.Scale(f, f)
			op.GeoM.Translate(c.X0*s.scale, c.Y0*s.scale-glyphAscent*f)
			op.ColorScale.ScaleWithColor(c.Color.Color())
			text.Draw(screen, c.Text, s.face, op)
		}
	}
}

func keyFor(c draw.Command, stops []draw.Stop, scale float64) gradientKey {
	k := gradientKey{
		op: c.Op, w: c.Rect.W, h: c.Rect.H,
		x0: c.X0 - c.Rect.X, y0: c.Y0 - c.Rect.Y,
		x1: c.X1 - c.Rect.X, y1: c.Y1 - c.Rect.Y,
		r0: c.R0, r1: c.R1,
		n: min(len(stops), 3), scale: scale,
	}
	copy(k.stops[:], stops)
	return k
}

// gradient returns the cached image for a gradient command, rasterizing it
// with gg on a miss.
func (s *Surface) gradient(c draw.Command, stops []draw.Stop) *ebiten.Image {
	key := keyFor(c, stops, s.scale)
	if g, ok := s.gradients[key]; ok {
		g.used = s.frame
		return g.img
	}
	w := int(math.Ceil(c.Rect.W * s.scale))
	h := int(math.Ceil(c.Rect.H * s.scale))
	if w <= 0 || h <= 0 {
		return nil
	}

	var l draw.List
	l.Clear()
	local := draw.Rect{W: c.Rect.W, H: c.Rect.H}
	if c.Op == draw.OpFillRadial {
		l.FillRadial(local, key.x0, key.y0, c.R0, c.R1, stops...)
	} else {
		l.FillLinear(local, key.x0, key.y0, key.x1, key.y1, stops...)
	}
	s.raster.SetBackingSize(w, h)
	s.raster.SetScale(s.scale)
	if err := s.raster.Present(&l); err != nil {
		backdrop.Logger().Debug("gradient raster failed", "op", c.Op, "err", err)
		return nil
	}

	if len(s.gradients) >= maxGradients {
		// Over the limit only while one frame needs more; trimmed next Draw.
		s.evictGradient()
	}
	img := ebiten.NewImageFromImage(s.raster.Image())
	s.gradients[key] = &cachedGradient{img: img, used: s.frame}
	return img
}
