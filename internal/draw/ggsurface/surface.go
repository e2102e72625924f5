// Package ggsurface replays draw lists onto a gogpu/gg software canvas.
package ggsurface

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/hero-backdrop/internal/draw"
)

// ErrNotSized is returned when a frame is requested before the surface has a
// non-empty backing store.
var ErrNotSized = errors.New("ggsurface: surface has no backing store")

// Surface is a draw.Surface backed by a gg.Context.
type Surface struct {
	// Background is painted by Clear. The page behind the canvas is black.
	Background gg.RGBA

	dc           *gg.Context
	scale        float64
	dispW, dispH float64

	font  *text.FontSource
	faces map[float64]text.Face
}

// New creates an unsized surface with the Go Mono font loaded for glyphs.
func New() (*Surface, error) {
	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("ggsurface: load font: %w", err)
	}
	return &Surface{
		Background: gg.Black,
		scale:      1,
		font:       src,
		faces:      make(map[float64]text.Face),
	}, nil
}

// SetBackingSize reallocates the pixel buffer when the size changes.
func (s *Surface) SetBackingSize(w, h int) {
	if w <= 0 || h <= 0 {
		s.release()
		return
	}
	if s.dc != nil && s.dc.Width() == w && s.dc.Height() == h {
		return
	}
	s.release()
	s.dc = gg.NewContext(w, h)
}

func (s *Surface) SetDisplaySize(w, h float64) { s.dispW, s.dispH = w, h }

func (s *Surface) SetScale(f float64) { s.scale = f }

// DisplaySize returns the logical size set by the viewport tracker.
func (s *Surface) DisplaySize() (w, h float64) { return s.dispW, s.dispH }

// Scale returns the logical to device pixel factor.
func (s *Surface) Scale() float64 { return s.scale }

func (s *Surface) release() {
	if s.dc != nil {
		_ = s.dc.Close()
		s.dc = nil
	}
}

// Close releases the canvas and font.
func (s *Surface) Close() error {
	s.release()
	if s.font != nil {
		err := s.font.Close()
		s.font = nil
		return err
	}
	return nil
}

// Image returns the last presented frame, or nil before sizing.
func (s *Surface) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// EncodePNG writes the last presented frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if s.dc == nil {
		return ErrNotSized
	}
	return s.dc.EncodePNG(w)
}

func (s *Surface) face(size float64) text.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := s.font.Face(size)
	s.faces[size] = f
	return f
}

// Present replays l. Rendering errors are collected and the first one is
// returned after the full list has been drawn.
func (s *Surface) Present(l *draw.List) error {
	if s.dc == nil {
		return ErrNotSized
	}
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	dc, k := s.dc, s.scale
	for _, c := range l.Commands() {
		switch c.Op {
		case draw.OpClear:
			dc.ClearWithColor(s.Background)

		case draw.OpFillRadial:
			b := gg.NewRadialGradientBrush(c.X0*k, c.Y0*k, c.R0*k, c.R1*k)
			for _, st := range l.Stops(c) {
				b.AddColorStop(st.Offset, st.Color)
			}
			dc.SetFillBrush(b)
			dc.DrawRectangle(c.Rect.X*k, c.Rect.Y*k, c.Rect.W*k, c.Rect.H*k)
			keep(dc.Fill())

		case draw.OpFillLinear:
			b := gg.NewLinearGradientBrush(c.X0*k, c.Y0*k, c.X1*k, c.Y1*k)
			for _, st := range l.Stops(c) {
				b.AddColorStop(st.Offset, st.Color)
			}
			dc.SetFillBrush(b)
			dc.DrawRectangle(c.Rect.X*k, c.Rect.Y*k, c.Rect.W*k, c.Rect.H*k)
			keep(dc.Fill())

		case draw.OpStrokePolygon:
			pts := l.Points(c)
			if len(pts) < 2 {
				continue
			}
			dc.SetStrokeBrush(gg.Solid(c.Color))
			dc.SetLineWidth(c.Width * k)
			dc.MoveTo(pts[0].X*k, pts[0].Y*k)
			for _, p := range pts[1:] {
				dc.LineTo(p.X*k, p.Y*k)
			}
			dc.ClosePath()
			keep(dc.Stroke())

		case draw.OpFillCircle:
			dc.SetFillBrush(gg.Solid(c.Color))
			dc.DrawCircle(c.X0*k, c.Y0*k, c.R0*k)
			keep(dc.Fill())

		case draw.OpStrokeCircle:
			dc.SetStrokeBrush(gg.Solid(c.Color))
			dc.SetLineWidth(c.Width * k)
			dc.DrawCircle(c.X0*k, c.Y0*k, c.R0*k)
			keep(dc.Stroke())

		case draw.OpStrokeLine:
			dc.SetStrokeBrush(gg.Solid(c.Color))
			dc.SetLineWidth(c.Width * k)
			dc.DrawLine(c.X0*k, c.Y0*k, c.X1*k, c.Y1*k)
			keep(dc.Stroke())

		case draw.OpFillText:
			if s.font == nil {
				continue
			}
			dc.SetFont(s.face(c.Size * k))
			dc.SetColor(c.Color.Color())
			dc.DrawString(c.Text, c.X0*k, c.Y0*k)
		}
	}
	if first != nil {
		return fmt.Errorf("ggsurface: present: %w", first)
	}
	return nil
}

var _ draw.Surface = (*Surface)(nil)
