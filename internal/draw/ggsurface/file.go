package ggsurface

import (
	"fmt"
	"os"

	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/viewport"
)

// WritePNG rasterizes l at the viewport's backing size and writes it to path.
func WritePNG(path string, l *draw.List, vs viewport.State) error {
	s, err := New()
	if err != nil {
		return err
	}
	defer s.Close()

	s.SetBackingSize(vs.BackingWidth, vs.BackingHeight)
	s.SetDisplaySize(vs.Width, vs.Height)
	s.SetScale(vs.Ratio)
	if err := s.Present(l); err != nil {
		return err
	}
	return s.WriteFile(path)
}

// WriteFile writes the last presented frame to path as PNG.
func (s *Surface) WriteFile(path string) error {
	if s.dc == nil {
		return ErrNotSized
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
