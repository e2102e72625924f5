// Command backdrop-snap renders the backdrop headless through the gg software
// rasterizer and writes the last frame as PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iburimskiy/hero-backdrop/internal/backdrop"
	"github.com/iburimskiy/hero-backdrop/internal/config"
	"github.com/iburimskiy/hero-backdrop/internal/draw/ggsurface"
	"github.com/iburimskiy/hero-backdrop/internal/frame"
	"github.com/iburimskiy/hero-backdrop/internal/input"
	"github.com/iburimskiy/hero-backdrop/internal/viewport"
)

type point struct{ x, y float64 }

// parseClicks reads "x,y;x,y" into points.
func parseClicks(s string) ([]point, error) {
	var out []point
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("click %q: want x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("click %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("click %q: %w", part, err)
		}
		out = append(out, point{x, y})
	}
	return out, nil
}

type options struct {
	width, height float64
	ratio         float64
	frames        int
	compact       bool
	reduced       bool
	seed          uint64
	clicks        []point
	clickAt       int
	scroll        float64
	out           string
}

func render(o options) error {
	surf, err := ggsurface.New()
	if err != nil {
		return err
	}
	defer surf.Close()

	var q frame.Queue
	events := input.NewDispatcher()
	defer events.Close()

	env := &viewport.Static{W: o.width, H: o.height, Ratio: o.ratio}
	inst, err := backdrop.Mount(backdrop.Config{
		Surface:       surf,
		Env:           env,
		Frames:        &q,
		Events:        events,
		Compact:       o.compact || config.IsCompact(o.width, ""),
		ReducedMotion: o.reduced,
		Seed:          o.seed,
	})
	if err != nil {
		return err
	}
	defer inst.Unmount()

	events.Emit(input.Event{Kind: input.Scroll, Progress: o.scroll})
	dt := time.Second / config.FrameRate
	for f := 1; f <= o.frames; f++ {
		if f == o.clickAt {
			for _, c := range o.clicks {
				events.Emit(input.Event{Kind: input.Click, X: c.x, Y: c.y})
			}
		}
		if q.Flush(time.Duration(f)*dt) == 0 {
			break
		}
	}
	slog.Debug("rendered", "frames", inst.Frames(), "bursts", len(inst.Engine().Bursts))

	if inst.Frames() == 0 {
		return errors.New("no frame rendered")
	}
	return surf.WriteFile(o.out)
}

func main() {
	var o options
	var clicks string
	var debug bool
	flag.Float64Var(&o.width, "w", config.WindowWidth, "viewport width in logical px")
	flag.Float64Var(&o.height, "h", config.WindowHeight, "viewport height in logical px")
	flag.Float64Var(&o.ratio, "dpr", 1, "device pixel ratio")
	flag.IntVar(&o.frames, "frames", 120, "frames to simulate")
	flag.BoolVar(&o.compact, "compact", false, "force the compact profile")
	flag.BoolVar(&o.reduced, "reduced-motion", false, "render a single still frame")
	flag.Uint64Var(&o.seed, "seed", 1, "layout seed")
	flag.StringVar(&clicks, "clicks", "", `clicks as "x,y;x,y"`)
	flag.IntVar(&o.clickAt, "click-frame", 90, "frame at which clicks are delivered")
	flag.Float64Var(&o.scroll, "scroll", 0, "scroll progress in [0, 1]")
	flag.StringVar(&o.out, "o", "backdrop.png", "output PNG path")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	backdrop.SetLogger(logger)

	var err error
	if o.clicks, err = parseClicks(clicks); err != nil {
		fmt.Fprintln(os.Stderr, "backdrop-snap:", err)
		os.Exit(2)
	}
	if err := render(o); err != nil {
		fmt.Fprintln(os.Stderr, "backdrop-snap:", err)
		os.Exit(1)
	}
}
