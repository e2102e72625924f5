package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iburimskiy/hero-backdrop/internal/backdrop"
	"github.com/iburimskiy/hero-backdrop/internal/host"
)

func main() {
	var opts host.Options
	debug := flag.Bool("debug", false, "log engine diagnostics to stderr")
	flag.BoolVar(&opts.Compact, "compact", false, "force the compact density profile")
	flag.BoolVar(&opts.ReducedMotion, "reduced-motion", os.Getenv("PREFERS_REDUCED_MOTION") != "", "render a single still frame")
	flag.StringVar(&opts.UserAgent, "ua", "", "user agent used for compact classification")
	flag.Float64Var(&opts.PixelRatio, "dpr", 0, "device pixel ratio override (0 = monitor)")
	flag.Uint64Var(&opts.Seed, "seed", 0, "layout seed (0 = random)")
	flag.BoolVar(&opts.Sound, "sound", false, "play a tick on click")
	flag.BoolVar(&opts.Overlay, "overlay", false, "show fps and state overlay")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := host.Run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "backdrop:", err)
		os.Exit(1)
	}
}
