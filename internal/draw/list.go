// Package draw records a frame as a flat list of canvas commands that any
// surface backend can replay. Coordinates are logical pixels; backends apply
// the device pixel ratio.
package draw

import (
	"github.com/gogpu/gg"

	"github.com/iburimskiy/hero-backdrop/internal/viewport"
)

// Op identifies a command.
type Op uint8

const (
	OpClear Op = iota
	OpFillRadial
	OpFillLinear
	OpStrokePolygon
	OpFillCircle
	OpStrokeCircle
	OpStrokeLine
	OpFillText
)

var opNames = [...]string{
	OpClear:         "clear",
	OpFillRadial:    "fill-radial",
	OpFillLinear:    "fill-linear",
	OpStrokePolygon: "stroke-polygon",
	OpFillCircle:    "fill-circle",
	OpStrokeCircle:  "stroke-circle",
	OpStrokeLine:    "stroke-line",
	OpFillText:      "fill-text",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Point is a 2D point in logical pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Stop is a gradient colour stop.
type Stop struct {
	Offset float64
	Color  gg.RGBA
}

type span struct {
	start, n int
}

// Command is one recorded drawing operation.
//
// Field use per op:
//   - FillRadial: Rect, centre (X0, Y0), radii R0..R1, stops
//   - FillLinear: Rect, axis (X0, Y0)-(X1, Y1), stops
//   - StrokePolygon: points, Width, Color
//   - FillCircle / StrokeCircle: centre (X0, Y0), radius R0, Width, Color
//   - StrokeLine: (X0, Y0)-(X1, Y1), Width, Color
//   - FillText: baseline origin (X0, Y0), Size, Text, Color
type Command struct {
	Op     Op
	X0, Y0 float64
	X1, Y1 float64
	R0, R1 float64
	Rect   Rect
	Width  float64
	Size   float64
	Text   string
	Color  gg.RGBA

	pts   span
	stops span
}

// List is a reusable command buffer. The zero value is ready to use.
type List struct {
	cmds  []Command
	pts   []Point
	stops []Stop
}

// Reset empties the list, keeping its storage.
func (l *List) Reset() {
	l.cmds = l.cmds[:0]
	l.pts = l.pts[:0]
	l.stops = l.stops[:0]
}

// Len returns the number of commands.
func (l *List) Len() int { return len(l.cmds) }

// Commands returns the recorded commands. The slice is valid until Reset.
func (l *List) Commands() []Command { return l.cmds }

// Points returns the vertices of a StrokePolygon command.
func (l *List) Points(c Command) []Point {
	return l.pts[c.pts.start : c.pts.start+c.pts.n]
}

// Stops returns the colour stops of a gradient command.
func (l *List) Stops(c Command) []Stop {
	return l.stops[c.stops.start : c.stops.start+c.stops.n]
}

// Count returns how many commands of op were recorded.
func (l *List) Count(op Op) int {
	n := 0
	for _, c := range l.cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CopyTo replaces dst's contents with a copy of l.
func (l *List) CopyTo(dst *List) {
	dst.cmds = append(dst.cmds[:0], l.cmds...)
	dst.pts = append(dst.pts[:0], l.pts...)
	dst.stops = append(dst.stops[:0], l.stops...)
}

func (l *List) addStops(stops []Stop) span {
	s := span{start: len(l.stops), n: len(stops)}
	l.stops = append(l.stops, stops...)
	return s
}

// Clear erases the whole surface.
func (l *List) Clear() {
	l.cmds = append(l.cmds, Command{Op: OpClear})
}

// FillRadial fills r with a radial gradient centred on (cx, cy) running from
// radius r0 to r1.
func (l *List) FillRadial(r Rect, cx, cy, r0, r1 float64, stops ...Stop) {
	l.cmds = append(l.cmds, Command{
		Op: OpFillRadial, Rect: r, X0: cx, Y0: cy, R0: r0, R1: r1,
		stops: l.addStops(stops),
	})
}

// FillLinear fills r with a linear gradient along (x0, y0)-(x1, y1).
func (l *List) FillLinear(r Rect, x0, y0, x1, y1 float64, stops ...Stop) {
	l.cmds = append(l.cmds, Command{
		Op: OpFillLinear, Rect: r, X0: x0, Y0: y0, X1: x1, Y1: y1,
		stops: l.addStops(stops),
	})
}

// StrokePolygon strokes the closed polygon through pts.
func (l *List) StrokePolygon(width float64, c gg.RGBA, pts ...Point) {
	s := span{start: len(l.pts), n: len(pts)}
	l.pts = append(l.pts, pts...)
	l.cmds = append(l.cmds, Command{Op: OpStrokePolygon, Width: width, Color: c, pts: s})
}

// FillCircle fills a circle.
func (l *List) FillCircle(x, y, r float64, c gg.RGBA) {
	l.cmds = append(l.cmds, Command{Op: OpFillCircle, X0: x, Y0: y, R0: r, Color: c})
}

// StrokeCircle strokes a circle outline.
func (l *List) StrokeCircle(x, y, r, width float64, c gg.RGBA) {
	l.cmds = append(l.cmds, Command{Op: OpStrokeCircle, X0: x, Y0: y, R0: r, Width: width, Color: c})
}

// StrokeLine strokes a line segment.
func (l *List) StrokeLine(x0, y0, x1, y1, width float64, c gg.RGBA) {
	l.cmds = append(l.cmds, Command{Op: OpStrokeLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c})
}

// FillText draws s with its baseline origin at (x, y).
func (l *List) FillText(s string, x, y, size float64, c gg.RGBA) {
	l.cmds = append(l.cmds, Command{Op: OpFillText, X0: x, Y0: y, Size: size, Text: s, Color: c})
}

// Surface is a drawable target: it is sized by the viewport tracker and
// presents one recorded frame at a time.
type Surface interface {
	viewport.Surface
	Present(l *List) error
}
