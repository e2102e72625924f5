package draw

import (
	"testing"

	"github.com/gogpu/gg"
)

func TestListRecordsInOrder(t *testing.T) {
	var l List
	l.Clear()
	l.FillRadial(Rect{0, 0, 100, 100}, 50, 35, 15, 100,
		Stop{0, gg.RGBA{R: 1, A: 0.06}}, Stop{1, gg.Transparent})
	l.StrokePolygon(1, gg.White, Point{0, 0}, Point{1, 0}, Point{1, 1})
	l.FillCircle(5, 5, 2, gg.White)
	l.StrokeLine(0, 0, 10, 10, 0.6, gg.White)
	l.FillText("A", 3, 4, 12, gg.White)

	want := []Op{OpClear, OpFillRadial, OpStrokePolygon, OpFillCircle, OpStrokeLine, OpFillText}
	if l.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", l.Len(), len(want))
	}
	for i, c := range l.Commands() {
		if c.Op != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Op, want[i])
		}
	}

	cmds := l.Commands()
	if got := l.Stops(cmds[1]); len(got) != 2 || got[0].Color.A != 0.06 {
		t.Errorf("stops = %+v", got)
	}
	if got := l.Points(cmds[2]); len(got) != 3 || got[2] != (Point{1, 1}) {
		t.Errorf("points = %+v", got)
	}
}

func TestListResetKeepsNothing(t *testing.T) {
	var l List
	l.StrokePolygon(1, gg.White, Point{0, 0}, Point{1, 1})
	l.Reset()
	if l.Len() != 0 || l.Count(OpStrokePolygon) != 0 {
		t.Fatalf("list not empty after Reset")
	}
	l.StrokePolygon(1, gg.White, Point{7, 7})
	if pts := l.Points(l.Commands()[0]); len(pts) != 1 || pts[0].X != 7 {
		t.Errorf("points after reset = %+v", pts)
	}
}

func TestCopyToIsIndependent(t *testing.T) {
	var src, dst List
	src.FillLinear(Rect{0, 10, 100, 50}, 0, 10, 0, 60, Stop{0, gg.Transparent}, Stop{1, gg.White})
	src.CopyTo(&dst)
	src.Reset()
	src.Clear()

	if dst.Len() != 1 || dst.Commands()[0].Op != OpFillLinear {
		t.Fatalf("dst = %+v", dst.Commands())
	}
	if n := len(dst.Stops(dst.Commands()[0])); n != 2 {
		t.Errorf("dst stops = %d, want 2", n)
	}
}

func TestOpString(t *testing.T) {
	if OpFillText.String() != "fill-text" {
		t.Errorf("OpFillText = %q", OpFillText.String())
	}
	if Op(200).String() != "unknown" {
		t.Errorf("Op(200) = %q", Op(200).String())
	}
}
