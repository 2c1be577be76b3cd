package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilt-maze/vmath"
)

func newSimSurface(t *testing.T, cols, rows int) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return NewSurface(screen, 8, 16), screen
}

// painted reports whether cell (x, y) carries the solid fill of color c
func painted(screen tcell.Screen, x, y int, c tcell.Color) bool {
	_, _, style, _ := screen.GetContent(x, y)
	return style == Fill(c)
}

func TestSurfaceWorldSize(t *testing.T) {
	s, _ := newSimSurface(t, 50, 41)
	w, h := s.WorldSize()
	if w != 400 || h != 640 {
		t.Fatalf("WorldSize() = (%v, %v), want (400, 640)", w, h)
	}
	if s.WorldRows() != 40 {
		t.Fatalf("WorldRows() = %d, want 40", s.WorldRows())
	}
}

func TestFillRectCoversTouchedCells(t *testing.T) {
	s, screen := newSimSurface(t, 50, 41)
	red := tcell.NewRGBColor(255, 0, 0)

	// x 50..350 -> cells 6..43, y 100..120 -> rows 6..7
	s.FillRect(vmath.Rect{X: 50, Y: 100, W: 300, H: 20}, Fill(red))

	for _, c := range [][2]int{{6, 6}, {43, 6}, {6, 7}, {43, 7}} {
		if !painted(screen, c[0], c[1], red) {
			t.Errorf("cell %v not painted", c)
		}
	}
	for _, c := range [][2]int{{5, 6}, {44, 6}, {6, 5}, {6, 8}} {
		if painted(screen, c[0], c[1], red) {
			t.Errorf("cell %v painted outside rect", c)
		}
	}
}

func TestFillRectClipsToWorld(t *testing.T) {
	s, screen := newSimSurface(t, 10, 5)
	red := tcell.NewRGBColor(255, 0, 0)

	s.FillRect(vmath.Rect{X: -100, Y: -100, W: 10000, H: 10000}, Fill(red))

	if !painted(screen, 9, 3, red) {
		t.Error("last world row not painted")
	}
	if painted(screen, 0, 4, red) {
		t.Error("status bar row must not be painted by world drawing")
	}
}

func TestFillCircle(t *testing.T) {
	s, screen := newSimSurface(t, 50, 41)
	blue := tcell.NewRGBColor(0, 0, 255)

	// Center (100, 100) r=15 -> center cell (12, 6)
	s.FillCircle(vmath.Circle{Center: vmath.Vec2{X: 100, Y: 100}, R: 15}, Fill(blue))
	if !painted(screen, 12, 6, blue) {
		t.Error("center cell not painted")
	}
	if painted(screen, 16, 6, blue) || painted(screen, 12, 8, blue) {
		t.Error("cells outside the circle painted")
	}
}

func TestFillCircleTinyStillVisible(t *testing.T) {
	s, screen := newSimSurface(t, 10, 5)
	blue := tcell.NewRGBColor(0, 0, 255)

	s.FillCircle(vmath.Circle{Center: vmath.Vec2{X: 17, Y: 17}, R: 1}, Fill(blue))
	if !painted(screen, 2, 1, blue) {
		t.Error("tiny circle should paint the cell holding its center")
	}
}

func TestTextClips(t *testing.T) {
	s, screen := newSimSurface(t, 5, 2)
	s.Text(3, 0, "hello", tcell.StyleDefault)

	r, _, _, _ := screen.GetContent(4, 0)
	if r != 'e' {
		t.Errorf("cell (4,0) = %q, want 'e'", r)
	}
	s.Text(0, 9, "offscreen", tcell.StyleDefault) // must not panic
}

type recordingRenderer struct {
	name  string
	order *[]string
	shown bool
}

func (r *recordingRenderer) Render(Context, *Surface) { *r.order = append(*r.order, r.name) }
func (r *recordingRenderer) IsVisible() bool          { return r.shown }

func TestOrchestratorPriorityOrder(t *testing.T) {
	s, _ := newSimSurface(t, 10, 5)
	o := NewRenderOrchestrator(s)

	var order []string
	o.Register(&recordingRenderer{name: "ui", order: &order, shown: true}, PriorityUI)
	o.Register(&recordingRenderer{name: "bg", order: &order, shown: true}, PriorityBackground)
	o.Register(&recordingRenderer{name: "ball", order: &order, shown: true}, PriorityBall)
	o.Register(&recordingRenderer{name: "hidden", order: &order, shown: false}, PriorityWall)
	o.Register(&recordingRenderer{name: "ball2", order: &order, shown: true}, PriorityBall)

	o.RenderFrame(Context{})

	want := []string{"bg", "ball", "ball2", "ui"}
	if len(order) != len(want) {
		t.Fatalf("render order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("render order = %v, want %v", order, want)
		}
	}
}
