package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/vmath"
)

// Surface is the vector drawing surface: world points mapped onto terminal cells.
// The world occupies every row except the status bar at the bottom.
type Surface struct {
	screen     tcell.Screen
	cellW      float64
	cellH      float64
	cols, rows int
}

// NewSurface wraps screen with cellW x cellH points per cell
func NewSurface(screen tcell.Screen, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = constants.CellWidth
	}
	if cellH <= 0 {
		cellH = constants.CellHeight
	}
	s := &Surface{screen: screen, cellW: cellW, cellH: cellH}
	s.Resize()
	return s
}

// Resize re-reads the terminal size
func (s *Surface) Resize() {
	s.cols, s.rows = s.screen.Size()
}

// Screen returns the underlying terminal screen
func (s *Surface) Screen() tcell.Screen { return s.screen }

// Cells returns the full terminal size in cells
func (s *Surface) Cells() (cols, rows int) { return s.cols, s.rows }

// WorldRows is the number of rows available to the world
func (s *Surface) WorldRows() int {
	return max(s.rows-constants.StatusBarHeight, 0)
}

// WorldSize returns the drawable world size in points
func (s *Surface) WorldSize() (width, height float64) {
	return float64(s.cols) * s.cellW, float64(s.WorldRows()) * s.cellH
}

// CellOf returns the cell containing world point p
func (s *Surface) CellOf(p vmath.Vec2) (x, y int) {
	return int(math.Floor(p.X / s.cellW)), int(math.Floor(p.Y / s.cellH))
}

// cellCenter returns the world point at the center of cell (x, y)
func (s *Surface) cellCenter(x, y int) vmath.Vec2 {
	return vmath.Vec2{X: (float64(x) + 0.5) * s.cellW, Y: (float64(y) + 0.5) * s.cellH}
}

// Fill paints every background cell of the world
func (s *Surface) Fill(style tcell.Style) {
	for y := 0; y < s.WorldRows(); y++ {
		for x := 0; x < s.cols; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// FillRect paints every cell the rectangle touches
func (s *Surface) FillRect(r vmath.Rect, style tcell.Style) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x0 := int(math.Floor(r.X / s.cellW))
	y0 := int(math.Floor(r.Y / s.cellH))
	x1 := int(math.Ceil(r.Right()/s.cellW)) - 1
	y1 := int(math.Ceil(r.Bottom()/s.cellH)) - 1

	for y := max(y0, 0); y <= min(y1, s.WorldRows()-1); y++ {
		for x := max(x0, 0); x <= min(x1, s.cols-1); x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// FillCircle paints cells whose center lies inside c. A circle smaller than a
// cell still paints the cell holding its center.
func (s *Surface) FillCircle(c vmath.Circle, style tcell.Style) {
	x0 := int(math.Floor((c.Center.X - c.R) / s.cellW))
	y0 := int(math.Floor((c.Center.Y - c.R) / s.cellH))
	x1 := int(math.Floor((c.Center.X + c.R) / s.cellW))
	y1 := int(math.Floor((c.Center.Y + c.R) / s.cellH))

	painted := false
	for y := max(y0, 0); y <= min(y1, s.WorldRows()-1); y++ {
		for x := max(x0, 0); x <= min(x1, s.cols-1); x++ {
			if c.Contains(s.cellCenter(x, y)) {
				s.screen.SetContent(x, y, ' ', nil, style)
				painted = true
			}
		}
	}
	if !painted {
		x, y := s.CellOf(c.Center)
		if x >= 0 && x < s.cols && y >= 0 && y < s.WorldRows() {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Text writes str starting at cell (x, y), clipped to the screen
func (s *Surface) Text(x, y int, str string, style tcell.Style) {
	if y < 0 || y >= s.rows {
		return
	}
	for _, r := range str {
		if x >= s.cols {
			return
		}
		if x >= 0 {
			s.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// Box paints a filled cell rectangle
func (s *Surface) Box(x, y, w, h int, style tcell.Style) {
	for row := max(y, 0); row < min(y+h, s.rows); row++ {
		for col := max(x, 0); col < min(x+w, s.cols); col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}
