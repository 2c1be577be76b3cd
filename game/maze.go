package game

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/tilt-maze/vmath"
)

// Cell types
const (
	wall    = true
	passage = false
)

type cell struct {
	X, Y int
}

// MazeConfig drives GenerateLevel
type MazeConfig struct {
	// CellSize is the side of one maze cell in world points
	CellSize float64

	// Braiding: 0.0 (perfect maze) to 1.0 (no dead ends)
	Braiding float64

	Seed int64 // 0 = random
}

// GenerateLevel builds a maze covering the width x height surface.
// The ball starts in the top-left room and the goal sits in the bottom-right room.
func GenerateLevel(cfg MazeConfig, width, height float64) Level {
	size := cfg.CellSize
	if size <= 0 {
		size = 40
	}
	cols := ensureOdd(int(width / size))
	rows := ensureOdd(int(height / size))

	grid := make([][]bool, rows)
	for y := range grid {
		grid[y] = make([]bool, cols)
		for x := range grid[y] {
			grid[y][x] = wall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := cell{1, 1}
	end := cell{cols - 2, rows - 2}

	recursiveBacktracker(grid, start, rng)
	if cfg.Braiding > 0 {
		applyBraiding(grid, cfg.Braiding, rng)
	}
	grid[end.Y][end.X] = passage

	center := func(c cell) vmath.Vec2 {
		return vmath.Vec2{X: (float64(c.X) + 0.5) * size, Y: (float64(c.Y) + 0.5) * size}
	}

	return Level{
		Walls: wallRects(grid, size),
		Goal:  vmath.Circle{Center: center(end), R: size * 0.4},
		Start: center(start),
	}
}

func recursiveBacktracker(grid [][]bool, start cell, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	stack := []cell{start}
	grid[start.Y][start.X] = passage

	dirs := []cell{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]cell, 0, 4)

		for _, d := range dirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = passage
		next := cell{curr.X + d.X, curr.Y + d.Y}
		grid[next.Y][next.X] = passage
		stack = append(stack, next)
	}
}

// applyBraiding opens one wall at dead ends with the given probability,
// refusing any opening that would create a 2x2 open plaza
func applyBraiding(grid [][]bool, probability float64, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])
	ortho := []cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == wall {
				continue
			}

			exits := 0
			for _, d := range ortho {
				if grid[y+d.Y][x+d.X] == passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]cell, 0, 4)
			for _, d := range ortho {
				wx, wy := x+d.X, y+d.Y
				nx, ny := x+2*d.X, y+2*d.Y
				if nx <= 0 || nx >= cols-1 || ny <= 0 || ny >= rows-1 {
					continue
				}
				if grid[wy][wx] == wall && grid[ny][nx] == passage && !formsPlaza(grid, wx, wy) {
					candidates = append(candidates, cell{wx, wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				grid[c.Y][c.X] = passage
			}
		}
	}
}

// formsPlaza reports whether opening (x, y) would complete a 2x2 open square
func formsPlaza(grid [][]bool, x, y int) bool {
	rows, cols := len(grid), len(grid[0])
	open := func(tx, ty int) bool {
		return tx >= 0 && tx < cols && ty >= 0 && ty < rows && grid[ty][tx] == passage
	}
	for _, q := range []cell{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if open(x+q.X, y) && open(x, y+q.Y) && open(x+q.X, y+q.Y) {
			return true
		}
	}
	return false
}

// wallRects merges horizontal runs of wall cells into rectangles
func wallRects(grid [][]bool, size float64) []vmath.Rect {
	var rects []vmath.Rect
	for y, row := range grid {
		for x := 0; x < len(row); {
			if row[x] != wall {
				x++
				continue
			}
			runStart := x
			for x < len(row) && row[x] == wall {
				x++
			}
			rects = append(rects, vmath.Rect{
				X: float64(runStart) * size,
				Y: float64(y) * size,
				W: float64(x-runStart) * size,
				H: size,
			})
		}
	}
	return rects
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
