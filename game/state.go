package game

import (
	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/vmath"
)

// Tuning holds the ball constants
type Tuning struct {
	BallRadius  float64
	SpeedFactor float64

	// InvertX negates the horizontal reading; device x points opposite to screen x
	InvertX bool
}

// DefaultTuning returns the stock ball settings
func DefaultTuning() Tuning {
	return Tuning{
		BallRadius:  constants.BallRadius,
		SpeedFactor: constants.SpeedFactor,
		InvertX:     true,
	}
}

// Change reports rising edges produced by one update, consumed by audio cues
type Change struct {
	Bumped  bool // Colliding went false -> true
	JustWon bool // Won went false -> true
}

// Snapshot is an immutable copy of the state for renderers and remote devices
type Snapshot struct {
	Position  vmath.Vec2
	Radius    float64
	Colliding bool
	Won       bool
	Width     float64
	Height    float64
	Walls     []vmath.Rect
	Goal      vmath.Circle
	Updates   uint64
}

// Ball returns the ball as a circle
func (s Snapshot) Ball() vmath.Circle {
	return vmath.Circle{Center: s.Position, R: s.Radius}
}

// State is the single game unit: clamped ball position, cosmetic collision flag
// and latched win flag. Not safe for concurrent use; the engine loop owns it.
type State struct {
	level  Level
	tuning Tuning
	width  float64
	height float64

	pos       vmath.Vec2
	colliding bool
	won       bool
	updates   uint64
}

// NewState places the ball at the level start, clamped to the surface
func NewState(level Level, tuning Tuning, width, height float64) *State {
	s := &State{
		level:  level.Clone().Resized(width, height),
		tuning: tuning,
		width:  width,
		height: height,
	}
	s.pos = vmath.ClampToBounds(level.Start, tuning.BallRadius, width, height)
	s.recompute()
	return s
}

// Apply advances the ball by one accelerometer delta (x, y in g)
func (s *State) Apply(x, y float64) Change {
	dx := x * s.tuning.SpeedFactor
	if s.tuning.InvertX {
		dx = -dx
	}
	dy := y * s.tuning.SpeedFactor

	next := s.pos.Add(vmath.Vec2{X: dx, Y: dy})
	s.pos = vmath.ClampToBounds(next, s.tuning.BallRadius, s.width, s.height)
	s.updates++
	return s.recompute()
}

// Resize changes the surface bounds and re-clamps the ball
func (s *State) Resize(width, height float64) Change {
	s.width, s.height = width, height
	s.level = s.level.Resized(width, height)
	s.pos = vmath.ClampToBounds(s.pos, s.tuning.BallRadius, width, height)
	return s.recompute()
}

// recompute derives the collision flag and latches the win flag
func (s *State) recompute() Change {
	var c Change

	colliding := s.isColliding(s.pos)
	c.Bumped = colliding && !s.colliding
	s.colliding = colliding

	if !s.won && vmath.CirclesTouch(s.ball(), s.level.Goal) {
		s.won = true
		c.JustWon = true
	}
	return c
}

func (s *State) isColliding(p vmath.Vec2) bool {
	for _, w := range s.level.Walls {
		if vmath.BallOverlapsRect(p, s.tuning.BallRadius, w) {
			return true
		}
	}
	return false
}

func (s *State) ball() vmath.Circle {
	return vmath.Circle{Center: s.pos, R: s.tuning.BallRadius}
}

// Position returns the ball center
func (s *State) Position() vmath.Vec2 { return s.pos }

// Colliding reports whether the ball's bounding box overlaps any wall
func (s *State) Colliding() bool { return s.colliding }

// Won reports the latched win flag
func (s *State) Won() bool { return s.won }

// Snapshot copies the current state
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Position:  s.pos,
		Radius:    s.tuning.BallRadius,
		Colliding: s.colliding,
		Won:       s.won,
		Width:     s.width,
		Height:    s.height,
		Walls:     append([]vmath.Rect(nil), s.level.Walls...),
		Goal:      s.level.Goal,
		Updates:   s.updates,
	}
}
