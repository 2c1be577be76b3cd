package game

import (
	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/vmath"
)

// Level is the static layout of one screen: walls, goal and ball start.
// Levels are immutable once handed to a State.
type Level struct {
	Walls []vmath.Rect
	Goal  vmath.Circle
	Start vmath.Vec2

	// AnchorGoal keeps the goal GoalInset points inward from the bottom-right
	// corner whenever the surface is resized
	AnchorGoal bool
	GoalInset  vmath.Vec2
}

// DefaultLevel returns the classic three-wall layout with the goal anchored
// to the bottom-right corner of a width x height surface
func DefaultLevel(width, height float64) Level {
	lvl := Level{
		Walls: []vmath.Rect{
			{X: 50, Y: 100, W: 300, H: 20},
			{X: 100, Y: 200, W: 20, H: 300},
			{X: 200, Y: 400, W: 100, H: 20},
		},
		Goal:       vmath.Circle{R: constants.GoalRadius},
		Start:      vmath.Vec2{X: constants.StartX, Y: constants.StartY},
		AnchorGoal: true,
		GoalInset:  vmath.Vec2{X: constants.GoalInsetX, Y: constants.GoalInsetY},
	}
	lvl.Goal.Center = lvl.anchoredGoal(width, height)
	return lvl
}

// Resized returns a copy of the level with the goal re-anchored for the new surface
func (l Level) Resized(width, height float64) Level {
	if !l.AnchorGoal {
		return l
	}
	out := l
	out.Goal.Center = l.anchoredGoal(width, height)
	return out
}

func (l Level) anchoredGoal(width, height float64) vmath.Vec2 {
	return vmath.Vec2{X: width - l.GoalInset.X, Y: height - l.GoalInset.Y}
}

// Clone returns a deep copy so callers cannot mutate a State's walls
func (l Level) Clone() Level {
	out := l
	out.Walls = append([]vmath.Rect(nil), l.Walls...)
	return out
}
