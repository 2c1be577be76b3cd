package renderers

import (
	"github.com/lixenwraith/tilt-maze/render"
)

// BackgroundRenderer paints the playfield
type BackgroundRenderer struct{}

func NewBackgroundRenderer() *BackgroundRenderer { return &BackgroundRenderer{} }

func (r *BackgroundRenderer) Render(_ render.Context, s *render.Surface) {
	s.Fill(render.Fill(render.RgbBackground))
}

// WallsRenderer draws the static walls
type WallsRenderer struct{}

func NewWallsRenderer() *WallsRenderer { return &WallsRenderer{} }

func (r *WallsRenderer) Render(ctx render.Context, s *render.Surface) {
	style := render.Fill(render.RgbWall)
	for _, w := range ctx.Game.Walls {
		s.FillRect(w, style)
	}
}

// GoalRenderer draws the goal circle
type GoalRenderer struct{}

func NewGoalRenderer() *GoalRenderer { return &GoalRenderer{} }

func (r *GoalRenderer) Render(ctx render.Context, s *render.Surface) {
	s.FillCircle(ctx.Game.Goal, render.Fill(render.RgbGoal))
}

// BallRenderer draws the ball, red while it overlaps a wall
type BallRenderer struct{}

func NewBallRenderer() *BallRenderer { return &BallRenderer{} }

func (r *BallRenderer) Render(ctx render.Context, s *render.Surface) {
	color := render.RgbBall
	if ctx.Game.Colliding {
		color = render.RgbBallHit
	}
	s.FillCircle(ctx.Game.Ball(), render.Fill(color))
}
