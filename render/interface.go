package render

import "github.com/lixenwraith/tilt-maze/game"

// Overlay is a modal box drawn above everything else
type Overlay struct {
	Title string
	Lines []string
	Hint  string
	Alert bool
}

// Status feeds the bottom status bar
type Status struct {
	TiltX, TiltY float64
	Devices      int
	FeedAddr     string
	Message      string
}

// Context is everything a renderer may read for one frame
type Context struct {
	Game    game.Snapshot
	Status  Status
	Overlay *Overlay
}

// SystemRenderer draws one layer
type SystemRenderer interface {
	Render(ctx Context, s *Surface)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}

// RenderPriority determines render order. Lower values render first
type RenderPriority int

const (
	PriorityBackground RenderPriority = iota
	PriorityWall
	PriorityGoal
	PriorityBall
	PriorityUI
	PriorityOverlay
)
