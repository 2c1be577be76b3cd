package constants

import "time"

// Game Loop Timing Constants
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// SensorUpdateInterval is the default accelerometer sampling interval
	SensorUpdateInterval = 100 * time.Millisecond

	// FeedBroadcastInterval is how often remote devices receive ball state
	FeedBroadcastInterval = 50 * time.Millisecond
)

// Ball Tuning
const (
	BallRadius  = 15.0
	SpeedFactor = 1.5
)

// Goal placement, measured inward from the bottom-right corner of the surface
const (
	GoalInsetX = 60.0
	GoalInsetY = 100.0
	GoalRadius = 30.0
)

// Start position of the ball
const (
	StartX = 50.0
	StartY = 50.0
)

// Keyboard tilt emulation
const (
	// KeyboardTiltStep is the tilt added per key press, in g
	KeyboardTiltStep = 0.25

	// KeyboardTiltMax bounds the emulated tilt on each axis
	KeyboardTiltMax = 1.0

	// KeyboardTiltDecay is the fraction of tilt retained per sensor interval
	KeyboardTiltDecay = 0.92
)

// Standard gravity for converting m/s^2 readings to g
const StandardGravity = 9.80665
