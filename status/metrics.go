// Package status holds the engine metrics. The game loop writes the atomics
// directly; any goroutine may take a Snapshot.
package status

import (
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// Metrics is the fixed set the engine maintains. Zero value is ready to use.
type Metrics struct {
	ReadingsApplied atomic.Int64
	ReadingsDropped atomic.Int64
	Bumps           atomic.Int64
	Wins            atomic.Int64
	FeedDevices     atomic.Int64

	TiltX AtomicFloat
	TiltY AtomicFloat

	// Camera is the settled permission status
	Camera AtomicString
}

// Snapshot is a point-in-time copy of Metrics
type Snapshot struct {
	ReadingsApplied int64
	ReadingsDropped int64
	Bumps           int64
	Wins            int64
	FeedDevices     int64
	TiltX           float64
	TiltY           float64
	Camera          string
}

// Snapshot loads every metric. Fields are read independently, so a snapshot
// taken while the loop runs may mix adjacent updates.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ReadingsApplied: m.ReadingsApplied.Load(),
		ReadingsDropped: m.ReadingsDropped.Load(),
		Bumps:           m.Bumps.Load(),
		Wins:            m.Wins.Load(),
		FeedDevices:     m.FeedDevices.Load(),
		TiltX:           m.TiltX.Get(),
		TiltY:           m.TiltY.Get(),
		Camera:          m.Camera.Load(),
	}
}

// MarshalLogObject implements zapcore.ObjectMarshaler
func (s Snapshot) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("readings_applied", s.ReadingsApplied)
	enc.AddInt64("readings_dropped", s.ReadingsDropped)
	enc.AddInt64("bumps", s.Bumps)
	enc.AddInt64("wins", s.Wins)
	enc.AddInt64("feed_devices", s.FeedDevices)
	enc.AddFloat64("tilt_x", s.TiltX)
	enc.AddFloat64("tilt_y", s.TiltY)
	enc.AddString("camera", s.Camera)
	return nil
}
