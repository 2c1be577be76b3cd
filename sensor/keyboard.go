package sensor

import (
	"math"
	"sync"
	"time"

	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/vmath"
)

// Direction is the way the player wants the ball to roll
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// KeyboardConfig tunes the emulated device
type KeyboardConfig struct {
	Interval time.Duration
	Step     float64
	Max      float64
	Decay    float64 // fraction of tilt kept per interval, 1 = no decay
}

// DefaultKeyboardConfig returns the stock emulation settings
func DefaultKeyboardConfig() KeyboardConfig {
	return KeyboardConfig{
		Interval: constants.SensorUpdateInterval,
		Step:     constants.KeyboardTiltStep,
		Max:      constants.KeyboardTiltMax,
		Decay:    constants.KeyboardTiltDecay,
	}
}

// Keyboard emulates an accelerometer from key presses. Terminals deliver no key
// release events, so tilt is nudged per press and relaxes toward level.
// Readings use the device frame: rolling right is negative x, rolling down is positive y.
type Keyboard struct {
	cfg KeyboardConfig

	mu           sync.Mutex
	tiltX, tiltY float64
}

// NewKeyboard creates a level emulated device
func NewKeyboard(cfg KeyboardConfig) *Keyboard {
	if cfg.Interval <= 0 {
		cfg.Interval = constants.SensorUpdateInterval
	}
	if cfg.Max <= 0 {
		cfg.Max = constants.KeyboardTiltMax
	}
	return &Keyboard{cfg: cfg}
}

// Nudge tilts the device one step toward dir
func (k *Keyboard) Nudge(dir Direction) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch dir {
	case DirLeft:
		k.tiltX += k.cfg.Step
	case DirRight:
		k.tiltX -= k.cfg.Step
	case DirUp:
		k.tiltY -= k.cfg.Step
	case DirDown:
		k.tiltY += k.cfg.Step
	}
	k.tiltX = vmath.Clamp(k.tiltX, -k.cfg.Max, k.cfg.Max)
	k.tiltY = vmath.Clamp(k.tiltY, -k.cfg.Max, k.cfg.Max)
}

// Level resets the tilt to zero
func (k *Keyboard) Level() {
	k.mu.Lock()
	k.tiltX, k.tiltY = 0, 0
	k.mu.Unlock()
}

// Tilt returns the current emulated tilt
func (k *Keyboard) Tilt() (x, y float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tiltX, k.tiltY
}

// sample returns the current tilt as a reading and applies one decay step
func (k *Keyboard) sample(now time.Time) Reading {
	k.mu.Lock()
	defer k.mu.Unlock()

	r := Reading{X: k.tiltX, Y: k.tiltY, Z: gravityZ(k.tiltX, k.tiltY), At: now}

	if k.cfg.Decay > 0 && k.cfg.Decay < 1 {
		k.tiltX *= k.cfg.Decay
		k.tiltY *= k.cfg.Decay
		if math.Abs(k.tiltX) < 1e-3 {
			k.tiltX = 0
		}
		if math.Abs(k.tiltY) < 1e-3 {
			k.tiltY = 0
		}
	}
	return r
}

// Subscribe emits one reading per interval until removed
func (k *Keyboard) Subscribe(h Handler) Subscription {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(k.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				h(k.sample(now))
			}
		}
	}()
	return NewSubscription(func() { close(done) })
}

// gravityZ is the remaining gravity component for a device tilted by x and y
func gravityZ(x, y float64) float64 {
	rest := 1 - x*x - y*y
	if rest <= 0 {
		return 0
	}
	return math.Sqrt(rest)
}
