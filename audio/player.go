package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cue is a game event with a sound
type Cue int

const (
	CueBump Cue = iota
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueBump:
		return "bump"
	case CueWin:
		return "win"
	default:
		return fmt.Sprintf("cue(%d)", int(c))
	}
}

// Config holds audio settings
type Config struct {
	Enabled    bool
	SampleRate int
	Volume     float64 // 0.0 - 1.0
}

// DefaultConfig returns enabled audio at 44.1kHz
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		SampleRate: 44100,
		Volume:     0.7,
	}
}

// Player renders cues through the speaker. A player that could not open the
// speaker stays usable and silent.
type Player struct {
	mu      sync.Mutex
	cfg     Config
	rate    beep.SampleRate
	mixer   *beep.Mixer
	started bool
	played  map[Cue]int
}

// NewPlayer creates a stopped player
func NewPlayer(cfg Config) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return &Player{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
		played: make(map[Cue]int),
	}
}

// Start opens the speaker. Disabled players start silently.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Stop silences the mixer and releases the speaker
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.started = false
}

// Play queues cue. Counted even when silent so callers can observe cues.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.played[c]++
	if !p.started {
		return
	}

	s := p.streamer(c)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Played returns how many times c was requested
func (p *Player) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[c]
}

func (p *Player) streamer(c Cue) beep.Streamer {
	switch c {
	case CueBump:
		return CreateBumpSound(p.rate, p.cfg.Volume)
	case CueWin:
		return CreateWinSound(p.rate, p.cfg.Volume)
	default:
		return nil
	}
}
