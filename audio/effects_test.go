package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to exhaustion and returns the sample count
func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		total += n
		for j := 0; j < n; j++ {
			if buf[j][0] < -1.0001 || buf[j][0] > 1.0001 {
				t.Fatalf("sample %d out of range: %f", total-n+j, buf[j][0])
			}
		}
		if !ok {
			return total
		}
	}
	t.Fatal("streamer never drained")
	return 0
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSquare, rate)

	if got, want := drain(t, osc), rate.N(100*time.Millisecond); got != want {
		t.Errorf("oscillator produced %d samples, want %d", got, want)
	}
	if osc.Err() != nil {
		t.Errorf("unexpected error: %v", osc.Err())
	}
}

func TestOscillatorSquareValues(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(220, 50*time.Millisecond, WaveSquare, rate)

	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		if v := samples[i][0]; v != 1.0 && v != -1.0 {
			t.Fatalf("square sample %d = %f, want ±1", i, v)
		}
	}
}

func TestEnvelopeStartsSilent(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(0, 50*time.Millisecond, WaveSquare, rate) // constant +1
	env := NewEnvelope(osc, 50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	samples := make([][2]float64, 4)
	env.Stream(samples)
	if samples[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 during attack", samples[0][0])
	}
	if samples[3][0] <= samples[1][0] {
		t.Errorf("attack should ramp up: %f then %f", samples[1][0], samples[3][0])
	}
}

func TestCueSoundsAreFinite(t *testing.T) {
	rate := beep.SampleRate(44100)

	bump := drain(t, CreateBumpSound(rate, 1))
	if want := rate.N(90 * time.Millisecond); bump != want {
		t.Errorf("bump length = %d, want %d", bump, want)
	}

	win := drain(t, CreateWinSound(rate, 1))
	if want := 3 * rate.N(140*time.Millisecond); win != want {
		t.Errorf("win length = %d, want %d", win, want)
	}
}

func TestDisabledPlayerCountsCues(t *testing.T) {
	p := NewPlayer(Config{Enabled: false})
	if err := p.Start(); err != nil {
		t.Fatalf("Start on disabled player: %v", err)
	}
	p.Play(CueBump)
	p.Play(CueBump)
	p.Play(CueWin)
	p.Stop()

	if p.Played(CueBump) != 2 || p.Played(CueWin) != 1 {
		t.Errorf("played bump=%d win=%d", p.Played(CueBump), p.Played(CueWin))
	}
	if CueWin.String() != "win" {
		t.Errorf("CueWin.String() = %q", CueWin.String())
	}
}
