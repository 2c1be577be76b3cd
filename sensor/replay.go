package sensor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// record is one line of a recorded stream. Ms is the offset from the first reading.
type record struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z,omitempty"`
	Ms int64   `json:"ms"`
}

// Replay plays back a recorded reading stream with its original spacing
type Replay struct {
	records []record
	speed   float64
	loop    bool
}

// LoadReplay parses newline-delimited JSON records. Blank lines are skipped.
func LoadReplay(r io.Reader) (*Replay, error) {
	var recs []record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("replay line %d: %w", line, err)
		}
		if len(recs) > 0 && rec.Ms < recs[len(recs)-1].Ms {
			return nil, fmt.Errorf("replay line %d: offset %dms goes backwards", line, rec.Ms)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay read: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("replay is empty")
	}
	return &Replay{records: recs, speed: 1}, nil
}

// SetSpeed scales playback; 2 plays twice as fast. Non-positive values are ignored.
func (p *Replay) SetSpeed(speed float64) {
	if speed > 0 {
		p.speed = speed
	}
}

// SetLoop restarts playback after the last reading
func (p *Replay) SetLoop(loop bool) { p.loop = loop }

// Len returns the number of recorded readings
func (p *Replay) Len() int { return len(p.records) }

// Subscribe starts playback for h
func (p *Replay) Subscribe(h Handler) Subscription {
	done := make(chan struct{})
	go func() {
		for {
			start := time.Now()
			for _, rec := range p.records {
				offset := time.Duration(float64(rec.Ms) * float64(time.Millisecond) / p.speed)
				timer := time.NewTimer(time.Until(start.Add(offset)))
				select {
				case <-done:
					timer.Stop()
					return
				case now := <-timer.C:
					h(Reading{X: rec.X, Y: rec.Y, Z: rec.Z, At: now})
				}
			}
			if !p.loop {
				return
			}
		}
	}()
	return NewSubscription(func() { close(done) })
}

// Recorder writes readings in the Replay format
type Recorder struct {
	mu     sync.Mutex
	enc    *json.Encoder
	start  time.Time
	lastMs int64
	err    error
}

// NewRecorder writes to w; the first reading sets offset zero
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Record appends r. After the first write error further readings are dropped.
func (rec *Recorder) Record(r Reading) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.err != nil {
		return
	}
	if rec.start.IsZero() {
		rec.start = r.At
	}
	// Sources race for the lock, so offsets are kept monotonic
	ms := max(r.At.Sub(rec.start).Milliseconds(), rec.lastMs)
	rec.lastMs = ms
	rec.err = rec.enc.Encode(record{X: r.X, Y: r.Y, Z: r.Z, Ms: ms})
}

// Err returns the first write error
func (rec *Recorder) Err() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.err
}

// Tap wraps src so every reading is recorded before reaching the handler
func (rec *Recorder) Tap(src Source) Source {
	return SourceFunc(func(h Handler) Subscription {
		return src.Subscribe(func(r Reading) {
			rec.Record(r)
			h(r)
		})
	})
}
