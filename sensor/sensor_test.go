package sensor

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func waitReading(t *testing.T, ch <-chan Reading) Reading {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reading")
		return Reading{}
	}
}

func TestSubscriptionRemoveOnce(t *testing.T) {
	var calls atomic.Int32
	sub := NewSubscription(func() { calls.Add(1) })
	sub.Remove()
	sub.Remove()
	if calls.Load() != 1 {
		t.Fatalf("cancel ran %d times, want 1", calls.Load())
	}
}

func TestKeyboardNudgeClampsAndLevels(t *testing.T) {
	k := NewKeyboard(KeyboardConfig{Interval: time.Hour, Step: 0.4, Max: 1})

	k.Nudge(DirRight)
	k.Nudge(DirRight)
	k.Nudge(DirRight)
	k.Nudge(DirDown)

	x, y := k.Tilt()
	if x != -1 || y != 0.4 {
		t.Fatalf("Tilt() = (%v, %v), want (-1, 0.4)", x, y)
	}

	k.Level()
	if x, y := k.Tilt(); x != 0 || y != 0 {
		t.Fatalf("Tilt() after Level = (%v, %v)", x, y)
	}
}

func TestKeyboardSampleDecays(t *testing.T) {
	k := NewKeyboard(KeyboardConfig{Interval: time.Hour, Step: 0.5, Max: 1, Decay: 0.5})
	k.Nudge(DirLeft)

	r := k.sample(time.Now())
	if r.X != 0.5 {
		t.Fatalf("first sample X = %v, want 0.5", r.X)
	}
	if x, _ := k.Tilt(); x != 0.25 {
		t.Fatalf("tilt after decay = %v, want 0.25", x)
	}
	if r.Z <= 0 || r.Z >= 1 {
		t.Errorf("Z = %v, want in (0, 1)", r.Z)
	}
}

func TestKeyboardSubscribeEmitsUntilRemoved(t *testing.T) {
	k := NewKeyboard(KeyboardConfig{Interval: 5 * time.Millisecond, Step: 0.5, Max: 1, Decay: 1})
	k.Nudge(DirUp)

	ch := make(chan Reading, 64)
	sub := k.Subscribe(func(r Reading) {
		select {
		case ch <- r:
		default:
		}
	})

	r := waitReading(t, ch)
	if r.Y != -0.5 {
		t.Fatalf("reading Y = %v, want -0.5", r.Y)
	}

	sub.Remove()
	time.Sleep(20 * time.Millisecond)
	for len(ch) > 0 {
		<-ch
	}
	time.Sleep(30 * time.Millisecond)
	if len(ch) != 0 {
		t.Fatalf("received %d readings after Remove", len(ch))
	}
}

func TestHubFansIn(t *testing.T) {
	hub := NewHub(8, nil)

	var emitA, emitB Handler
	hub.Attach("a", SourceFunc(func(h Handler) Subscription {
		emitA = h
		return NewSubscription(func() {})
	}))
	hub.Attach("b", SourceFunc(func(h Handler) Subscription {
		emitB = h
		return NewSubscription(func() {})
	}))

	emitA(Reading{X: 1})
	emitB(Reading{X: 2})

	got := waitReading(t, hub.Readings()).X + waitReading(t, hub.Readings()).X
	if got != 3 {
		t.Fatalf("sum of fanned-in readings = %v, want 3", got)
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(1, nil)
	var emit Handler
	hub.Attach("src", SourceFunc(func(h Handler) Subscription {
		emit = h
		return NewSubscription(func() {})
	}))

	emit(Reading{X: 1})
	emit(Reading{X: 2})
	emit(Reading{X: 3})

	if hub.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", hub.Dropped())
	}
	if r := waitReading(t, hub.Readings()); r.X != 1 {
		t.Fatalf("kept reading X = %v, want 1", r.X)
	}
}

func TestHubCloseRemovesSubscriptions(t *testing.T) {
	hub := NewHub(4, nil)
	var removed atomic.Int32
	for i := 0; i < 3; i++ {
		hub.Attach("src", SourceFunc(func(h Handler) Subscription {
			return NewSubscription(func() { removed.Add(1) })
		}))
	}

	hub.Close()
	hub.Close()
	if removed.Load() != 3 {
		t.Fatalf("removed = %d, want 3", removed.Load())
	}

	hub.Attach("late", SourceFunc(func(h Handler) Subscription {
		t.Fatal("Attach after Close must not subscribe")
		return nil
	}))
}

func TestReplayRoundTripThroughRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	t0 := time.Now()
	rec.Record(Reading{X: 0.1, Y: -0.2, Z: 0.9, At: t0})
	rec.Record(Reading{X: 0.3, Y: 0.4, At: t0.Add(20 * time.Millisecond)})
	if err := rec.Err(); err != nil {
		t.Fatal(err)
	}

	replay, err := LoadReplay(&buf)
	if err != nil {
		t.Fatalf("LoadReplay: %v", err)
	}
	if replay.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", replay.Len())
	}
	replay.SetSpeed(4)

	ch := make(chan Reading, 4)
	sub := replay.Subscribe(func(r Reading) { ch <- r })
	defer sub.Remove()

	first := waitReading(t, ch)
	second := waitReading(t, ch)
	if first.X != 0.1 || first.Y != -0.2 || second.X != 0.3 || second.Y != 0.4 {
		t.Fatalf("replayed %+v, %+v", first, second)
	}
	if !second.At.After(first.At) {
		t.Error("replayed readings out of order")
	}
}

func TestLoadReplayErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"malformed", `{"x": 1, "ms": 0}` + "\n" + `{nope}`},
		{"backwards", `{"x": 1, "ms": 50}` + "\n" + `{"x": 1, "ms": 10}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadReplay(strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRecorderTap(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	var emit Handler
	src := SourceFunc(func(h Handler) Subscription {
		emit = h
		return NewSubscription(func() {})
	})

	var seen int
	rec.Tap(src).Subscribe(func(Reading) { seen++ })
	emit(Reading{X: 1, At: time.Now()})

	if seen != 1 {
		t.Fatalf("handler saw %d readings, want 1", seen)
	}
	if !strings.Contains(buf.String(), `"x":1`) {
		t.Fatalf("recording missing reading: %q", buf.String())
	}
}

func TestRecorderKeepsOffsetsMonotonic(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	t0 := time.Now()
	rec.Record(Reading{X: 1, At: t0})
	rec.Record(Reading{X: 2, At: t0.Add(30 * time.Millisecond)})
	// A slower source delivers an older reading late
	rec.Record(Reading{X: 3, At: t0.Add(10 * time.Millisecond)})

	replay, err := LoadReplay(&buf)
	if err != nil {
		t.Fatalf("LoadReplay: %v", err)
	}
	if replay.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", replay.Len())
	}
}
