// Package sensor delivers accelerometer readings from local and remote sources.
//
// Sources invoke handlers from their own goroutines. The game never reads state
// from a handler; readings are funneled through a Hub into the single loop that
// owns the game state.
package sensor

import (
	"sync"
	"time"
)

// Reading is one accelerometer sample in g units, device frame
type Reading struct {
	X, Y, Z float64
	At      time.Time
}

// Handler receives readings. It may be called from any goroutine.
type Handler func(Reading)

// Subscription is released once; extra Remove calls are no-ops
type Subscription interface {
	Remove()
}

// Source is an accelerometer feed
type Source interface {
	Subscribe(h Handler) Subscription
}

type subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps cancel so it runs at most once
func NewSubscription(cancel func()) Subscription {
	return &subscription{cancel: cancel}
}

func (s *subscription) Remove() {
	s.once.Do(s.cancel)
}

// SourceFunc adapts a plain function to Source
type SourceFunc func(h Handler) Subscription

func (f SourceFunc) Subscribe(h Handler) Subscription { return f(h) }
