package sensor

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Hub fans readings from any number of sources into one channel.
// Full buffer drops the new reading; the consumer is a frame-paced loop and a
// stale tilt is worth less than the next one.
type Hub struct {
	ch     chan Reading
	logger *zap.Logger

	mu     sync.Mutex
	subs   []Subscription
	closed bool

	dropped atomic.Uint64
}

// NewHub creates a hub with the given channel buffer
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		ch:     make(chan Reading, buffer),
		logger: logger,
	}
}

// Attach subscribes to src. Attaching after Close is ignored.
func (h *Hub) Attach(name string, src Source) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	log := h.logger.With(zap.String("source", name))
	sub := src.Subscribe(func(r Reading) {
		select {
		case h.ch <- r:
		default:
			if n := h.dropped.Add(1); n%100 == 1 {
				log.Debug("reading dropped", zap.Uint64("dropped_total", n))
			}
		}
	})
	h.subs = append(h.subs, sub)
	log.Info("sensor attached")
}

// Readings is consumed by exactly one goroutine
func (h *Hub) Readings() <-chan Reading {
	return h.ch
}

// Dropped returns how many readings were discarded on a full buffer
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close removes every subscription. The readings channel stays open so late
// handlers never panic on send.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.closed = true
	h.mu.Unlock()

	for _, s := range subs {
		s.Remove()
	}
}
