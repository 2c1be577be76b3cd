// Package feed accepts accelerometer streams from phones over WebSocket and
// mirrors the ball state back to them.
package feed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/game"
	"github.com/lixenwraith/tilt-maze/sensor"
)

//go:embed page.html
var page []byte

// Config holds feed server settings
type Config struct {
	// Listen is the bind address; empty disables the feed
	Listen string

	BroadcastInterval time.Duration
	SensorInterval    time.Duration
	HelloTimeout      time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns a disabled feed with stock timings
func DefaultConfig() Config {
	return Config{
		Listen:            "",
		BroadcastInterval: constants.FeedBroadcastInterval,
		SensorInterval:    constants.SensorUpdateInterval,
		HelloTimeout:      5 * time.Second,
		WriteTimeout:      2 * time.Second,
		ShutdownTimeout:   2 * time.Second,
	}
}

// Server is a sensor.Source backed by remote devices
type Server struct {
	cfg      Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	handlers map[uint64]sensor.Handler
	nextID   uint64

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool

	devices atomic.Int32
	pubSeq  atomic.Uint64
	state   atomic.Pointer[stateFrame]
}

type stateFrame struct {
	seq  uint64
	data []byte
}

// NewServer creates a server; call Run or mount Handler to serve it
func NewServer(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = def.BroadcastInterval
	}
	if cfg.SensorInterval <= 0 {
		cfg.SensorInterval = def.SensorInterval
	}
	if cfg.HelloTimeout <= 0 {
		cfg.HelloTimeout = def.HelloTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	return &Server{
		cfg:    cfg,
		logger: logger.Named("feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Phones load the page from this server, but allow tools on other origins too
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[uint64]sensor.Handler),
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

// Handler serves the device page on / and the socket on /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/ws", s.handleSocket)
	return mux
}

// Run listens on cfg.Listen until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("feed listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("feed shutdown", zap.Error(err))
		}
		// Hijacked websocket conns are not tracked by Shutdown
		s.closeDevices()
		return nil
	}
}

// Subscribe registers h for readings from every connected device
func (s *Server) Subscribe(h sensor.Handler) sensor.Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.mu.Unlock()

	return sensor.NewSubscription(func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	})
}

// Publish records the latest ball state for broadcast
func (s *Server) Publish(snap game.Snapshot) {
	data, err := Encode(MsgState, State{
		X:         snap.Position.X,
		Y:         snap.Position.Y,
		Colliding: snap.Colliding,
		Won:       snap.Won,
		Width:     snap.Width,
		Height:    snap.Height,
	})
	if err != nil {
		s.logger.Error("encode state", zap.Error(err))
		return
	}
	s.state.Store(&stateFrame{seq: s.pubSeq.Add(1), data: data})
}

// DeviceCount returns the number of connected devices
func (s *Server) DeviceCount() int {
	return int(s.devices.Load())
}

// track registers conn; it reports false once the server has shut down
func (s *Server) track(conn *websocket.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.devices.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
	s.devices.Add(-1)
}

func (s *Server) closeDevices() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.closed = true
	for conn := range s.conns {
		s.closeWith(conn, websocket.CloseGoingAway, "game closed")
		_ = conn.Close()
	}
}

func (s *Server) dispatch(r sensor.Reading) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.handlers {
		h(r)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.logger.With(zap.String("remote", r.RemoteAddr))

	hello, err := s.awaitHello(conn)
	if err != nil {
		log.Info("device rejected", zap.Error(err))
		return
	}

	id := uuid.NewString()
	log = log.With(zap.String("device", id), zap.String("name", hello.Name))

	if !s.track(conn) {
		s.closeWith(conn, websocket.CloseGoingAway, "game closed")
		log.Info("device rejected after shutdown")
		return
	}
	defer s.untrack(conn)

	welcome, err := Encode(MsgWelcome, Welcome{DeviceID: id, IntervalMs: int(s.cfg.SensorInterval / time.Millisecond)})
	if err != nil {
		log.Error("encode welcome", zap.Error(err))
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
		log.Info("welcome write failed", zap.Error(err))
		return
	}

	log.Info("device connected")

	done := make(chan struct{})
	go s.writeLoop(conn, done, log)

	s.readLoop(conn, log)
	close(done)
	log.Info("device disconnected")
}

// awaitHello reads the first frame and checks the protocol version.
// A version mismatch is answered with a close frame.
func (s *Server) awaitHello(conn *websocket.Conn) (Hello, error) {
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.HelloTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, b, err := conn.ReadMessage()
	if err != nil {
		return Hello{}, fmt.Errorf("read hello: %w", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		return Hello{}, err
	}
	if env.T != MsgHello {
		s.closeWith(conn, websocket.ClosePolicyViolation, "expected hello")
		return Hello{}, fmt.Errorf("first frame %q, want %q", env.T, MsgHello)
	}
	hello, err := DecodePayload[Hello](env)
	if err != nil {
		return Hello{}, err
	}
	if hello.V != ProtocolVersion {
		s.closeWith(conn, websocket.CloseProtocolError, fmt.Sprintf("unsupported protocol version %d", hello.V))
		return Hello{}, fmt.Errorf("protocol version %d, want %d", hello.V, ProtocolVersion)
	}
	return hello, nil
}

func (s *Server) closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.cfg.WriteTimeout))
}

func (s *Server) readLoop(conn *websocket.Conn, log *zap.Logger) {
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("device read", zap.Error(err))
			}
			return
		}

		env, err := DecodeEnvelope(b)
		if err != nil {
			log.Debug("bad frame skipped", zap.Error(err))
			continue
		}
		switch env.T {
		case MsgReading:
			rd, err := DecodePayload[Reading](env)
			if err != nil {
				log.Debug("bad reading skipped", zap.Error(err))
				continue
			}
			s.dispatch(sensor.Reading{X: rd.X, Y: rd.Y, Z: rd.Z, At: time.Now()})
		default:
			log.Debug("unexpected frame skipped", zap.String("type", env.T))
		}
	}
}

// writeLoop is the only writer after welcome
func (s *Server) writeLoop(conn *websocket.Conn, done <-chan struct{}, log *zap.Logger) {
	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	var lastSeq uint64
	sent := false
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame := s.state.Load()
			if frame == nil || (sent && frame.seq == lastSeq) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, frame.data); err != nil {
				log.Debug("state write failed", zap.Error(err))
				// Unblock the reader
				_ = conn.Close()
				return
			}
			lastSeq, sent = frame.seq, true
		}
	}
}
