// Package engine runs the tilt maze: it mounts the sensors and the permission
// request, owns the game state on a single loop, and drives rendering and audio.
package engine

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/tilt-maze/audio"
	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/feed"
	"github.com/lixenwraith/tilt-maze/game"
	"github.com/lixenwraith/tilt-maze/permission"
	"github.com/lixenwraith/tilt-maze/render"
	"github.com/lixenwraith/tilt-maze/render/renderers"
	"github.com/lixenwraith/tilt-maze/sensor"
	"github.com/lixenwraith/tilt-maze/status"
)

// Options wires an Engine. Screen is required; nil optional parts are disabled.
type Options struct {
	Screen     tcell.Screen
	CellWidth  float64
	CellHeight float64

	Tuning     game.Tuning
	BuildLevel func(width, height float64) game.Level

	Keyboard  sensor.KeyboardConfig
	HubBuffer int

	// Feed, when set, is served on FeedListener if given, else on its configured address
	Feed         *feed.Server
	FeedListener net.Listener
	FeedAddr     string

	Replay   sensor.Source
	Recorder *sensor.Recorder

	Audio      *audio.Player
	Permission permission.Mode
	StatusBar  bool

	FrameInterval time.Duration
	Logger        *zap.Logger

	// CrashHandler receives a panic from any engine goroutine and must restore
	// the terminal. Without one the panic propagates.
	CrashHandler func(any)
}

// Engine is the mounted game
type Engine struct {
	opts   Options
	logger *zap.Logger

	screen       tcell.Screen
	surface      *render.Surface
	orchestrator *render.RenderOrchestrator

	// ===== Main-Loop Exclusive =====
	state   *game.State
	pending []*dialog
	alert   *render.Overlay
	message string

	keyboard *sensor.Keyboard
	hub      *sensor.Hub
	player   *audio.Player

	requester permission.Requester
	dialogs   chan *dialog
	events    chan tcell.Event
	done      chan struct{}

	// ===== Atomic (read by other goroutines) =====
	snapshot atomic.Pointer[game.Snapshot]
	overlay  atomic.Pointer[render.Overlay]

	metrics status.Metrics
}

// New builds the engine and its render pipeline. Nothing runs until Run.
func New(opts Options) (*Engine, error) {
	if opts.Screen == nil {
		return nil, fmt.Errorf("engine: screen is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BuildLevel == nil {
		opts.BuildLevel = game.DefaultLevel
	}
	if opts.Tuning.BallRadius <= 0 {
		opts.Tuning = game.DefaultTuning()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = constants.FrameUpdateInterval
	}
	if opts.HubBuffer <= 0 {
		opts.HubBuffer = 64
	}
	if opts.Audio == nil {
		opts.Audio = audio.NewPlayer(audio.Config{Enabled: false})
	}
	if opts.Permission == "" {
		opts.Permission = permission.ModePrompt
	}

	e := &Engine{
		opts:     opts,
		logger:   opts.Logger.Named("engine"),
		screen:   opts.Screen,
		keyboard: sensor.NewKeyboard(opts.Keyboard),
		hub:      sensor.NewHub(opts.HubBuffer, opts.Logger.Named("sensor")),
		player:   opts.Audio,
		dialogs:  make(chan *dialog, 4),
		events:   make(chan tcell.Event, 256),
		done:     make(chan struct{}),
	}
	e.metrics.Camera.Store(permission.Undetermined.String())

	requester, err := permission.NewRequester(opts.Permission, e)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.requester = requester

	e.surface = render.NewSurface(opts.Screen, opts.CellWidth, opts.CellHeight)
	e.orchestrator = render.NewRenderOrchestrator(e.surface)

	type rendererDef struct {
		renderer render.SystemRenderer
		priority render.RenderPriority
	}
	for _, def := range []rendererDef{
		{renderers.NewBackgroundRenderer(), render.PriorityBackground},
		{renderers.NewWallsRenderer(), render.PriorityWall},
		{renderers.NewGoalRenderer(), render.PriorityGoal},
		{renderers.NewBallRenderer(), render.PriorityBall},
		{renderers.NewWinRenderer(), render.PriorityUI},
		{renderers.NewStatusBarRenderer(opts.StatusBar), render.PriorityUI},
		{renderers.NewOverlayRenderer(), render.PriorityOverlay},
	} {
		e.orchestrator.Register(def.renderer, def.priority)
	}

	w, h := e.surface.WorldSize()
	e.state = game.NewState(opts.BuildLevel(w, h), opts.Tuning, w, h)
	e.publish()
	return e, nil
}

// Snapshot returns the last published game state; safe from any goroutine
func (e *Engine) Snapshot() game.Snapshot {
	return *e.snapshot.Load()
}

// Status exposes the engine metrics
func (e *Engine) Status() *status.Metrics {
	return &e.metrics
}

// Overlay returns the dialog or alert on screen, nil if none
func (e *Engine) Overlay() *render.Overlay {
	return e.overlay.Load()
}

// Run mounts sensors, audio and the permission request, then runs the game
// loop until the player quits or ctx is cancelled. Everything mounted is
// released before Run returns. An Engine runs once.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if e.opts.Feed != nil {
		g.Go(func() (err error) {
			defer e.recoverCrash(&err)
			if e.opts.FeedListener != nil {
				return e.opts.Feed.Serve(gctx, e.opts.FeedListener)
			}
			return e.opts.Feed.Run(gctx)
		})
	}

	g.Go(func() (err error) {
		defer cancel()
		defer e.recoverCrash(&err)
		return e.loop(gctx)
	})

	return g.Wait()
}

// recoverCrash hands a panic to CrashHandler and turns it into err
func (e *Engine) recoverCrash(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e.opts.CrashHandler == nil {
		panic(r)
	}
	e.opts.CrashHandler(r)
	if err != nil {
		*err = fmt.Errorf("engine: panic: %v", r)
	}
}

func (e *Engine) loop(ctx context.Context) error {
	outcomes := e.mount(ctx)
	defer e.unmount()

	go e.pollEvents()

	frameTicker := time.NewTicker(e.opts.FrameInterval)
	defer frameTicker.Stop()

	e.renderFrame()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-e.events:
			if !e.handleEvent(ev) {
				return nil
			}

		case r := <-e.hub.Readings():
			e.metrics.ReadingsApplied.Add(1)
			e.applyChange(e.state.Apply(r.X, r.Y))

		case d := <-e.dialogs:
			e.pending = append(e.pending, d)
			e.updateOverlay()

		case o := <-outcomes:
			outcomes = nil
			e.handleOutcome(o)

		case <-frameTicker.C:
			e.renderFrame()
		}
	}
}

// mount attaches every input source and starts the permission request
func (e *Engine) mount(ctx context.Context) <-chan permission.Outcome {
	e.attach("keyboard", e.keyboard)
	if e.opts.Feed != nil {
		e.attach("feed", e.opts.Feed)
	}
	if e.opts.Replay != nil {
		e.attach("replay", e.opts.Replay)
	}

	if err := e.player.Start(); err != nil {
		e.logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
		e.message = "audio off"
	}

	return permission.RequestAsync(ctx, e.requester, permission.Camera)
}

func (e *Engine) attach(name string, src sensor.Source) {
	if e.opts.Recorder != nil {
		src = e.opts.Recorder.Tap(src)
	}
	e.hub.Attach(name, src)
}

// unmount removes every sensor subscription and releases the speaker
func (e *Engine) unmount() {
	close(e.done)
	e.hub.Close()
	e.player.Stop()
	if e.opts.Recorder != nil {
		if err := e.opts.Recorder.Err(); err != nil {
			e.logger.Warn("recording incomplete", zap.Error(err))
		}
	}
	e.metrics.ReadingsDropped.Store(int64(e.hub.Dropped()))
	e.logger.Info("unmounted", zap.Object("metrics", e.metrics.Snapshot()))
}

// pollEvents forwards terminal events until the screen is finalized or the loop exits
func (e *Engine) pollEvents() {
	defer e.recoverCrash(nil)

	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case e.events <- ev:
		case <-e.done:
			return
		}
	}
}

// applyChange plays cues for state edges and publishes the new state
func (e *Engine) applyChange(c game.Change) {
	if c.Bumped {
		e.metrics.Bumps.Add(1)
		e.player.Play(audio.CueBump)
	}
	if c.JustWon {
		e.metrics.Wins.Add(1)
		e.player.Play(audio.CueWin)
		e.logger.Info("goal reached", zap.Uint64("updates", e.state.Snapshot().Updates))
	}
	e.publish()
}

func (e *Engine) publish() {
	snap := e.state.Snapshot()
	e.snapshot.Store(&snap)
	if e.opts.Feed != nil {
		e.opts.Feed.Publish(snap)
	}
}

func (e *Engine) handleOutcome(o permission.Outcome) {
	e.metrics.Camera.Store(o.Status.String())
	log := e.logger.With(zap.Stringer("kind", o.Kind), zap.Stringer("status", o.Status))
	if o.Err != nil {
		log.Warn("permission request failed", zap.Error(o.Err))
	} else {
		log.Info("permission settled")
	}
	if o.NeedsAlert() {
		e.alert = &render.Overlay{
			Lines: []string{constants.PermissionAlertText},
			Hint:  "enter to dismiss",
			Alert: true,
		}
		e.updateOverlay()
	}
}

// updateOverlay picks the pending dialog first, then the alert
func (e *Engine) updateOverlay() {
	switch {
	case len(e.pending) > 0:
		e.overlay.Store(&render.Overlay{
			Title: "Permission",
			Lines: []string{e.pending[0].question},
			Hint:  "y / n",
		})
	case e.alert != nil:
		e.overlay.Store(e.alert)
	default:
		e.overlay.Store(nil)
	}
}

func (e *Engine) renderFrame() {
	tx, ty := e.keyboard.Tilt()
	e.metrics.TiltX.Set(tx)
	e.metrics.TiltY.Set(ty)
	e.metrics.ReadingsDropped.Store(int64(e.hub.Dropped()))

	bar := render.Status{
		TiltX:   tx,
		TiltY:   ty,
		Message: e.message,
	}
	if e.opts.Feed != nil {
		bar.FeedAddr = e.opts.FeedAddr
		bar.Devices = e.opts.Feed.DeviceCount()
		e.metrics.FeedDevices.Store(int64(bar.Devices))
	}
	e.orchestrator.RenderFrame(render.Context{
		Game:    e.state.Snapshot(),
		Status:  bar,
		Overlay: e.overlay.Load(),
	})
}
