package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/tilt-maze/audio"
	"github.com/lixenwraith/tilt-maze/config"
	"github.com/lixenwraith/tilt-maze/engine"
	"github.com/lixenwraith/tilt-maze/feed"
	"github.com/lixenwraith/tilt-maze/sensor"
	"github.com/lixenwraith/tilt-maze/terminal"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// playOptions collects flags shared by the play and replay commands
type playOptions struct {
	configPath string
	debug      bool
	listen     string
	color      string
	record     string

	replayPath  string
	replaySpeed float64
	replayLoop  bool
}

func play(ctx context.Context, opts playOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Feed.Listen = opts.listen
	}
	if opts.color != "" {
		cfg.Render.Color = opts.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, cleanup, err := setupLogging(opts.debug)
	if err != nil {
		return err
	}
	defer cleanup()

	var replay sensor.Source
	if opts.replayPath != "" {
		r, err := loadReplay(opts.replayPath)
		if err != nil {
			return err
		}
		r.SetSpeed(opts.replaySpeed)
		r.SetLoop(opts.replayLoop)
		logger.Info("replay loaded", zap.String("path", opts.replayPath), zap.Int("readings", r.Len()))
		replay = r
	}

	var recorder *sensor.Recorder
	if opts.record != "" {
		f, err := os.Create(opts.record)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		recorder = sensor.NewRecorder(f)
	}

	var feedSrv *feed.Server
	if cfg.Feed.Listen != "" {
		feedSrv = feed.NewServer(cfg.FeedSettings(), logger)
	}

	colorMode, err := terminal.ParseColorMode(cfg.Render.Color)
	if err != nil {
		return err
	}
	terminal.Apply(colorMode)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic recovery: the terminal must be usable again before the trace prints
	crash := func(r any) {
		terminal.EmergencyReset(os.Stdout)
		// \r\n for raw mode compatibility
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTILT-MAZE CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	}
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()

	eng, err := engine.New(engine.Options{
		Screen:       screen,
		CellWidth:    cfg.Render.CellWidth,
		CellHeight:   cfg.Render.CellHeight,
		Tuning:       cfg.Tuning(),
		BuildLevel:   cfg.BuildLevel,
		Keyboard:     cfg.KeyboardSettings(),
		HubBuffer:    cfg.Sensor.Buffer,
		Feed:         feedSrv,
		FeedAddr:     cfg.Feed.Listen,
		Replay:       replay,
		Recorder:     recorder,
		Audio:        audio.NewPlayer(cfg.AudioSettings()),
		Permission:   cfg.PermissionMode(),
		StatusBar:    cfg.Render.StatusBar,
		Logger:       logger,
		CrashHandler: crash,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.String("layout", cfg.Level.Layout),
		zap.String("feed", cfg.Feed.Listen),
		zap.Stringer("color", colorMode))
	return eng.Run(ctx)
}

func loadReplay(path string) (*sensor.Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	r, err := sensor.LoadReplay(f)
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", path, err)
	}
	return r, nil
}
