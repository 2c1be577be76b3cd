// Package config loads the YAML game configuration with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/tilt-maze/audio"
	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/feed"
	"github.com/lixenwraith/tilt-maze/game"
	"github.com/lixenwraith/tilt-maze/permission"
	"github.com/lixenwraith/tilt-maze/sensor"
	"github.com/lixenwraith/tilt-maze/terminal"
	"github.com/lixenwraith/tilt-maze/vmath"
)

// DefaultFile is looked up in the working directory when no path is given
const DefaultFile = "tilt-maze.yaml"

// Layouts
const (
	LayoutClassic   = "classic"
	LayoutGenerated = "generated"
	LayoutCustom    = "custom"
)

type Config struct {
	Game        GameConfig       `yaml:"game"`
	Level       LevelConfig      `yaml:"level"`
	Sensor      SensorConfig     `yaml:"sensor"`
	Feed        FeedConfig       `yaml:"feed"`
	Permissions PermissionConfig `yaml:"permissions"`
	Audio       AudioConfig      `yaml:"audio"`
	Render      RenderConfig     `yaml:"render"`
}

type GameConfig struct {
	BallRadius  float64 `yaml:"ball_radius"`
	SpeedFactor float64 `yaml:"speed_factor"`
	InvertX     bool    `yaml:"invert_x"`
}

type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"width"`
	H float64 `yaml:"height"`
}

type LevelConfig struct {
	// Layout is classic, generated, or custom for the walls and goal listed here
	Layout   string       `yaml:"layout"`
	Walls    []RectConfig `yaml:"walls,omitempty"`
	Goal     *GoalConfig  `yaml:"goal,omitempty"`
	StartX   float64      `yaml:"start_x,omitempty"`
	StartY   float64      `yaml:"start_y,omitempty"`
	CellSize float64      `yaml:"cell_size,omitempty"`
	Braiding float64      `yaml:"braiding,omitempty"`
	Seed     int64        `yaml:"seed,omitempty"`
}

type GoalConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

type SensorConfig struct {
	Interval     time.Duration `yaml:"interval"`
	KeyboardStep float64       `yaml:"keyboard_step"`
	KeyboardMax  float64       `yaml:"keyboard_max"`
	Decay        float64       `yaml:"decay"`
	Buffer       int           `yaml:"buffer"`
}

type FeedConfig struct {
	Listen            string        `yaml:"listen"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

type PermissionConfig struct {
	Camera string `yaml:"camera"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type RenderConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	Color      string  `yaml:"color"`
	StatusBar  bool    `yaml:"status_bar"`
}

// Default returns the stock configuration
func Default() Config {
	tuning := game.DefaultTuning()
	kb := sensor.DefaultKeyboardConfig()
	fd := feed.DefaultConfig()
	au := audio.DefaultConfig()

	return Config{
		Game: GameConfig{
			BallRadius:  tuning.BallRadius,
			SpeedFactor: tuning.SpeedFactor,
			InvertX:     tuning.InvertX,
		},
		Level: LevelConfig{Layout: LayoutClassic},
		Sensor: SensorConfig{
			Interval:     kb.Interval,
			KeyboardStep: kb.Step,
			KeyboardMax:  kb.Max,
			Decay:        kb.Decay,
			Buffer:       64,
		},
		Feed: FeedConfig{
			Listen:            fd.Listen,
			BroadcastInterval: fd.BroadcastInterval,
		},
		Permissions: PermissionConfig{Camera: string(permission.ModePrompt)},
		Audio: AudioConfig{
			Enabled: au.Enabled,
			Volume:  au.Volume,
		},
		Render: RenderConfig{
			CellWidth:  constants.CellWidth,
			CellHeight: constants.CellHeight,
			Color:      "auto",
			StatusBar:  true,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file at DefaultFile is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyEnv overrides scalar keys from TILT_MAZE_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TILT_MAZE_FEED_LISTEN"); ok {
		c.Feed.Listen = v
	}
	if v, ok := lookup("TILT_MAZE_PERMISSION_CAMERA"); ok {
		c.Permissions.Camera = v
	}
	if v, ok := lookup("TILT_MAZE_AUDIO_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TILT_MAZE_AUDIO_ENABLED: %w", err)
		}
		c.Audio.Enabled = b
	}
	if v, ok := lookup("TILT_MAZE_AUDIO_VOLUME"); ok {
		// 0-100 like a mixer knob
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TILT_MAZE_AUDIO_VOLUME: %w", err)
		}
		c.Audio.Volume = vmath.Clamp(float64(n)/100, 0, 1)
	}
	if v, ok := lookup("TILT_MAZE_SPEED_FACTOR"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TILT_MAZE_SPEED_FACTOR: %w", err)
		}
		c.Game.SpeedFactor = f
	}
	return nil
}

// Validate reports every invalid value at once
func (c Config) Validate() error {
	var errs []error
	if c.Game.BallRadius <= 0 {
		errs = append(errs, fmt.Errorf("game.ball_radius must be > 0, got %v", c.Game.BallRadius))
	}
	if c.Game.SpeedFactor <= 0 {
		errs = append(errs, fmt.Errorf("game.speed_factor must be > 0, got %v", c.Game.SpeedFactor))
	}
	switch c.Level.Layout {
	case LayoutClassic, LayoutGenerated:
		if len(c.Level.Walls) > 0 || c.Level.Goal != nil || c.Level.StartX != 0 || c.Level.StartY != 0 {
			errs = append(errs, fmt.Errorf("level.walls, level.goal and level.start_* need level.layout %q, got %q", LayoutCustom, c.Level.Layout))
		}
	case LayoutCustom:
		if c.Level.Goal == nil {
			errs = append(errs, errors.New("level.goal is required for a custom layout"))
		} else if c.Level.Goal.Radius <= 0 {
			errs = append(errs, fmt.Errorf("level.goal.radius must be > 0, got %v", c.Level.Goal.Radius))
		}
		for i, w := range c.Level.Walls {
			if w.W <= 0 || w.H <= 0 {
				errs = append(errs, fmt.Errorf("level.walls[%d] has non-positive size", i))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("level.layout %q unknown (classic, generated or custom)", c.Level.Layout))
	}
	if c.Level.Braiding < 0 || c.Level.Braiding > 1 {
		errs = append(errs, fmt.Errorf("level.braiding must be within [0, 1], got %v", c.Level.Braiding))
	}
	if c.Sensor.Interval <= 0 {
		errs = append(errs, fmt.Errorf("sensor.interval must be > 0, got %v", c.Sensor.Interval))
	}
	if c.Sensor.Decay < 0 || c.Sensor.Decay > 1 {
		errs = append(errs, fmt.Errorf("sensor.decay must be within [0, 1], got %v", c.Sensor.Decay))
	}
	if _, err := permission.ParseMode(c.Permissions.Camera); err != nil {
		errs = append(errs, fmt.Errorf("permissions.camera: %w", err))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		errs = append(errs, errors.New("render.cell_width and render.cell_height must be > 0"))
	}
	if _, err := terminal.ParseColorMode(c.Render.Color); err != nil {
		errs = append(errs, fmt.Errorf("render.color: %w", err))
	}
	return errors.Join(errs...)
}

// Tuning converts the game section
func (c Config) Tuning() game.Tuning {
	return game.Tuning{
		BallRadius:  c.Game.BallRadius,
		SpeedFactor: c.Game.SpeedFactor,
		InvertX:     c.Game.InvertX,
	}
}

// BuildLevel produces the level for a width x height surface
func (c Config) BuildLevel(width, height float64) game.Level {
	switch c.Level.Layout {
	case LayoutClassic:
		return game.DefaultLevel(width, height)
	case LayoutGenerated:
		return game.GenerateLevel(game.MazeConfig{
			CellSize: c.Level.CellSize,
			Braiding: c.Level.Braiding,
			Seed:     c.Level.Seed,
		}, width, height)
	}

	lvl := game.Level{
		Goal: vmath.Circle{
			Center: vmath.Vec2{X: c.Level.Goal.X, Y: c.Level.Goal.Y},
			R:      c.Level.Goal.Radius,
		},
		Start: vmath.Vec2{X: c.Level.StartX, Y: c.Level.StartY},
	}
	for _, w := range c.Level.Walls {
		lvl.Walls = append(lvl.Walls, vmath.Rect{X: w.X, Y: w.Y, W: w.W, H: w.H})
	}
	return lvl
}

// KeyboardSettings converts the sensor section
func (c Config) KeyboardSettings() sensor.KeyboardConfig {
	return sensor.KeyboardConfig{
		Interval: c.Sensor.Interval,
		Step:     c.Sensor.KeyboardStep,
		Max:      c.Sensor.KeyboardMax,
		Decay:    c.Sensor.Decay,
	}
}

// FeedSettings converts the feed section
func (c Config) FeedSettings() feed.Config {
	fc := feed.DefaultConfig()
	fc.Listen = c.Feed.Listen
	fc.BroadcastInterval = c.Feed.BroadcastInterval
	fc.SensorInterval = c.Sensor.Interval
	return fc
}

// AudioSettings converts the audio section
func (c Config) AudioSettings() audio.Config {
	ac := audio.DefaultConfig()
	ac.Enabled = c.Audio.Enabled
	ac.Volume = c.Audio.Volume
	return ac
}

// PermissionMode returns the validated camera permission mode
func (c Config) PermissionMode() permission.Mode {
	m, _ := permission.ParseMode(c.Permissions.Camera)
	return m
}
