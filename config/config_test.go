package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tilt-maze/permission"
	"github.com/lixenwraith/tilt-maze/vmath"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilt-maze.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15.0, cfg.Game.BallRadius)
	assert.Equal(t, 1.5, cfg.Game.SpeedFactor)
	assert.True(t, cfg.Game.InvertX)
	assert.Equal(t, permission.ModePrompt, cfg.PermissionMode())
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
game:
  speed_factor: 3
sensor:
  interval: 40ms
feed:
  listen: ":9000"
permissions:
  camera: denied
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Game.SpeedFactor)
	assert.Equal(t, 15.0, cfg.Game.BallRadius, "unset keys keep defaults")
	assert.Equal(t, 40*time.Millisecond, cfg.Sensor.Interval)
	assert.Equal(t, ":9000", cfg.FeedSettings().Listen)
	assert.Equal(t, 40*time.Millisecond, cfg.FeedSettings().SensorInterval)
	assert.Equal(t, permission.ModeDenied, cfg.PermissionMode())
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
game:
  ball_radius: -1
level:
  layout: spiral
permissions:
  camera: sometimes
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ball_radius")
	assert.Contains(t, err.Error(), "spiral")
	assert.Contains(t, err.Error(), "permissions.camera")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TILT_MAZE_FEED_LISTEN":       ":7000",
		"TILT_MAZE_PERMISSION_CAMERA": "granted",
		"TILT_MAZE_AUDIO_ENABLED":     "false",
		"TILT_MAZE_AUDIO_VOLUME":      "150",
		"TILT_MAZE_SPEED_FACTOR":      "2.5",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, ":7000", cfg.Feed.Listen)
	assert.Equal(t, "granted", cfg.Permissions.Camera)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 1.0, cfg.Audio.Volume)
	assert.Equal(t, 2.5, cfg.Game.SpeedFactor)
}

func TestApplyEnvBadValue(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "TILT_MAZE_AUDIO_ENABLED" {
			return "loud", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestBuildLevelCustom(t *testing.T) {
	path := writeConfig(t, `
level:
  layout: custom
  walls:
    - {x: 10, y: 20, width: 30, height: 40}
  goal: {x: 200, y: 300, radius: 25}
  start_x: 60
  start_y: 70
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	lvl := cfg.BuildLevel(400, 800)
	require.Len(t, lvl.Walls, 1)
	assert.Equal(t, vmath.Rect{X: 10, Y: 20, W: 30, H: 40}, lvl.Walls[0])
	assert.Equal(t, vmath.Circle{Center: vmath.Vec2{X: 200, Y: 300}, R: 25}, lvl.Goal)
	assert.Equal(t, vmath.Vec2{X: 60, Y: 70}, lvl.Start)
	assert.False(t, lvl.AnchorGoal)
}

func TestBuildLevelCustomNeedsGoal(t *testing.T) {
	path := writeConfig(t, "level:\n  layout: custom\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "level.goal")
}

func TestCustomLevelWithoutLayoutFails(t *testing.T) {
	path := writeConfig(t, `
level:
  walls:
    - {x: 10, y: 20, width: 30, height: 40}
  goal: {x: 200, y: 300, radius: 25}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level.layout \"custom\"")
	assert.Contains(t, err.Error(), "\"classic\"")
}

func TestEmptyLayoutIsUnknown(t *testing.T) {
	path := writeConfig(t, "level:\n  layout: \"\"\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "level.layout \"\" unknown")
}

func TestBuildLevelClassicAndGenerated(t *testing.T) {
	cfg := Default()
	classic := cfg.BuildLevel(400, 800)
	assert.Len(t, classic.Walls, 3)
	assert.True(t, classic.AnchorGoal)

	cfg.Level = LevelConfig{Layout: LayoutGenerated, CellSize: 40, Seed: 5}
	gen := cfg.BuildLevel(400, 800)
	assert.NotEmpty(t, gen.Walls)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 100ms")

	path := writeConfig(t, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
