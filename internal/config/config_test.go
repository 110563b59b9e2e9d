package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 8, cfg.Rooms.MaxPlayers)
	assert.Equal(t, 500, cfg.Rooms.MaxChatLength)
	assert.Equal(t, time.Second, cfg.Game.Tick)
	assert.Equal(t, 3, cfg.Game.Countdown)
	assert.Equal(t, 90, cfg.Game.DrawingTime)
	assert.Equal(t, 60, cfg.Game.CaptionTime)
	assert.Equal(t, time.Minute, cfg.Signal.JoinWindow)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9000
allowed_origins: ["http://localhost:3000"]
rooms:
  max_players: 4
game:
  tick: 500ms
  drawing_time: 30
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.Rooms.MaxPlayers)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.Tick)
	assert.Equal(t, 30, cfg.Game.DrawingTime)
	assert.Equal(t, 60, cfg.Game.CaptionTime, "unset keys keep defaults")
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("DOODLE_PORT", "7070")
	t.Setenv("DOODLE_ROOMS_MAX_PLAYERS", "12")

	cfg, err := LoadFile(writeConfig(t, "port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 12, cfg.Rooms.MaxPlayers)
}

func TestLoadFile_Invalid(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "rooms:\n  max_players: 1\n"))
	assert.ErrorContains(t, err, "max_players")

	_, err = LoadFile(writeConfig(t, "game:\n  caption_time: 0\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "port: [\n"))
	assert.Error(t, err)
}
