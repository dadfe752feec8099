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

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: a config file that sets nothing but the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)
		require.NoError(t, err)

		// Then: defaults fill the rest
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 3, conf.Game.BoardSize)
		assert.Equal(t, 64, conf.Game.MaxBoardSize)
		assert.False(t, conf.Game.FreeTurnOrder)
		assert.Equal(t, 24*time.Hour, conf.Game.MatchTTL)
		assert.Equal(t, 5, conf.Game.MoveRetries)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
http-port: "8080"
redis:
  host: redis
  port: "6380"
  db: 2
game:
  board-size: 5
  free-turn-order: true
  match-ttl: 1h
`)

		conf, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 2, conf.Redis.DB)
		assert.Equal(t, 5, conf.Game.BoardSize)
		assert.True(t, conf.Game.FreeTurnOrder)
		assert.Equal(t, time.Hour, conf.Game.MatchTTL)
	})

	t.Run("Env overrides file", func(t *testing.T) {
		path := writeConfig(t, "game:\n  board-size: 4\n")
		t.Setenv("GAME_BOARD_SIZE", "7")

		conf, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 7, conf.Game.BoardSize)
	})

	t.Run("Rejects board size below one", func(t *testing.T) {
		path := writeConfig(t, "game:\n  board-size: -2\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidBoardSize)
	})

	t.Run("Rejects default above the max", func(t *testing.T) {
		path := writeConfig(t, "game:\n  board-size: 9\n  max-board-size: 8\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidBoardSize)
	})

	t.Run("Rejects max above the engine limit", func(t *testing.T) {
		path := writeConfig(t, "game:\n  max-board-size: 5000\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidBoardSize)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
	})
}
