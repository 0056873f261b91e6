package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-engine/internal/config"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rpg-engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.StoreNone, cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.False(t, cfg.NarrativeEnabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
seed: faro
log_level: debug
store: sqlite
sqlite:
  path: /tmp/partidas.db
gemini:
  model: gemini-pro
`)
	t.Setenv("RPG_ENGINE_SEED", "1550")
	t.Setenv("GEMINI_API_KEY", "clave")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1550", cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/partidas.db", cfg.SQLite.Path)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.True(t, cfg.NarrativeEnabled())
}

func TestLoadStoreIsCaseInsensitive(t *testing.T) {
	t.Setenv("RPG_ENGINE_STORE", "Redis")
	t.Setenv("RPG_ENGINE_REDIS_ADDR", "cache:6380")
	t.Setenv("RPG_ENGINE_REDIS_DB", "2")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		file string
		env  map[string]string
	}{
		{
			name: "unknown store",
			env:  map[string]string{"RPG_ENGINE_STORE": "postgres"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"RPG_ENGINE_LOG_LEVEL": "loud"},
		},
		{
			name: "bad env value",
			env:  map[string]string{"RPG_ENGINE_REDIS_DB": "dos"},
		},
		{
			name: "sqlite without path",
			file: "store: sqlite\nsqlite:\n  path: \"\"\n",
		},
		{
			name: "malformed yaml",
			file: "store: [sqlite",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeFile(t, tc.file)
			}

			_, err := config.Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseLogLevel(t *testing.T) {
	level, err := config.ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = config.ParseLogLevel("")
	assert.Error(t, err)
}
