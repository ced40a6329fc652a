package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))

	assert.Equal(t, Default(), cfg)
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("game:\n  spawn4_probability: 0.1\nstorage:\n  backend: redis\nserver:\n  idle_timeout: 5m\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, cfg.Game.Spawn4Probability, 1e-9)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Server.IdleTimeout)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 2, cfg.Game.InitialTiles)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  spawn4_probability: 0.5\n"), 0o600))

	t.Setenv("TILE2048_SPAWN4", "0.25")
	t.Setenv("TILE2048_REDIS_ADDR", "cache:6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.Game.Spawn4Probability, 1e-9)
	assert.Equal(t, "cache:6380", cfg.Storage.RedisAddr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"probability above one", func(c *Config) { c.Game.Spawn4Probability = 1.5 }, false},
		{"negative probability", func(c *Config) { c.Game.Spawn4Probability = -0.1 }, false},
		{"win tile not power of two", func(c *Config) { c.Game.WinTile = 1000 }, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, false},
		{"no initial tiles", func(c *Config) { c.Game.InitialTiles = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.tile2048/x.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tile2048", "x.db"), got)

	got, err = ExpandHome("/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", got)
}
