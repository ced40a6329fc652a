package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tile2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration, used when the embedded YAML
// cannot be parsed.
func Default() Config {
	return Config{
		Game: GameConfig{
			Spawn4Probability: 0.5,
			InitialTiles:      2,
			WinTile:           2048,
			SlideTicksPerCell: 3,
			PopTicks:          6,
			ShakeTicks:        8,
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "~/.tile2048/tile2048.db",
			RedisAddr:  "localhost:6379",
		},
		Server: ServerConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.tile2048/tile2048.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
