// Package config provides YAML-based configuration loading for tile2048.
package config

import (
	"fmt"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the top-level configuration document.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig tunes the rules and animation of the classic variant.
type GameConfig struct {
	Spawn4Probability float64 `yaml:"spawn4_probability" env:"TILE2048_SPAWN4"`
	InitialTiles      int     `yaml:"initial_tiles"`
	WinTile           int     `yaml:"win_tile"`
	SlideTicksPerCell int     `yaml:"slide_ticks_per_cell"`
	PopTicks          int     `yaml:"pop_ticks"`
	ShakeTicks        int     `yaml:"shake_ticks"`
}

// StorageConfig selects and addresses the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend" env:"TILE2048_BACKEND"`
	SQLitePath string `yaml:"sqlite_path" env:"TILE2048_DB"`
	RedisAddr  string `yaml:"redis_addr" env:"TILE2048_REDIS_ADDR"`
	RedisDB    int    `yaml:"redis_db" env:"TILE2048_REDIS_DB"`
}

// ServerConfig holds SSH server settings.
type ServerConfig struct {
	Address     string        `yaml:"address" env:"TILE2048_SSH_ADDR"`
	HostKeyPath string        `yaml:"host_key" env:"TILE2048_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig controls the charmbracelet logger.
type LogConfig struct {
	Level string `yaml:"level" env:"TILE2048_LOG_LEVEL"`
	File  string `yaml:"file"`
}

// Validate checks value ranges that would otherwise surface as odd gameplay.
func (c Config) Validate() error {
	p := c.Game.Spawn4Probability
	if p < 0 || p > 1 {
		return fmt.Errorf("config: spawn4_probability %v out of range [0, 1]", p)
	}
	if c.Game.InitialTiles < 1 || c.Game.InitialTiles > 16 {
		return fmt.Errorf("config: initial_tiles %d out of range [1, 16]", c.Game.InitialTiles)
	}
	if c.Game.WinTile < 4 || c.Game.WinTile&(c.Game.WinTile-1) != 0 {
		return fmt.Errorf("config: win_tile %d is not a power of two >= 4", c.Game.WinTile)
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
