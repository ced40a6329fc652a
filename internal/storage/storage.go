// Package storage persists games, best scores and score history.
// Two backends are available: SQLite (pure-Go modernc.org/sqlite driver) and
// Redis (go-redis). Both store game states in the JSON shape defined by t2048.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/tile2048/internal/config"
	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

// DefaultSlot is the save slot used when none is given.
const DefaultSlot = "default"

// ScoreEntry represents a single finished game in the score history.
type ScoreEntry struct {
	ID        string
	GameID    string
	Score     int
	CreatedAt time.Time
}

// GameStats contains aggregated statistics for a variant.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Backend is implemented by every storage engine.
// Game state and best score are kept per (gameID, slot); score history per gameID.
type Backend interface {
	LoadState(ctx context.Context, gameID, slot string) (*t2048.GameState, error)
	SaveState(ctx context.Context, gameID, slot string, state t2048.GameState) error
	BestScore(ctx context.Context, gameID, slot string) (int, error)
	SaveBestScore(ctx context.Context, gameID, slot string, score int) error

	SaveScore(ctx context.Context, gameID string, score int) (string, error)
	TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error)
	HighScore(ctx context.Context, gameID string) (int, error)
	Stats(ctx context.Context, gameID string) (GameStats, error)
	ClearScores(ctx context.Context, gameID string) error

	Close() error
}

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// slotStore binds a backend to one game slot.
type slotStore struct {
	backend Backend
	gameID  string
	slot    string
}

// ForSlot adapts a backend to the persistence interface of a single game.
func ForSlot(b Backend, gameID, slot string) t2048.Persistence {
	if slot == "" {
		slot = DefaultSlot
	}
	return &slotStore{backend: b, gameID: gameID, slot: slot}
}

func (s *slotStore) LoadState(ctx context.Context) (*t2048.GameState, error) {
	return s.backend.LoadState(ctx, s.gameID, s.slot)
}

func (s *slotStore) SaveState(ctx context.Context, state t2048.GameState) error {
	return s.backend.SaveState(ctx, s.gameID, s.slot, state)
}

func (s *slotStore) BestScore(ctx context.Context) (int, error) {
	return s.backend.BestScore(ctx, s.gameID, s.slot)
}

func (s *slotStore) SaveBestScore(ctx context.Context, score int) error {
	return s.backend.SaveBestScore(ctx, s.gameID, s.slot, score)
}

// defaultLimit applies the default page size of score listings.
func defaultLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
