package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

// Redis keys:
//
//	t2048:state:<game>:<slot>  game state JSON
//	t2048:best:<game>          sorted set, member = slot, score = best score
//	t2048:scores:<game>        sorted set, member = scoreMember JSON, score = game score
const keyPrefix = "t2048:"

func stateKey(gameID, slot string) string { return keyPrefix + "state:" + gameID + ":" + slot }
func bestKey(gameID string) string { return keyPrefix + "best:" + gameID }
func scoresKey(gameID string) string { return keyPrefix + "scores:" + gameID }

// scoreMember makes every history entry a distinct sorted-set member.
type scoreMember struct {
	ID string `json:"id"`
	At int64  `json:"at"`
}

// RedisStore keeps games and scores in Redis.
type RedisStore struct {
	client *redis.Client
}

var _ Backend = (*RedisStore)(nil)

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// LoadState returns the saved game, or nil when the slot is empty.
func (r *RedisStore) LoadState(ctx context.Context, gameID, slot string) (*t2048.GameState, error) {
	val, err := r.client.Get(ctx, stateKey(gameID, slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: failed to get game: %w", err)
	}

	return t2048.DecodeGameState(val)
}

// SaveState replaces the saved game of a slot.
func (r *RedisStore) SaveState(ctx context.Context, gameID, slot string, state t2048.GameState) error {
	data, err := t2048.EncodeGameState(state)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, stateKey(gameID, slot), data, 0).Err(); err != nil {
		return fmt.Errorf("storage: failed to save game: %w", err)
	}
	return nil
}

// BestScore returns the best score of a slot, 0 if none.
func (r *RedisStore) BestScore(ctx context.Context, gameID, slot string) (int, error) {
	score, err := r.client.ZScore(ctx, bestKey(gameID), slot).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: failed to get best score: %w", err)
	}
	return int(score), nil
}

// SaveBestScore raises the best score of a slot. Lower values are ignored.
func (r *RedisStore) SaveBestScore(ctx context.Context, gameID, slot string, score int) error {
	err := r.client.ZAddArgs(ctx, bestKey(gameID), redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: slot}},
	}).Err()
	if err != nil {
		return fmt.Errorf("storage: failed to save best score: %w", err)
	}
	return nil
}

// SaveScore records a finished game and returns its generated ID.
func (r *RedisStore) SaveScore(ctx context.Context, gameID string, score int) (string, error) {
	id := uuid.NewString()
	member, err := json.Marshal(scoreMember{ID: id, At: time.Now().Unix()})
	if err != nil {
		return "", fmt.Errorf("storage: failed to marshal score: %w", err)
	}

	err = r.client.ZAdd(ctx, scoresKey(gameID), redis.Z{
		Score:  float64(score),
		Member: string(member),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("storage: failed to save score: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores, highest first.
func (r *RedisStore) TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, scoresKey(gameID), 0, int64(defaultLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: failed to query scores: %w", err)
	}
	return decodeScores(gameID, zs), nil
}

// HighScore returns the highest recorded score, 0 if none.
func (r *RedisStore) HighScore(ctx context.Context, gameID string) (int, error) {
	top, err := r.TopScores(ctx, gameID, 1)
	if err != nil {
		return 0, err
	}
	if len(top) == 0 {
		return 0, nil
	}
	return top[0].Score, nil
}

// Stats aggregates the whole score history of a game.
func (r *RedisStore) Stats(ctx context.Context, gameID string) (GameStats, error) {
	stats := GameStats{GameID: gameID}

	zs, err := r.client.ZRangeWithScores(ctx, scoresKey(gameID), 0, -1).Result()
	if err != nil {
		return stats, fmt.Errorf("storage: failed to get game stats: %w", err)
	}

	total := 0
	for _, e := range decodeScores(gameID, zs) {
		stats.GamesCount++
		total += e.Score
		stats.HighScore = max(stats.HighScore, e.Score)
		if e.CreatedAt.After(stats.LastPlayed) {
			stats.LastPlayed = e.CreatedAt
		}
	}
	if stats.GamesCount > 0 {
		stats.AvgScore = float64(total) / float64(stats.GamesCount)
	}
	return stats, nil
}

// ClearScores deletes the score history of the given game.
func (r *RedisStore) ClearScores(ctx context.Context, gameID string) error {
	if err := r.client.Del(ctx, scoresKey(gameID)).Err(); err != nil {
		return fmt.Errorf("storage: failed to clear scores: %w", err)
	}
	return nil
}

// decodeScores converts sorted-set entries, skipping members it cannot read.
func decodeScores(gameID string, zs []redis.Z) []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(zs))
	for _, z := range zs {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		var m scoreMember
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		entries = append(entries, ScoreEntry{
			ID:        m.ID,
			GameID:    gameID,
			Score:     int(z.Score),
			CreatedAt: time.Unix(m.At, 0),
		})
	}
	return entries
}
