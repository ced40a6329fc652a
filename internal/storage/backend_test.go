package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

// runBackendTests exercises the behaviour every backend must share.
func runBackendTests(t *testing.T, b Backend) {
	t.Run("state round trip", func(t *testing.T) {
		ctx := context.Background()

		got, err := b.LoadState(ctx, t2048.ClassicID, "empty")
		require.NoError(t, err)
		assert.Nil(t, got, "empty slot should load as nil")

		state := t2048.GameState{
			Tiles:     []t2048.TileState{{X: 0, Y: 0, Value: 2}, {X: 3, Y: 1, Value: 64}},
			Score:     128,
			BestScore: 256,
		}
		require.NoError(t, b.SaveState(ctx, t2048.ClassicID, "alice", state))

		got, err = b.LoadState(ctx, t2048.ClassicID, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state, *got)

		// Saving again replaces the slot.
		state.Score = 132
		state.GameOver = true
		require.NoError(t, b.SaveState(ctx, t2048.ClassicID, "alice", state))
		got, err = b.LoadState(ctx, t2048.ClassicID, "alice")
		require.NoError(t, err)
		assert.Equal(t, 132, got.Score)
		assert.True(t, got.GameOver)

		// Slots and variants are independent.
		other, err := b.LoadState(ctx, t2048.WeightedID, "alice")
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("best score only rises", func(t *testing.T) {
		ctx := context.Background()

		best, err := b.BestScore(ctx, t2048.ClassicID, "bob")
		require.NoError(t, err)
		assert.Zero(t, best)

		require.NoError(t, b.SaveBestScore(ctx, t2048.ClassicID, "bob", 500))
		require.NoError(t, b.SaveBestScore(ctx, t2048.ClassicID, "bob", 300))

		best, err = b.BestScore(ctx, t2048.ClassicID, "bob")
		require.NoError(t, err)
		assert.Equal(t, 500, best)

		require.NoError(t, b.SaveBestScore(ctx, t2048.ClassicID, "bob", 800))
		best, err = b.BestScore(ctx, t2048.ClassicID, "bob")
		require.NoError(t, err)
		assert.Equal(t, 800, best)
	})

	t.Run("score history", func(t *testing.T) {
		ctx := context.Background()
		const game = "history_test"

		for _, s := range []int{100, 50, 200, 100} {
			id, err := b.SaveScore(ctx, game, s)
			require.NoError(t, err)
			assert.NotEmpty(t, id)
		}
		_, err := b.SaveScore(ctx, "other_game", 999)
		require.NoError(t, err)

		top, err := b.TopScores(ctx, game, 3)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, 200, top[0].Score)
		assert.Equal(t, 100, top[1].Score)
		assert.Equal(t, 100, top[2].Score)
		assert.Equal(t, game, top[0].GameID)
		assert.NotEqual(t, top[1].ID, top[2].ID)

		high, err := b.HighScore(ctx, game)
		require.NoError(t, err)
		assert.Equal(t, 200, high)

		stats, err := b.Stats(ctx, game)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.GamesCount)
		assert.Equal(t, 200, stats.HighScore)
		assert.InDelta(t, 112.5, stats.AvgScore, 0.001)

		require.NoError(t, b.ClearScores(ctx, game))
		high, err = b.HighScore(ctx, game)
		require.NoError(t, err)
		assert.Zero(t, high)

		others, err := b.TopScores(ctx, "other_game", 10)
		require.NoError(t, err)
		assert.Len(t, others, 1, "clearing one game must not touch another")
	})

	t.Run("slot adapter", func(t *testing.T) {
		ctx := context.Background()
		p := ForSlot(b, t2048.WeightedID, "")

		c := t2048.NewController(t2048.Options{Seed: 3, Persistence: p})
		resumed, err := c.Load(ctx)
		require.NoError(t, err)
		assert.False(t, resumed)

		stored, err := b.LoadState(ctx, t2048.WeightedID, DefaultSlot)
		require.NoError(t, err)
		require.NotNil(t, stored, "a new game should be persisted")
		assert.Len(t, stored.Tiles, t2048.DefaultInitialTiles)

		again := t2048.NewController(t2048.Options{Seed: 4, Persistence: p})
		resumed, err = again.Load(ctx)
		require.NoError(t, err)
		assert.True(t, resumed)
		assert.Equal(t, c.Board(), again.Board())
	})
}
