package t2048

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptState is returned by decoders when a stored game cannot be read at all.
var ErrCorruptState = errors.New("t2048: corrupt persisted state")

// TileState is one persisted tile.
type TileState struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

// GameState is the persisted form of a game.
type GameState struct {
	Tiles     []TileState `json:"tiles"`
	Score     int         `json:"score"`
	BestScore int         `json:"bestScore"`
	GameOver  bool        `json:"gameOver"`
}

// Persistence is the storage collaborator used by the Controller.
// LoadState returns (nil, nil) when nothing is stored. The best score is kept
// apart from the per-game state and survives new games.
type Persistence interface {
	LoadState(ctx context.Context) (*GameState, error)
	SaveState(ctx context.Context, state GameState) error
	BestScore(ctx context.Context) (int, error)
	SaveBestScore(ctx context.Context, score int) error
}

// EncodeGameState serializes a state to JSON.
func EncodeGameState(s GameState) ([]byte, error) {
	if s.Tiles == nil {
		s.Tiles = []TileState{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("t2048: cannot encode state: %w", err)
	}
	return data, nil
}

// DecodeGameState parses a stored state. Tile entries that fail to decode are
// dropped one by one; only an unreadable document yields ErrCorruptState.
func DecodeGameState(data []byte) (*GameState, error) {
	var raw struct {
		Tiles     []json.RawMessage `json:"tiles"`
		Score     int               `json:"score"`
		BestScore int               `json:"bestScore"`
		GameOver  bool              `json:"gameOver"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	state := &GameState{
		Tiles:     make([]TileState, 0, len(raw.Tiles)),
		Score:     raw.Score,
		BestScore: raw.BestScore,
		GameOver:  raw.GameOver,
	}
	for _, entry := range raw.Tiles {
		var ts TileState
		if err := json.Unmarshal(entry, &ts); err != nil {
			continue
		}
		state.Tiles = append(state.Tiles, ts)
	}
	return state, nil
}

// stateOf captures the grid and scores in persisted form.
func stateOf(g *Grid, score, best int, gameOver bool) GameState {
	state := GameState{
		Tiles:     []TileState{},
		Score:     score,
		BestScore: best,
		GameOver:  gameOver,
	}
	for _, c := range g.cells {
		if c.tile != nil {
			state.Tiles = append(state.Tiles, TileState{X: c.x, Y: c.y, Value: c.tile.value})
		}
	}
	return state
}

// restoreTiles places the valid entries of s onto an empty grid and returns
// how many were skipped. Out-of-range coordinates, bad values and repeated
// positions are skipped individually.
func restoreTiles(g *Grid, s *GameState) (skipped int) {
	g.Clear()
	for _, ts := range s.Tiles {
		if _, err := g.Place(ts.X, ts.Y, ts.Value); err != nil {
			skipped++
		}
	}
	return skipped
}
