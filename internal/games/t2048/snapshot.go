package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and
// for renderers that only need values.
type Snapshot struct {
	Tick      uint64
	Variant   string
	Score     int
	BestScore int
	Board     Board
	MaxTile   int
	Won       bool
	State     GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.ctrl == nil {
		return Snapshot{Variant: g.rules.ID, State: StatePlaying}
	}

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.ctrl.Phase() == PhaseGameOver:
		state = StateGameOver
	case g.ctrl.Phase() == PhaseResolving:
		state = StateResolving
	}

	return Snapshot{
		Tick:      g.tick,
		Variant:   g.rules.ID,
		Score:     g.ctrl.Score(),
		BestScore: g.ctrl.BestScore(),
		Board:     g.ctrl.Board(),
		MaxTile:   g.ctrl.Grid().MaxTile(),
		Won:       g.ctrl.Won(),
		State:     state,
	}
}
