package t2048

import (
	"context"
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Phase is the controller's turn state.
type Phase int

const (
	PhaseIdle      Phase = iota // Waiting for a direction
	PhaseResolving              // A move is in flight, input locked
	PhaseGameOver               // No legal move left
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

var (
	// ErrIllegalMove is returned for a direction that would not change the grid.
	ErrIllegalMove = errors.New("t2048: illegal move")
	// ErrMoveInFlight is returned for a direction received while a move resolves.
	ErrMoveInFlight = errors.New("t2048: move already in flight")
	// ErrGameOver is returned for a direction received after the game ended.
	ErrGameOver = errors.New("t2048: game over")
	// ErrNotSettled is returned by Finish while tiles are still moving.
	ErrNotSettled = errors.New("t2048: tiles not settled")
	// ErrNoTurn is returned by Finish when no move is in flight.
	ErrNoTurn = errors.New("t2048: no move in flight")
)

// Defaults applied by NewController for zero-valued options.
const (
	DefaultInitialTiles = 2
	DefaultWinTile      = 2048
)

// Options configures a Controller.
type Options struct {
	Spawn4Prob   float64 // Probability that a spawned tile is a 4; 0 always spawns 2
	InitialTiles int     // Tiles spawned by NewGame
	WinTile      int     // Tile value that triggers the win notice
	Seed         int64
	Rand         *rand.Rand // Overrides Seed when set
	Logger       *log.Logger
	Persistence  Persistence // Optional
}

// Turn is a move in flight. Every moved tile must be signalled once
// before the controller can finish the move.
type Turn struct {
	Direction Direction
	Moves     []TileMove
	barrier   *Barrier
}

// Signal marks a moved tile as settled. Returns true for the signal that
// completed the turn.
func (t *Turn) Signal(id TileID) bool { return t.barrier.Signal(id) }

// Done is closed once every moved tile has settled.
func (t *Turn) Done() <-chan struct{} { return t.barrier.Done() }

// Settled reports whether every moved tile has signalled.
func (t *Turn) Settled() bool { return t.barrier.Settled() }

// Pending returns the number of tiles still moving.
func (t *Turn) Pending() int { return t.barrier.Pending() }

// Wait blocks until the turn settles or ctx is done.
func (t *Turn) Wait(ctx context.Context) error { return t.barrier.Wait(ctx) }

// Result describes a finished move.
type Result struct {
	Direction  Direction
	Moves      []TileMove
	Merges     int
	ScoreDelta int
	Spawned    TileState
	GameOver   bool
	ReachedWin bool // The win tile appeared for the first time this game
}

// Controller sequences turns on a single grid: legality, resolve, settle,
// commit, spawn, terminal check and persistence. It is not safe for
// concurrent use; only Turn signals may come from other goroutines.
type Controller struct {
	grid   *Grid
	rng    *rand.Rand
	opts   Options
	logger *log.Logger
	store  Persistence

	phase Phase
	turn  *Turn
	score int
	best  int
	won   bool
}

// NewController creates a controller with an empty grid. Call NewGame or
// Load before the first move.
func NewController(opts Options) *Controller {
	if opts.InitialTiles <= 0 {
		opts.InitialTiles = DefaultInitialTiles
	}
	if opts.WinTile <= 0 {
		opts.WinTile = DefaultWinTile
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Controller{
		grid:   NewGrid(),
		rng:    rng,
		opts:   opts,
		logger: logger,
		store:  opts.Persistence,
	}
}

// NewGame clears the grid, resets the score and spawns the initial tiles.
// The best score is kept. Allowed from any phase.
func (c *Controller) NewGame(ctx context.Context) []TileState {
	spawned := c.reset()
	c.persist(ctx, false)
	return spawned
}

// reset starts a fresh game in memory only.
func (c *Controller) reset() []TileState {
	c.grid.Clear()
	c.turn = nil
	c.score = 0
	c.won = false
	c.phase = PhaseIdle

	spawned := make([]TileState, 0, c.opts.InitialTiles)
	for range c.opts.InitialTiles {
		if c.grid.Full() {
			break
		}
		spawned = append(spawned, c.spawnTile())
	}
	if !CanMoveAny(c.grid) {
		c.phase = PhaseGameOver
	}

	c.logger.Debug("new game", "tiles", len(spawned), "best", c.best)
	return spawned
}

// Load resumes the stored game. Missing or finished games, unreadable
// documents and grids with no valid tile start a fresh game instead.
// resumed reports whether a stored game was continued. A non-nil error is a
// storage failure; the controller still holds a playable game.
func (c *Controller) Load(ctx context.Context) (resumed bool, err error) {
	if c.store == nil {
		c.NewGame(ctx)
		return false, nil
	}

	storedBest, bestErr := c.store.BestScore(ctx)
	if bestErr != nil {
		c.logger.Warn("cannot read best score", "error", bestErr)
	}
	c.best = max(c.best, storedBest)

	state, err := c.store.LoadState(ctx)
	switch {
	case errors.Is(err, ErrCorruptState):
		c.logger.Warn("stored game unreadable, starting fresh", "error", err)
		c.NewGame(ctx)
		return false, nil
	case err != nil:
		// The stored game may still be intact; keep it until the next move.
		c.reset()
		return false, err
	case state == nil || state.GameOver:
		c.NewGame(ctx)
		return false, nil
	}

	c.best = max(c.best, state.BestScore)
	if skipped := restoreTiles(c.grid, state); skipped > 0 {
		c.logger.Warn("skipped invalid stored tiles", "count", skipped)
	}
	if len(c.grid.EmptyCells()) == BoardSize*BoardSize {
		c.NewGame(ctx)
		return false, nil
	}

	c.turn = nil
	c.score = max(0, state.Score)
	c.best = max(c.best, c.score)
	c.won = c.grid.MaxTile() >= c.opts.WinTile
	c.phase = PhaseIdle
	if !CanMoveAny(c.grid) {
		c.phase = PhaseGameOver
		c.persist(ctx, false)
	}
	if bestErr == nil && c.best > storedBest {
		c.saveBest(ctx)
	}

	c.logger.Debug("game resumed", "score", c.score, "tiles", BoardSize*BoardSize-len(c.grid.EmptyCells()))
	return true, nil
}

// HandleDirection is the single input entry point. A legal direction is
// resolved immediately and the returned Turn must be settled before Finish.
func (c *Controller) HandleDirection(dir Direction) (*Turn, error) {
	switch c.phase {
	case PhaseResolving:
		return nil, ErrMoveInFlight
	case PhaseGameOver:
		return nil, ErrGameOver
	}
	if !CanMove(c.grid, dir) {
		return nil, ErrIllegalMove
	}

	moves := Resolve(c.grid, dir)
	ids := make([]TileID, len(moves))
	for i, m := range moves {
		ids[i] = m.TileID
	}

	c.turn = &Turn{
		Direction: dir,
		Moves:     moves,
		barrier:   NewBarrier(ids...),
	}
	c.phase = PhaseResolving
	return c.turn, nil
}

// Finish completes a settled turn: merges are committed and scored, one tile
// is spawned, the terminal check runs and the state is persisted.
func (c *Controller) Finish(ctx context.Context) (Result, error) {
	if c.phase != PhaseResolving || c.turn == nil {
		return Result{}, ErrNoTurn
	}
	if !c.turn.Settled() {
		return Result{}, ErrNotSettled
	}

	turn := c.turn
	delta, merges := CommitMerges(c.grid)
	c.score += delta
	bestChanged := false
	if c.score > c.best {
		c.best = c.score
		bestChanged = true
	}

	res := Result{
		Direction:  turn.Direction,
		Moves:      turn.Moves,
		Merges:     merges,
		ScoreDelta: delta,
		Spawned:    c.spawnTile(),
	}

	if !c.won && c.grid.MaxTile() >= c.opts.WinTile {
		c.won = true
		res.ReachedWin = true
		c.logger.Info("win tile reached", "tile", c.opts.WinTile, "score", c.score)
	}

	c.turn = nil
	c.phase = PhaseIdle
	if !CanMoveAny(c.grid) {
		c.phase = PhaseGameOver
		res.GameOver = true
		c.logger.Info("game over", "score", c.score, "max", c.grid.MaxTile())
	}

	c.persist(ctx, bestChanged)
	return res, nil
}

// Move plays a whole turn without animation: every moved tile settles at once.
func (c *Controller) Move(ctx context.Context, dir Direction) (Result, error) {
	turn, err := c.HandleDirection(dir)
	if err != nil {
		return Result{}, err
	}
	for _, m := range turn.Moves {
		turn.Signal(m.TileID)
	}
	if err := turn.Wait(ctx); err != nil {
		return Result{}, err
	}
	return c.Finish(ctx)
}

// spawnTile places a 2 or a 4 in a uniformly random empty cell.
// The grid must have an empty cell.
func (c *Controller) spawnTile() TileState {
	cell, ok := c.grid.RandomEmptyCell(c.rng)
	if !ok {
		panic("t2048: spawn on a full grid")
	}
	value := 2
	if c.rng.Float64() < c.opts.Spawn4Prob {
		value = 4
	}
	cell.setTile(c.grid.newTile(value))
	return TileState{X: cell.x, Y: cell.y, Value: value}
}

// persist saves the game and, when it rose, the best score. Failures are
// logged and never stop play.
func (c *Controller) persist(ctx context.Context, bestChanged bool) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveState(ctx, c.GameState()); err != nil {
		c.logger.Warn("cannot save game", "error", err)
	}
	if bestChanged {
		c.saveBest(ctx)
	}
}

func (c *Controller) saveBest(ctx context.Context) {
	if err := c.store.SaveBestScore(ctx, c.best); err != nil {
		c.logger.Warn("cannot save best score", "error", err)
	}
}

// GameState returns the persisted form of the current game.
func (c *Controller) GameState() GameState {
	return stateOf(c.grid, c.score, c.best, c.phase == PhaseGameOver)
}

// Grid returns the grid. Callers must treat it as read-only.
func (c *Controller) Grid() *Grid { return c.grid }

// Board returns the resident tile values.
func (c *Controller) Board() Board { return c.grid.Board() }

// Phase returns the current turn state.
func (c *Controller) Phase() Phase { return c.phase }

// Turn returns the move in flight, or nil.
func (c *Controller) Turn() *Turn { return c.turn }

// Score returns the current score.
func (c *Controller) Score() int { return c.score }

// BestScore returns the best score seen, including stored ones.
func (c *Controller) BestScore() int { return c.best }

// Won reports whether the win tile has appeared in this game.
func (c *Controller) Won() bool { return c.won }

// WinTile returns the configured win tile value.
func (c *Controller) WinTile() int { return c.opts.WinTile }
