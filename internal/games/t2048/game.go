// Package t2048 implements the 2048 tile-merging puzzle: the grid, the move
// resolver, the turn controller and the registry-facing game.
package t2048

import (
	"context"
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile2048/internal/core"
	"github.com/vovakirdan/tile2048/internal/registry"
)

const winNoticeTicks = 180 // ~3s at 60fps

// Game implements the 2048 puzzle for the platform: it owns a Controller and
// drives its turns from ticks, animating each move before finishing it.
type Game struct {
	rules    Rules
	settings Settings
	ctrl     *Controller
	store    Persistence
	logger   *log.Logger
	tick     uint64

	// Screen dimensions
	screenW int
	screenH int

	// Animation
	turn       *Turn
	animations []TileAnimation
	animPhase  AnimationPhase

	// Game state flags
	paused      bool
	tooSmall    bool
	shakeTicks  int
	winTicks    int
	lastSpawned TileState
}

// New creates a classic 2048 game.
func New() *Game {
	return NewWithRules(ClassicRules)
}

// NewWeighted creates the 90/10 spawn variant.
func NewWeighted() *Game {
	return NewWithRules(WeightedRules)
}

// NewWithRules creates a game for the given variant using the current settings.
func NewWithRules(r Rules) *Game {
	return &Game{
		rules:    r,
		settings: CurrentSettings(),
		logger:   log.New(io.Discard),
	}
}

func init() {
	registry.Register(ClassicID, func() registry.Game {
		return New()
	})
	registry.Register(WeightedID, func() registry.Game {
		return NewWeighted()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.rules.ID }

// Title returns the display name.
func (g *Game) Title() string { return g.rules.Title }

// Rules returns the variant.
func (g *Game) Rules() Rules { return g.rules }

// SetPersistence attaches the storage used by Reset and Resume.
func (g *Game) SetPersistence(p Persistence) { g.store = p }

// SetLogger replaces the discard logger.
func (g *Game) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Controller exposes the turn controller, mainly for tests and tooling.
func (g *Game) Controller() *Controller { return g.ctrl }

// Reset starts a new game. Called once at start and again on restart.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.setup(cfg)
	g.startPopAnimation(g.ctrl.NewGame(context.Background())...)
}

// Resume continues the stored game when there is one, otherwise it behaves
// like Reset. The error, if any, is a storage failure and the game is
// playable regardless.
func (g *Game) Resume(ctx context.Context, cfg core.RuntimeConfig) (bool, error) {
	g.setup(cfg)
	resumed, err := g.ctrl.Load(ctx)
	if !resumed {
		g.startPopAnimation(g.spawnedTiles()...)
	}
	return resumed, err
}

func (g *Game) setup(cfg core.RuntimeConfig) {
	g.settings = CurrentSettings()
	g.ctrl = NewController(Options{
		Spawn4Prob:   g.settings.spawn4For(g.rules),
		InitialTiles: g.settings.InitialTiles,
		WinTile:      g.settings.WinTile,
		Rand:         rand.New(rand.NewSource(cfg.Seed)),
		Logger:       g.logger.With("game", g.rules.ID),
		Persistence:  g.store,
	})
	g.tick = 0
	g.turn = nil
	g.stopAnimation()
	g.paused = false
	g.shakeTicks = 0
	g.winTicks = 0
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// spawnedTiles returns every tile on the grid, for the opening pop.
func (g *Game) spawnedTiles() []TileState {
	return g.ctrl.GameState().Tiles
}

// newGame restarts within the same controller, keeping the best score.
func (g *Game) newGame() {
	g.turn = nil
	g.stopAnimation()
	g.shakeTicks = 0
	g.winTicks = 0
	g.startPopAnimation(g.ctrl.NewGame(context.Background())...)
}

// Resize updates the screen dimensions without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	// Board plus HUD and footer
	minW := boardWidth + 2
	minH := boardHeight + hudHeight + 2
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionNewGame) || (in.Has(core.ActionRestart) && g.ctrl.Phase() == PhaseGameOver) {
		g.newGame()
		return core.StepResult{State: g.State()}
	}

	g.updateAnimation()
	if g.shakeTicks > 0 {
		g.shakeTicks--
	}
	if g.winTicks > 0 {
		g.winTicks--
	}

	rejected := false
	if a, ok := in.Direction(); ok {
		dir, _ := DirectionFromAction(a)
		rejected = !g.handleDirection(dir)
	}

	return core.StepResult{State: g.State(), Rejected: rejected}
}

// handleDirection starts a move. Returns false when the move was refused.
func (g *Game) handleDirection(dir Direction) bool {
	turn, err := g.ctrl.HandleDirection(dir)
	switch {
	case errors.Is(err, ErrIllegalMove):
		g.shakeTicks = g.settings.ShakeTicks
		return false
	case err != nil:
		return false
	}

	// A pop still running is cut short by the next slide.
	g.startSlideAnimation(turn)
	return true
}

// finishTurn completes the settled turn and pops the spawned tile.
func (g *Game) finishTurn() {
	res, err := g.ctrl.Finish(context.Background())
	g.turn = nil
	if err != nil {
		g.logger.Error("cannot finish move", "error", err)
		g.stopAnimation()
		return
	}

	g.lastSpawned = res.Spawned
	if res.ReachedWin {
		g.winTicks = winNoticeTicks
	}
	g.startPopAnimation(res.Spawned)
}

// Busy reports whether a move is being animated.
func (g *Game) Busy() bool {
	return g.ctrl != nil && g.ctrl.Phase() == PhaseResolving
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:     g.ctrl.Score(),
		BestScore: g.ctrl.BestScore(),
		GameOver:  g.ctrl.Phase() == PhaseGameOver,
		Paused:    g.paused || g.tooSmall,
		Busy:      g.ctrl.Phase() == PhaseResolving,
	}
}
