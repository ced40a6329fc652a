package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile2048/internal/core"
	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/registry"
	"github.com/vovakirdan/tile2048/internal/storage"
)

// storeTimeout bounds every storage call made from the UI loop.
const storeTimeout = 2 * time.Second

// persistentGame is implemented by games that save themselves between sessions.
type persistentGame interface {
	SetPersistence(p t2048.Persistence)
	SetLogger(l *log.Logger)
	Resume(ctx context.Context, cfg core.RuntimeConfig) (bool, error)
}

// resizableGame is implemented by games that can follow the terminal size
// without restarting.
type resizableGame interface {
	Resize(w, h int)
}

// ModelOptions tunes a Model.
type ModelOptions struct {
	Slot      string      // Save slot; storage.DefaultSlot when empty
	NewGame   bool        // Ignore the saved game and start fresh
	Logger    *log.Logger // Defaults to a discard logger
	AllowBack bool        // Esc/B leaves the game when paused or over
}

// Model is the Bubble Tea model running a single game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      storage.Backend
	config     core.RuntimeConfig
	opts       ModelOptions
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// store may be nil, in which case nothing is persisted.
func NewModel(game registry.Game, store storage.Backend, cfg core.RuntimeConfig, opts ModelOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Slot == "" {
		opts.Slot = storage.DefaultSlot
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if pg, ok := game.(persistentGame); ok {
		pg.SetLogger(logger)
		if store != nil {
			pg.SetPersistence(storage.ForSlot(store, game.ID(), opts.Slot))
		}
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		opts:       opts,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.start()
	return tickCmd(m.config.TickRate)
}

// start resumes the saved game unless a new one was requested.
func (m Model) start() {
	pg, ok := m.game.(persistentGame)
	if !ok || m.opts.NewGame || m.store == nil {
		m.game.Reset(m.config)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	resumed, err := pg.Resume(ctx, m.config)
	if err != nil {
		m.logger.Warn("could not load saved game", "game", m.game.ID(), "slot", m.opts.Slot, "error", err)
	}
	if resumed {
		m.logger.Info("resumed saved game", "game", m.game.ID(), "slot", m.opts.Slot)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.opts.AllowBack && m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize follows the terminal size. The game keeps running.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if rg, ok := m.game.(resizableGame); ok {
		rg.Resize(msg.Width, msg.Height)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.scoreSaved:
		m.recordScore()
		m.scoreSaved = true
	case !m.gameState.GameOver:
		m.scoreSaved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordScore adds a finished game to the score history. Best effort.
func (m Model) recordScore() {
	if m.store == nil || m.gameState.Score == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if _, err := m.store.SaveScore(ctx, m.game.ID(), m.gameState.Score); err != nil {
		m.logger.Warn("could not save score", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Info("game over", "game", m.game.ID(), "slot", m.opts.Slot, "score", m.gameState.Score)
}

// saveScreenshot saves the current screen to ~/.tile2048/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tile2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store storage.Backend, cfg core.RuntimeConfig, opts ModelOptions) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
