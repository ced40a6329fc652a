package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tile2048/internal/core"
	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/platform/tui"
	"github.com/vovakirdan/tile2048/internal/registry"
	"github.com/vovakirdan/tile2048/internal/storage"
)

var (
	flagSlot    string
	flagNewGame bool
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the given variant, 2048 by default.
The saved game of the slot is resumed unless --new is given.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  N                - New game
  R                - Restart (after game over)
  P/Space          - Pause
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Examples:
  tile2048 play
  tile2048 play 2048_weighted
  tile2048 play --slot work --new
  tile2048 play --seed 42 --backend redis`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", storage.DefaultSlot, "Save slot")
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Start a new game instead of resuming")
}

// terminalConfig returns the runtime config for the current terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := t2048.ClassicID
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tile2048 list' to see available variants.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, logFile := fileLogger("tile2048")
	store := openBackend()

	runErr := tui.Run(game, store, terminalConfig(), tui.ModelOptions{
		Slot:    flagSlot,
		NewGame: flagNewGame,
		Logger:  logger,
	})

	if store != nil {
		store.Close()
	}
	logFile.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
