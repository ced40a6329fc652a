package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/platform/tui"
	"github.com/vovakirdan/tile2048/internal/registry"
	"github.com/vovakirdan/tile2048/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate. Enter continues the saved game of
the variant, N starts a new one. Pause and press Esc to come back.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Continue
  N            - New game
  Tab          - Scores
  Q            - Quit

Examples:
  tile2048 menu
  tile2048 menu --slot work
  tile2048 menu --fps 30`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagSlot, "slot", storage.DefaultSlot, "Save slot")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, logFile := fileLogger("tile2048")
	defer logFile.Close()

	store := openBackend()
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(store, flagSlot, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg, tui.ModelOptions{
			Slot:      flagSlot,
			NewGame:   menuResult.NewGame,
			Logger:    logger,
			AllowBack: true,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
