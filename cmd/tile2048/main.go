// tile2048 is the 2048 sliding-tile game for the terminal.
//
// Usage:
//
//	tile2048 list               - List game variants
//	tile2048 play [variant]     - Play a variant (default 2048)
//	tile2048 menu               - Pick a variant interactively
//	tile2048 serve              - Start SSH server for remote play
//	tile2048 scores [variant]   - Show score history for a variant
//
// Global flags:
//
//	--config <path>   - Config file (default: ~/.tile2048/config.yaml)
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible spawns
//	--backend <name>  - Storage backend: sqlite or redis
//	--db <path>       - SQLite database path
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/config"
	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagFPS     int
	flagSeed    int64
	flagBackend string
	flagDBPath  string

	appConfig config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tile2048",
	Short: "2048 in your terminal",
	Long: `tile2048 is the 2048 sliding-tile game for the terminal.

Slide the tiles with the arrow keys. Equal tiles merge into one,
and a new tile appears after every move. Reach 2048 to win.
Games are saved on every move and resumed on the next start.

Available commands:
  list     - Show the game variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  serve    - Start SSH server for remote play
  scores   - View score history

Examples:
  tile2048 play
  tile2048 play 2048_weighted --new
  tile2048 menu
  tile2048 serve --ssh :2222
  tile2048 scores 2048 --limit 20`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or redis")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to SQLite database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig reads the config file, applies flag overrides and configures
// the classic variant.
func loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagDBPath != "" {
		cfg.Storage.SQLitePath = flagDBPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	t2048.Configure(cfg.Game)
	appConfig = cfg
	return nil
}

// newLogger builds a logger at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(appConfig.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// fileLogger logs to the configured file, since the TUI owns the terminal.
// The returned closer is never nil.
func fileLogger(prefix string) (*log.Logger, io.Closer) {
	path, err := config.ExpandHome(appConfig.Log.File)
	if err != nil || path == "" {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	return newLogger(f, prefix), f
}

// openBackend opens the configured storage. A failure is reported and the
// game runs without persistence.
func openBackend() storage.Backend {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, appConfig.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open %s storage: %v\n", appConfig.Storage.Backend, err)
		return nil
	}
	return store
}
