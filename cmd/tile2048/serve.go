package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a variant picker menu.
The save slot is the user name plus the client key fingerprint, so a
returning user with the same key continues their game. Connections
without a key play in a throwaway guest slot. Score history is shared
by all users.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tile2048/host_key

Examples:
  tile2048 serve                           # Listen on :23234
  tile2048 serve --ssh :2222               # Listen on port 2222
  tile2048 serve --host-key ./my_host_key  # Use specific host key
  tile2048 serve --backend redis           # Share saves through Redis

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := appConfig.Server
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	logger := newLogger(os.Stderr, "tile2048")

	store := openBackend()
	if store != nil {
		defer store.Close()
	} else {
		logger.Warn("running without persistence")
	}

	server, err := tui.NewSSHServer(cfg, store, flagFPS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	logger.Info("server ready", "address", cfg.Address, "backend", appConfig.Storage.Backend)
	fmt.Printf("Connect with: ssh <user>@localhost -p <port> (listening on %s)\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
