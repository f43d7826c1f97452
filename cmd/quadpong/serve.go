package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/platform/tui"
)

var (
	flagSSHAddr       string
	flagHostKey       string
	flagSSHDBPath     string
	flagIdleTimeout   int
	flagServeCfg      string
	flagSSHDifficulty string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host practice mode over SSH",
	Long: `Start an SSH server that lets users connect and play practice matches.

Each SSH connection gets its own match. Results are stored per-server
(all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.quadpong/host_key

Examples:
  quadpong serve                           # Listen on :23235 with auto-generated key
  quadpong serve --ssh :2222               # Listen on port 2222
  quadpong serve --host-key ./my_host_key  # Use specific host key
  quadpong serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagSSHDBPath, "db", "~/.quadpong/scores.db", "Path to results database")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeCfg, "config", "", "Path to custom config YAML")
	serveCmd.Flags().StringVar(&flagSSHDifficulty, "difficulty", "normal", "Difficulty preset for all sessions")
}

func runServe(_ *cobra.Command, _ []string) {
	gameCfg, err := config.Load(flagServeCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := gameCfg.ApplyDifficulty(flagSSHDifficulty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagSSHDBPath,
		Difficulty:  flagSSHDifficulty,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, gameCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting quadpong SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23235")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
