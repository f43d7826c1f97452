package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
	"github.com/vovakirdan/quadpong/internal/game"
	"github.com/vovakirdan/quadpong/internal/netplay"
	"github.com/vovakirdan/quadpong/internal/platform/tui"
)

var (
	flagRoom     string
	flagSpectate bool
	flagJoinCfg  string
)

var joinCmd = &cobra.Command{
	Use:   "join <server-url>",
	Short: "Join an online match",
	Long: `Connect to a relay server and join a room. The server assigns you a
free wall, or a spectator seat when the room is full (or --spectate is set).

The server is authoritative: it runs the simulation and streams state.
Your paddle still responds instantly; its position is reconciled with
the server in the background.

A slow first connection usually means the server is cold-starting.
The client keeps waiting and retrying; it only gives up after the retry
budget is exhausted, and even then Enter starts a fresh round of attempts.

Examples:
  quadpong join ws://localhost:8080/ws --room friday
  quadpong join wss://play.example.com/ws
  quadpong join wss://play.example.com/ws --room friday --spectate`,
	Args: cobra.ExactArgs(1),
	Run:  runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&flagRoom, "room", "", "Room code (prompted when empty)")
	joinCmd.Flags().BoolVar(&flagSpectate, "spectate", false, "Join as a spectator")
	joinCmd.Flags().StringVar(&flagJoinCfg, "config", "", "Path to custom config YAML")
}

func runJoin(_ *cobra.Command, args []string) {
	serverURL := args[0]

	cfg, err := config.Load(flagJoinCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	room := flagRoom
	if room == "" {
		room, err = tui.RunRoomPrompt()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if room == "" {
			return // Cancelled
		}
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	baseSnapshot := func() *game.Snapshot {
		return game.NewSnapshot(cfg.Field.Width, cfg.Field.Height, cfg.Physics.PaddleLength, cfg.Physics.BallSize)
	}

	phys := game.NewPhysics(cfg.Physics, cfg.Field)
	syn := netplay.NewSynchronizer(baseSnapshot(), phys.ClampPaddle)
	client := netplay.NewClient(cfg.Net, serverURL, room, flagSpectate, syn, baseSnapshot, clientLogger())
	defer client.Close()

	if err := tui.RunOnline(cfg, rt, client, syn); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// clientLogger writes connection logs to a file so they don't corrupt the
// alternate screen. Falls back to a silent logger.
func clientLogger() *log.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard)
	}
	dir := filepath.Join(home, ".quadpong")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(filepath.Join(dir, "client.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "quadpong",
	})
}
