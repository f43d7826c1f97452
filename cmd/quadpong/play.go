package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/core"
	"github.com/vovakirdan/quadpong/internal/game"
	"github.com/vovakirdan/quadpong/internal/platform/tui"
	"github.com/vovakirdan/quadpong/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSide       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice against three CPU paddles",
	Long: `Start a local practice match. You drive one paddle, the CPU drives
the other three.

Controls:
  W/S or Up/Down     - Move (left/right walls)
  A/D or Left/Right  - Move (top/bottom walls)
  P/Esc              - Pause
  R                  - Rematch (after game over)
  Q/Ctrl+C           - Quit

Difficulty options:
  easy   - Slow, sloppy CPU paddles
  normal - Default tuning
  hard   - Fast CPU with sharper prediction

Examples:
  quadpong play
  quadpong play --difficulty easy
  quadpong play --side top --difficulty hard
  quadpong play --config ./my-quadpong.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSide, "side", "left", "Wall to defend: left, right, top, bottom")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		if err := cfg.ApplyDifficulty(flagDifficulty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	side := game.ParseSide(flagSide)
	if side == game.SideNone {
		fmt.Fprintf(os.Stderr, "Error: unknown side %q (want left, right, top, or bottom)\n", flagSide)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	difficulty := flagDifficulty
	if difficulty == "" {
		difficulty = "normal"
	}

	runErr := tui.Run(cfg, rt, store, difficulty, side)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
