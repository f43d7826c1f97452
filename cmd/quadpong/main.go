// quadpong is a four-paddle pong for the terminal: every wall has a paddle,
// conceding a wall costs you a point, first to the win score takes the match.
//
// Usage:
//
//	quadpong play            - Practice against three CPU paddles
//	quadpong join <url>      - Join an online match on a relay server
//	quadpong serve           - Host practice mode over SSH
//	quadpong scores          - Show practice results
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible practice matches
//	--db <path>     - Set database path (default: ~/.quadpong/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quadpong",
	Short: "Four-paddle pong in your terminal",
	Long: `quadpong is a four-player pong variant. Each wall of the square field
belongs to one paddle; when the ball crosses a wall, the point goes to the
last opponent who touched it (or to the opposite side on an untouched rally).
First to the win score takes the match.

Available commands:
  play     - Practice against three CPU paddles
  join     - Join an online match on a relay server
  serve    - Host practice mode over SSH
  scores   - View practice results

Examples:
  quadpong play
  quadpong play --difficulty hard --side top
  quadpong join wss://play.example.com/ws --room friday
  quadpong serve --ssh :2222
  quadpong scores normal`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.quadpong/scores.db", "Path to results database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
