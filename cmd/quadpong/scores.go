package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadpong/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show practice results",
	Long: `Display the top practice results for a difficulty, or the most
recent matches across all difficulties when none is given.

Examples:
  quadpong scores
  quadpong scores normal
  quadpong scores hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printRecent(store)
		return
	}
	printTop(store, args[0])
}

func printTop(store *storage.Store, difficulty string) {
	results, err := store.TopResults(difficulty, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best practice results - %s\n\n", difficulty)

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'quadpong play --difficulty %s' to set the first one!\n", difficulty)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-4s  %s\n", "Rank", "Score", "Side", "Won", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-4s  %s\n", "----", "-----", "----", "---", "----")

	for i, r := range results {
		won := "no"
		if r.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-6d  %-6s  %-4s  %s\n",
			i+1, r.Score, r.Side, won, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	best, err := store.BestScore(difficulty)
	if err == nil && best > 0 {
		fmt.Printf("\nBest score: %d\n", best)
	}
}

func printRecent(store *storage.Store) {
	results, err := store.RecentResults(15)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent practice matches")
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No matches recorded yet. Play 'quadpong play' to get started!")
		return
	}

	fmt.Printf("  %-10s  %-6s  %-6s  %-4s  %s\n", "Difficulty", "Score", "Side", "Won", "Date")
	fmt.Printf("  %-10s  %-6s  %-6s  %-4s  %s\n", "----------", "-----", "----", "---", "----")

	for _, r := range results {
		won := "no"
		if r.Won {
			won = "yes"
		}
		fmt.Printf("  %-10s  %-6d  %-6s  %-4s  %s\n",
			r.Difficulty, r.Score, r.Side, won, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
