package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kana-drop/internal/platform/tui"
	"github.com/vovakirdan/kana-drop/internal/storage"
)

var (
	flagInteractive bool
	flagLimit       int
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the session history",
	Long: `Display the high score, the best sessions and the most recent ones.

Examples:
  kanadrop scores
  kanadrop scores --limit 20
  kanadrop scores --interactive
  kanadrop scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in a table")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to show per list")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the session history (the high score is kept)")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearResults(); err != nil {
			return err
		}
		fmt.Println("Session history cleared.")
		return nil
	}

	if flagInteractive {
		width, height := terminalSize()
		return tui.RunScoreboard(store, width, height)
	}

	best, err := store.HighScore(storage.DefaultHighScoreKey)
	if err != nil {
		return fmt.Errorf("error retrieving high score: %w", err)
	}
	top, err := store.TopResults(flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}
	recent, err := store.RecentResults(flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High score: %d\n", best)
	fmt.Println()

	if len(top) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'kanadrop play' to set the first high score!")
		return nil
	}

	fmt.Println("Best sessions")
	printResults(top)
	fmt.Println()
	fmt.Println("Recent sessions")
	printResults(recent)

	if stats, err := store.GetStats(); err == nil {
		fmt.Println()
		fmt.Printf("%d sessions, %d cleared, average %.1f\n", stats.Sessions, stats.Clears, stats.AvgScore)
	}
	return nil
}

func printResults(results []storage.Result) {
	fmt.Printf("  %-4s  %-6s  %-5s  %-12s  %s\n", "Rank", "Score", "Stage", "Result", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-12s  %s\n", "----", "-----", "-----", "------", "----")
	for i, r := range results {
		outcome := "all clear"
		if r.Outcome != storage.OutcomeClear {
			outcome = fmt.Sprintf("out at %d", r.Question)
		}
		fmt.Printf("  %-4d  %-6d  %-5d  %-12s  %s\n", i+1, r.Score, r.Stage, outcome, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
