package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagRecent bool

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show best runs for a mode",
	Long: `Display the top 10 runs for the specified mode, or the most recent
ones with --recent. Cleared goal runs are marked with *.

Examples:
  blockfall scores marathon
  blockfall scores tetris_sprint --recent`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent runs instead of the best")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID, ok := registry.Resolve(args[0])
	if !ok {
		return fmt.Errorf("unknown mode %q (run 'blockfall list' to see available modes)", args[0])
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	var runs []storage.RunRecord
	if flagRecent {
		runs, err = store.RecentRuns(gameID, 10)
	} else {
		runs, err = store.TopRuns(gameID, 10)
	}
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Printf("Runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockfall play %s' to set the first record!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-9s  %s\n", "Rank", "Score", "Lines", "Pieces", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-9s  %s\n", "----", "-----", "-----", "------", "----", "----")

	for i, r := range runs {
		clock := formatClock(r.Duration)
		if r.Won {
			clock += "*"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-6d  %-9s  %s\n",
			i+1, r.Score, r.Lines, r.Pieces, clock, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestRun(gameID); err == nil && best != nil {
		fmt.Printf("Fastest clear: %s\n", formatClock(best.Duration))
	}
	if high, err := store.HighScore(gameID); err == nil && high > 0 {
		fmt.Printf("Best score: %d\n", high)
	}
	return nil
}

func formatClock(d time.Duration) string {
	cs := d.Milliseconds() / 10
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
