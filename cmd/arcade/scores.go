package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battle-arcade/internal/registry"
	"github.com/vovakirdan/battle-arcade/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top 10 high scores and the win tally for the specified game.
Without a game, show a summary of every game played so far.

Examples:
  arcade scores
  arcade scores tanks
  arcade scores tictactoe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runScoresSummary()
	}
	gameID := args[0]

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w, run 'arcade list' to see available games", err)
	}

	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	stats, err := store.GameStats(gameID)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}

	tally, err := store.WinTally(gameID)
	if err == nil && len(tally) > 0 {
		fmt.Println()
		fmt.Println("Wins:")
		for _, name := range sortedByWins(tally) {
			fmt.Printf("  %-8s %d\n", name, tally[name])
		}
	}
	return nil
}

func runScoresSummary() error {
	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.AllGameStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %-6s  %-8s  %s\n", "Game", "Games", "Best", "Last played")
	fmt.Printf("  %-12s  %-6s  %-8s  %s\n", "----", "-----", "----", "-----------")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-12s  %-6d  %-8d  %s\n", id, st.GamesCount, st.HighScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

// sortedByWins orders the names of a win tally, most wins first.
func sortedByWins(tally map[string]int) []string {
	names := make([]string, 0, len(tally))
	for name := range tally {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if tally[names[i]] != tally[names[j]] {
			return tally[names[i]] > tally[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
