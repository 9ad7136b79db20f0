package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/battle-arcade/internal/storage"
)

var (
	flagMatchLimit  int
	flagMatchPlayer string
	flagMatchGame   string
)

var matchesCmd = &cobra.Command{
	Use:   "matches [match-id]",
	Short: "Show recent online battles and game results",
	Long: `List recent online battles from the SSH server and recent local game
results. With a match ID, show that battle only.

Examples:
  arcade matches
  arcade matches --limit 50
  arcade matches --player alice@3f2a
  arcade matches --game tictactoe
  arcade matches match-ABC234-1712345678`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagMatchLimit, "limit", 20, "Number of rows per table")
	matchesCmd.Flags().StringVar(&flagMatchPlayer, "player", "", "Only battles of this session")
	matchesCmd.Flags().StringVar(&flagMatchGame, "game", "", "Only results of this game")
}

func runMatches(_ *cobra.Command, args []string) error {
	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		m, err := store.OnlineMatchByID(args[0])
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("no match %q", args[0])
		}
		printMatch(*m)
		return nil
	}

	var online []storage.OnlineMatchResult
	if flagMatchPlayer != "" {
		online, err = store.PlayerMatchHistory(flagMatchPlayer, flagMatchLimit)
	} else {
		online, err = store.RecentOnlineMatches(flagMatchLimit)
	}
	if err != nil {
		return err
	}

	fmt.Println("Online battles")
	if len(online) == 0 {
		fmt.Println("  none yet, host one with 'arcade serve'")
	} else {
		fmt.Println(matchTable(online).View())
	}

	results, err := store.RecentResults(flagMatchGame, flagMatchLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent games")
	if len(results) == 0 {
		fmt.Println("  none yet")
	} else {
		fmt.Println(resultTable(results).View())
	}
	return nil
}

// staticTable renders rows as a non-interactive table.
func staticTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Selected = s.Cell
	t.SetStyles(s)
	return t
}

func winnerName(m storage.OnlineMatchResult) string {
	switch m.WinnerSession {
	case "":
		return "draw"
	case m.Player1Session:
		return "P1"
	case m.Player2Session:
		return "P2"
	}
	return m.WinnerSession
}

func matchTable(matches []storage.OnlineMatchResult) table.Model {
	rows := make([]table.Row, len(matches))
	for i, m := range matches {
		rows[i] = table.Row{
			m.CreatedAt.Format("Jan 02 15:04"),
			m.Player1Session,
			m.Player2Session,
			fmt.Sprintf("%d-%d", m.Score1, m.Score2),
			winnerName(m),
			strconv.Itoa(m.Round),
			m.EndReason,
		}
	}
	return staticTable([]table.Column{
		{Title: "Date", Width: 13},
		{Title: "P1", Width: 16},
		{Title: "P2", Width: 16},
		{Title: "Score", Width: 10},
		{Title: "Winner", Width: 6},
		{Title: "Round", Width: 5},
		{Title: "End", Width: 22},
	}, rows)
}

func resultTable(results []storage.ResultEntry) table.Model {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.GameID,
			r.Mode,
			r.Winner,
			strconv.Itoa(r.Score),
			r.Reason,
		}
	}
	return staticTable([]table.Column{
		{Title: "Date", Width: 13},
		{Title: "Game", Width: 12},
		{Title: "Mode", Width: 20},
		{Title: "Winner", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "Reason", Width: 28},
	}, rows)
}

func printMatch(m storage.OnlineMatchResult) {
	fmt.Printf("Match     %s (round %d, game %s)\n", m.MatchID, m.Round, m.GameID)
	fmt.Printf("Played    %s, %s\n", m.CreatedAt.Format("2006-01-02 15:04"), time.Duration(m.Duration)*time.Second)
	fmt.Printf("P1        %s  %d\n", m.Player1Session, m.Score1)
	fmt.Printf("P2        %s  %d\n", m.Player2Session, m.Score2)
	fmt.Printf("Winner    %s\n", winnerName(m))
	fmt.Printf("End       %s\n", m.EndReason)
	if m.Summary != "" {
		fmt.Printf("Summary   %s\n", m.Summary)
	}
}
