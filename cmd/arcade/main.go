// arcade is a terminal arcade: Battle Tanks, Pac-boy and Tic-Tac-Toe,
// played locally or over SSH.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote and online play
//	arcade scores <game>     - Show high scores for a game
//	arcade matches           - Show recent online battles and results
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/scores.db)
//	--log-level <level>   - debug, info, warn or error
//
// Every option can also be set in ~/.arcade/arcade.yaml or through
// ARCADE_* environment variables.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/battle-arcade/internal/games/pacboy"
	_ "github.com/vovakirdan/battle-arcade/internal/games/tanks"
	_ "github.com/vovakirdan/battle-arcade/internal/games/tictactoe"
	"github.com/vovakirdan/battle-arcade/internal/settings"
)

var (
	// Resolved in PersistentPreRunE before any command runs.
	opts   settings.Settings
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "arcade"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Battle Arcade - tanks, Pac-boy and Tic-Tac-Toe in your terminal",
	Long: `Battle Arcade is a terminal gaming platform with three games:

  tanks      - Battle Tanks: destroy the enemy base, alone against an NPC,
               hot-seat with a friend, or online over SSH
  pacboy     - Pac-boy: eat every pellet, dodge the ghosts
  tictactoe  - Tic-Tac-Toe against a computer with three difficulties

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote and online play
  scores   - View high scores
  matches  - View recent online battles and game results

Examples:
  arcade list
  arcade play tanks --players 2
  arcade menu
  arcade serve --addr :2222
  arcade scores pacboy`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().Int("fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64("seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().String("db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(matchesCmd)
}

// loadSettings merges arcade.yaml, the environment and the flags of cmd.
func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := settings.Load(settings.Dir()); err != nil {
		return err
	}
	if err := settings.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	opts = settings.Current()

	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", opts.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	logger.Debug("settings loaded", "db", opts.DBPath, "fps", opts.FPS)
	return nil
}
