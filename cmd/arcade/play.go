package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/games/pacboy"
	"github.com/vovakirdan/battle-arcade/internal/games/tanks"
	"github.com/vovakirdan/battle-arcade/internal/games/tictactoe"
	"github.com/vovakirdan/battle-arcade/internal/platform/tui"
	"github.com/vovakirdan/battle-arcade/internal/registry"
	"github.com/vovakirdan/battle-arcade/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPlayers    int
	flagP1Level    int
	flagP2Level    int
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Battle Tanks controls:
  1 player:   Arrows move, Space fires
  2 players:  P1 W/X/A/D move, S fires; P2 arrows move, Space fires

Pac-boy and Tic-Tac-Toe controls:
  Arrows/WASD  - Move
  Space/Enter  - Place a mark (Tic-Tac-Toe)

Common:
  P            - Pause
  R            - Restart (after game over)
  Esc/B        - Back (when paused or over)
  Q/Ctrl+C     - Quit

Without --players or --difficulty the setup screen of the game is shown.

Examples:
  arcade play tanks
  arcade play tanks --players 2 --p1-level 3 --p2-level 3
  arcade play pacboy_maze
  arcade play tictactoe --difficulty hard
  arcade play tanks --config ./my-tanks.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Tic-Tac-Toe difficulty: easy, medium, hard")
	playCmd.Flags().IntVar(&flagPlayers, "players", 0, "Battle Tanks players: 1 (vs NPC) or 2 (hot-seat)")
	playCmd.Flags().IntVar(&flagP1Level, "p1-level", 1, "Battle Tanks level of player 1 (1-5)")
	playCmd.Flags().IntVar(&flagP2Level, "p2-level", 1, "Battle Tanks level of player 2 or the NPC (1-5)")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

func runtimeConfig() core.RuntimeConfig {
	w, h := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: opts.FPS,
		Seed:     opts.Seed,
	}
}

func openStore() *storage.Store {
	store, err := storage.Open(opts.DBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "err", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("%w %q, run 'arcade list' to see available games", registry.ErrUnknownGame, gameID)
	}

	cfg := runtimeConfig()

	var (
		game registry.Game
		err  error
	)
	switch gameID {
	case "tanks":
		tanks.SetConfigPath(flagConfig)
		setup := tanks.Setup{Players: flagPlayers, P1Level: flagP1Level, P2Level: flagP2Level}
		if !cmd.Flags().Changed("players") {
			var ok bool
			if setup, ok, err = tui.RunTanksSetup(cfg.ScreenW, cfg.ScreenH); err != nil || !ok {
				return err
			}
		}
		if game, err = tanks.NewWithSetup(setup); err != nil {
			return err
		}
	case "tictactoe":
		tictactoe.SetConfigPath(flagConfig)
		var preset config.DifficultyPreset
		if flagDifficulty != "" {
			if preset, err = config.ParseDifficulty(flagDifficulty); err != nil {
				return err
			}
		} else if preset, err = tui.RunTicTacToeMenu(cfg.ScreenW, cfg.ScreenH); err != nil || preset == "" {
			return err
		}
		game = tictactoe.NewWithDifficulty(preset)
	default:
		if gameID == "pacboy" || gameID == "pacboy_maze" {
			pacboy.SetConfigPath(flagConfig)
		}
		if game, err = registry.Create(gameID); err != nil {
			return err
		}
	}

	store := openStore()
	_, runErr := tui.Run(game, store, cfg)
	if store != nil {
		store.Close()
	}
	if runErr != nil {
		return fmt.Errorf("run %s: %w", gameID, runErr)
	}
	return nil
}
