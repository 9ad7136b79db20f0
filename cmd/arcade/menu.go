package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/games/tanks"
	"github.com/vovakirdan/battle-arcade/internal/games/tictactoe"
	"github.com/vovakirdan/battle-arcade/internal/platform/tui"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  arcade menu
  arcade menu --fps 30
  arcade menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := pickGame(result.GameID, cfg)
		if err != nil {
			return err
		}
		if game == nil {
			continue
		}

		if opts.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		back, err := tui.Run(game, store, cfg)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}

// pickGame runs the setup menu of a game and creates it with the choice.
// A nil game means the player backed out.
func pickGame(gameID string, cfg core.RuntimeConfig) (registry.Game, error) {
	switch gameID {
	case "tanks":
		setup, ok, err := tui.RunTanksSetup(cfg.ScreenW, cfg.ScreenH)
		if err != nil || !ok {
			return nil, err
		}
		return tanks.NewWithSetup(setup)
	case "pacboy":
		variant, err := tui.RunPacboyMenu(cfg.ScreenW, cfg.ScreenH)
		if err != nil || variant == "" {
			return nil, err
		}
		gameID = variant
	case "tictactoe":
		preset, err := tui.RunTicTacToeMenu(cfg.ScreenW, cfg.ScreenH)
		if err != nil || preset == "" {
			return nil, err
		}
		return tictactoe.NewWithDifficulty(preset), nil
	}

	game, err := registry.Create(gameID)
	if err != nil {
		logger.Error("create game", "game", gameID, "err", err)
		return nil, nil
	}
	return game, nil
}
