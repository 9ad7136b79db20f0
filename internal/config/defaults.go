package config

import (
	_ "embed"
)

//go:embed defaults/tanks.yaml
var defaultTanksYAML []byte

//go:embed defaults/pacboy.yaml
var defaultPacboyYAML []byte

//go:embed defaults/tictactoe.yaml
var defaultTicTacToeYAML []byte

// DefaultTanksConfig returns the built-in Battle Tanks configuration.
func DefaultTanksConfig() TanksConfig {
	return TanksConfig{
		Match: TanksMatch{Players: 1, P1Level: 1, P2Level: 1},
		Rules: TanksRules{
			BaseHP:            3,
			NPCFireCooldown:   120,
			NPCWanderInterval: 180,
			NPCWanderMargin:   50,
			NPCArriveDistance: 5,
			Obstacles:         []RectConfig{{X: 250, Y: 150, W: 100, H: 100}},
		},
		Controls: TanksControls{HoldTicks: 8},
	}
}

// DefaultPacboyConfig returns the built-in Pac-boy configuration.
func DefaultPacboyConfig() PacboyConfig {
	return PacboyConfig{
		GhostSpeed:  0.4,
		TurnChance:  0.02,
		PelletScore: 10,
		Maze: PacboyMaze{
			Width:    21,
			Height:   15,
			Braiding: 0.6,
			Ghosts:   4,
		},
	}
}

// DefaultTicTacToeConfig returns the built-in Tic-Tac-Toe configuration.
func DefaultTicTacToeConfig() TicTacToeConfig {
	return TicTacToeConfig{
		Difficulty:      DifficultyEasy,
		ThinkMinSeconds: 1,
		ThinkMaxSeconds: 3,
		MistakeOffsets:  MistakeOffsets{Easy: 0, Medium: -20, Hard: -35},
	}
}
