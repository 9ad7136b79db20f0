package core

// RuntimeConfig is handed to a game on every Reset.
// Games size their rendering from it and seed their RNG with Seed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed, 0 lets the platform pick one
}

// DefaultConfig returns the configuration used when nothing else is known.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the status the platform reads after each step.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
	// Message describes how the round ended, e.g. "P1 destroyed, NPC wins".
	Message string
}

// StepResult is returned by every simulation step.
type StepResult struct {
	State GameState
}
