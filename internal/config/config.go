// Package config loads per-game YAML configuration with embedded defaults.
package config

// TanksConfig contains all configuration for Battle Tanks.
type TanksConfig struct {
	Match    TanksMatch    `yaml:"match"`
	Rules    TanksRules    `yaml:"rules"`
	Controls TanksControls `yaml:"controls"`
}

// TanksMatch is the setup used when none is picked in the menu.
type TanksMatch struct {
	Players int `yaml:"players"`
	P1Level int `yaml:"p1_level"`
	P2Level int `yaml:"p2_level"`
}

// TanksRules holds the battle constants.
type TanksRules struct {
	BaseHP            int          `yaml:"base_hp"`
	NPCFireCooldown   int          `yaml:"npc_fire_cooldown"`
	NPCWanderInterval int          `yaml:"npc_wander_interval"`
	NPCWanderMargin   float64      `yaml:"npc_wander_margin"`
	NPCArriveDistance float64      `yaml:"npc_arrive_distance"`
	Obstacles         []RectConfig `yaml:"obstacles"`
}

// TanksControls tunes how terminal key presses become held keys.
type TanksControls struct {
	// HoldTicks is how long a key counts as held after its last press.
	// Terminals report presses and repeats, never releases.
	HoldTicks int `yaml:"hold_ticks"`
}

// RectConfig is a rectangle in world units.
type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// PacboyConfig contains all configuration for Pac-boy.
type PacboyConfig struct {
	GhostSpeed  float64    `yaml:"ghost_speed"`
	TurnChance  float64    `yaml:"turn_chance"`
	PelletScore int        `yaml:"pellet_score"`
	Maze        PacboyMaze `yaml:"maze"`
}

// PacboyMaze configures the generated-maze variant.
type PacboyMaze struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Braiding float64 `yaml:"braiding"`
	Ghosts   int     `yaml:"ghosts"`
}

// TicTacToeConfig contains all configuration for Tic-Tac-Toe.
type TicTacToeConfig struct {
	Difficulty      DifficultyPreset `yaml:"difficulty"`
	ThinkMinSeconds int              `yaml:"think_min_seconds"`
	ThinkMaxSeconds int              `yaml:"think_max_seconds"`
	MistakeOffsets  MistakeOffsets   `yaml:"mistake_offsets"`
}

// MistakeOffsets shifts the computer's mistake roll per difficulty.
type MistakeOffsets struct {
	Easy   int `yaml:"easy"`
	Medium int `yaml:"medium"`
	Hard   int `yaml:"hard"`
}
