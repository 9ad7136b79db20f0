package tanks

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// ErrInvalidPlayerCount is returned for a player count other than 1 or 2.
var ErrInvalidPlayerCount = errors.New("tanks: player count must be 1 or 2")

// Setup is chosen before a session starts.
type Setup struct {
	Players int // 1 = versus NPC, 2 = two humans
	P1Level int
	P2Level int // level of player 2, or of the NPC in single-player
}

// DefaultSetup is a single player level 1 game against a level 1 NPC.
func DefaultSetup() Setup {
	return Setup{Players: 1, P1Level: 1, P2Level: 1}
}

// Validate rejects unsupported player counts.
func (s Setup) Validate() error {
	if s.Players != 1 && s.Players != 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, s.Players)
	}
	return nil
}

// Rules are the tunable constants of a battle.
type Rules struct {
	BaseHP         int
	FireCooldown   int     // NPC frames between shots
	WanderInterval int     // NPC frames between new wander targets
	WanderMargin   float64 // NPC targets stay this far from the edges
	ArriveDistance float64 // NPC stops this close to its target
	Obstacles      []core.Box
}

// DefaultRules returns the classic battlefield: one block in the middle.
func DefaultRules() Rules {
	return Rules{
		BaseHP:         3,
		FireCooldown:   120,
		WanderInterval: 180,
		WanderMargin:   50,
		ArriveDistance: 5,
		Obstacles:      []core.Box{{X: 250, Y: 150, W: 100, H: 100}},
	}
}
