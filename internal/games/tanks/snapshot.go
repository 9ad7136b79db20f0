package tanks

import (
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
)

// TankView is the drawable part of a tank.
type TankView struct {
	Pos   core.Vec
	Level int
	Alive bool
	Label string
}

// Snapshot is a self-contained copy of a battle, safe to hand to another
// goroutine. Online clients render from it.
type Snapshot struct {
	Frame     int
	Tanks     [2]TankView
	Bullets   []core.Vec
	Owners    []TankID
	Obstacles []core.Box
	Bases     [2]core.Box
	BaseHP    [2]int
	Ended     bool
	Reason    string
	Paused    bool
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = Snapshot{}

// Snapshot returns the current battle as a Snapshot.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	snap := g.session.Snapshot()
	snap.Paused = g.paused
	return snap
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:  s.frame,
		BaseHP: s.baseHP,
		Ended:  s.status == Ended,
		Reason: s.reason,
	}
	for i, t := range s.tanks {
		snap.Tanks[i] = TankView{Pos: t.Pos, Level: t.Level, Alive: t.Alive, Label: t.Label}
	}
	for _, b := range s.bullets {
		snap.Bullets = append(snap.Bullets, b.Pos)
		snap.Owners = append(snap.Owners, b.Owner)
	}
	for _, o := range s.obstacles {
		snap.Obstacles = append(snap.Obstacles, o.Rect)
	}
	for i, b := range s.bases {
		snap.Bases[i] = b.Rect
	}
	return snap
}
