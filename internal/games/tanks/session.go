// Package tanks implements a top-down tank battle: two tanks, two bases,
// static obstacles and bullets, advanced one frame at a time.
package tanks

import (
	"math/rand"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// Status is the state machine of a session.
type Status int

const (
	Active Status = iota
	Ended
)

func (s Status) String() string {
	if s == Ended {
		return "Ended"
	}
	return "Active"
}

// Intent is what a tank wants to do this frame.
type Intent struct {
	Move core.Vec // -1, 0 or 1 per axis
	Fire bool
}

type npcState struct {
	fireCooldown int
	wanderTimer  int
	target       core.Vec
}

// Session holds every entity of one battle. It is mutated only by Tick.
type Session struct {
	setup     Setup
	rules     Rules
	rng       *rand.Rand
	tanks     [2]Tank
	bullets   []Bullet
	obstacles []Obstacle
	bases     [2]Base
	baseHP    [2]int
	npc       *npcState
	status    Status
	reason    string
	winner    TankID
	frame     int
}

// NewSession lays out the battlefield for the given setup.
// Levels are clamped to [1,5]; a player count other than 1 or 2 is an error.
func NewSession(setup Setup, rules Rules, rng *rand.Rand) (*Session, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	setup.P1Level = ClampLevel(setup.P1Level)
	setup.P2Level = ClampLevel(setup.P2Level)

	s := &Session{
		setup:  setup,
		rules:  rules,
		rng:    rng,
		baseHP: [2]int{rules.BaseHP, rules.BaseHP},
		winner: -1,
	}
	for _, r := range rules.Obstacles {
		s.obstacles = append(s.obstacles, Obstacle{Rect: r})
	}
	s.bases[Tank1] = Base{Rect: core.Box{X: 20, Y: WorldH/2 - 30, W: 30, H: 60}, Defender: Tank1}
	s.bases[Tank2] = Base{Rect: core.Box{X: WorldW - 50, Y: WorldH/2 - 30, W: 30, H: 60}, Defender: Tank2}

	s.tanks[Tank1] = newTank(core.Vec{X: 60, Y: WorldH / 2}, setup.P1Level, "P1", true)
	if setup.Players == 2 {
		s.tanks[Tank2] = newTank(core.Vec{X: WorldW - 60, Y: WorldH / 2}, setup.P2Level, "P2", true)
	} else {
		s.tanks[Tank2] = newTank(core.Vec{X: WorldW - 60, Y: WorldH / 2}, setup.P2Level, "NPC", false)
		s.npc = &npcState{target: s.tanks[Tank2].Pos}
	}
	return s, nil
}

// Tick advances the battle by one frame. Terminal conditions are checked
// first; once Ended, Tick does nothing.
func (s *Session) Tick(in [2]Intent) {
	if s.status == Ended || s.checkEnd() {
		return
	}
	s.frame++

	s.control(Tank1, in[Tank1])
	if s.npc != nil {
		s.stepNPC()
	} else {
		s.control(Tank2, in[Tank2])
	}

	for i := range s.bullets {
		b := &s.bullets[i]
		if !b.Alive {
			continue
		}
		s.advanceBullet(b)
		if b.Alive {
			s.resolveCollision(b)
		}
	}

	live := s.bullets[:0]
	for _, b := range s.bullets {
		if b.Alive {
			live = append(live, b)
		}
	}
	s.bullets = live
}

// control applies a human intent: move, then fire in the held direction.
func (s *Session) control(id TankID, in Intent) {
	t := &s.tanks[id]
	if !t.Alive {
		return
	}
	if !in.Move.IsZero() {
		s.tryMove(id, in.Move.Normalize().Scale(t.Speed()))
	}
	if in.Fire {
		s.Fire(id, core.Vec{}, in.Move)
	}
}

// checkEnd moves the session to Ended when a tank or base is gone.
func (s *Session) checkEnd() bool {
	p1, p2 := &s.tanks[Tank1], &s.tanks[Tank2]
	switch {
	case !p1.Alive && !p2.Alive:
		s.end(-1, "draw, both destroyed")
	case !p1.Alive:
		s.end(Tank2, p1.Label+" destroyed, "+p2.Label+" wins")
	case !p2.Alive:
		s.end(Tank1, p2.Label+" destroyed, "+p1.Label+" wins")
	case s.baseHP[Tank1] <= 0:
		s.end(Tank2, p1.Label+" base destroyed, "+p2.Label+" wins")
	case s.baseHP[Tank2] <= 0:
		s.end(Tank1, p2.Label+" base destroyed, "+p1.Label+" wins")
	default:
		return false
	}
	return true
}

func (s *Session) end(winner TankID, reason string) {
	s.status = Ended
	s.winner = winner
	s.reason = reason
}

// Status returns Active or Ended.
func (s *Session) Status() Status { return s.status }

// Reason describes how the session ended, empty while Active.
func (s *Session) Reason() string { return s.reason }

// Winner returns the winning tank and true, or false for a draw or a
// running session.
func (s *Session) Winner() (TankID, bool) {
	if s.status != Ended || s.winner < 0 {
		return 0, false
	}
	return s.winner, true
}

// Frame returns the number of simulated frames.
func (s *Session) Frame() int { return s.frame }

// Setup returns the setup the session was built with, levels clamped.
func (s *Session) Setup() Setup { return s.setup }

// Tank returns a copy of one tank.
func (s *Session) Tank(id TankID) Tank { return s.tanks[id] }

// Bullets returns a copy of the bullets in flight.
func (s *Session) Bullets() []Bullet {
	out := make([]Bullet, len(s.bullets))
	copy(out, s.bullets)
	return out
}

// Obstacles returns the static obstacles.
func (s *Session) Obstacles() []Obstacle { return s.obstacles }

// Base returns the base defended by id.
func (s *Session) Base(id TankID) Base { return s.bases[id] }

// BaseHP returns the remaining hit points of the base defended by id.
func (s *Session) BaseHP(id TankID) int { return s.baseHP[id] }
