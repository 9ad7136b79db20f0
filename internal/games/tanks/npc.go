package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

// stepNPC runs the computer tank: shoot at the player on a cooldown and
// wander toward a random point that changes on a timer.
func (s *Session) stepNPC() {
	t := &s.tanks[Tank2]
	if !t.Alive {
		return
	}
	n := s.npc

	n.fireCooldown--
	if n.fireCooldown <= 0 {
		toPlayer := s.tanks[Tank1].Pos.Sub(t.Pos)
		if toPlayer.Len() > 0 {
			s.Fire(Tank2, toPlayer.Normalize(), core.Vec{})
		}
		n.fireCooldown = s.rules.FireCooldown
	}

	n.wanderTimer--
	if n.wanderTimer <= 0 {
		m := s.rules.WanderMargin
		n.target = core.Vec{
			X: s.rng.Float64()*(WorldW-2*m) + m,
			Y: s.rng.Float64()*(WorldH-2*m) + m,
		}
		n.wanderTimer = s.rules.WanderInterval
	}

	toTarget := n.target.Sub(t.Pos)
	if toTarget.Len() > s.rules.ArriveDistance {
		s.tryMove(Tank2, toTarget.Normalize().Scale(t.Speed()))
	}
}

// NPCCooldown returns the frames left until the NPC fires again, or 0
// when the opponent is human.
func (s *Session) NPCCooldown() int {
	if s.npc == nil {
		return 0
	}
	return s.npc.fireCooldown
}

// NPCTarget returns the current wander target of the NPC.
func (s *Session) NPCTarget() (core.Vec, bool) {
	if s.npc == nil {
		return core.Vec{}, false
	}
	return s.npc.target, true
}
