package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

// tryMove shifts a tank by delta unless its box would touch an obstacle.
// The step is all or nothing; a blocked diagonal does not slide.
func (s *Session) tryMove(id TankID, delta core.Vec) bool {
	t := &s.tanks[id]
	next := t.Pos.Add(delta)
	if s.blocked(next) {
		return false
	}
	t.Pos = next
	return true
}

func (s *Session) blocked(p core.Vec) bool {
	box := hitboxAt(p)
	for _, o := range s.obstacles {
		if box.Overlaps(o.Rect) {
			return true
		}
	}
	return false
}
