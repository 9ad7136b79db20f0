package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

// advanceBullet moves a bullet one frame and retires it once it leaves
// the world.
func (s *Session) advanceBullet(b *Bullet) {
	b.Pos = b.Pos.Add(b.Vel)
	if b.Pos.X < 0 || b.Pos.X > WorldW || b.Pos.Y < 0 || b.Pos.Y > WorldH {
		s.retire(b)
	}
}

// resolveCollision applies the first matching hit in the order
// obstacle, P1 base, P2 base, tank 1, tank 2.
func (s *Session) resolveCollision(b *Bullet) {
	for _, o := range s.obstacles {
		if o.Rect.ContainsPoint(b.Pos) {
			s.retire(b)
			return
		}
	}

	for i := range s.bases {
		base := &s.bases[i]
		if !base.Rect.ContainsPoint(b.Pos) {
			continue
		}
		s.retire(b)
		if b.Owner != base.Defender {
			s.baseHP[base.Defender]--
		}
		return
	}

	for i := range s.tanks {
		id := TankID(i)
		t := &s.tanks[id]
		if !t.Alive || id == b.Owner {
			continue
		}
		if core.InCircle(b.Pos, t.Pos, TankRadius) {
			t.Alive = false
			s.retire(b)
			return
		}
	}
}

// retire kills a bullet and gives its slot back to the owner exactly once.
func (s *Session) retire(b *Bullet) {
	if !b.Alive {
		return
	}
	b.Alive = false
	if owner := &s.tanks[b.Owner]; owner.Active > 0 {
		owner.Active--
	}
}
