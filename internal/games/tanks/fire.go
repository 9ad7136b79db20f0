package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

var up = core.Vec{X: 0, Y: -1}

// Fire spawns a bullet from tank id. A non-zero aim is used as is (already
// unit length); otherwise the direction comes from the held movement axes,
// defaulting to up. Returns false when the tank is dead or at its cap.
func (s *Session) Fire(id TankID, aim, held core.Vec) bool {
	t := &s.tanks[id]
	if !t.Alive || t.Active >= t.MaxBullets() {
		return false
	}

	dir := aim
	if dir.IsZero() {
		dir = held.Normalize()
		if dir.IsZero() {
			dir = up
		}
	}

	s.bullets = append(s.bullets, Bullet{
		Pos:   t.Pos.Add(dir.Scale(MuzzleOffset)),
		Vel:   dir.Scale(t.Speed() * BulletSpeedFactor),
		Owner: id,
		Alive: true,
	})
	t.Active++
	return true
}
