package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

// World dimensions and fixed entity geometry, in world units.
const (
	WorldW = 600.0
	WorldH = 400.0

	TankSize     = 20.0 // side of the movement hitbox
	TankRadius   = 10.0 // bullet hit circle
	MuzzleOffset = 14.0 // bullet spawn distance from the tank center

	BulletSpeedFactor = 2.5

	MinLevel = 1
	MaxLevel = 5
)

// TankID indexes the session's tank table. Bullets refer to their owner
// through it so a destroyed tank never leaves a dangling reference.
type TankID int

const (
	Tank1 TankID = iota
	Tank2
)

// Other returns the opposing tank.
func (id TankID) Other() TankID {
	if id == Tank1 {
		return Tank2
	}
	return Tank1
}

// Tank is a player or NPC controlled tank.
type Tank struct {
	Pos    core.Vec
	Level  int
	Alive  bool
	Label  string // "P1", "P2" or "NPC"
	Human  bool
	Active int // bullets currently in flight
}

func newTank(pos core.Vec, level int, label string, human bool) Tank {
	return Tank{
		Pos:   pos,
		Level: ClampLevel(level),
		Alive: true,
		Label: label,
		Human: human,
	}
}

// ClampLevel restricts a level to the supported range.
func ClampLevel(level int) int {
	return core.Clamp(level, MinLevel, MaxLevel)
}

// Speed returns the distance the tank covers per frame.
func (t *Tank) Speed() float64 {
	return SpeedForLevel(t.Level)
}

// MaxBullets returns how many bullets the tank may have in flight.
func (t *Tank) MaxBullets() int {
	return MaxBulletsForLevel(t.Level)
}

// SpeedForLevel is 1.0 at level 1 plus 0.2 per extra level.
func SpeedForLevel(level int) float64 {
	return 1.0 + 0.2*float64(level-1)
}

// MaxBulletsForLevel is 2 from level 4 on, otherwise 1.
func MaxBulletsForLevel(level int) int {
	if level >= 4 {
		return 2
	}
	return 1
}

// hitboxAt returns the movement box of a tank centered at p.
func hitboxAt(p core.Vec) core.Box {
	return core.Box{X: p.X - TankSize/2, Y: p.Y - TankSize/2, W: TankSize, H: TankSize}
}

// Bullet is a shell in flight.
type Bullet struct {
	Pos   core.Vec
	Vel   core.Vec
	Owner TankID
	Alive bool
}

// Obstacle is a static wall block.
type Obstacle struct {
	Rect core.Box
}

// Base is the headquarters a tank defends. Its hit points live in the
// session, not here.
type Base struct {
	Rect     core.Box
	Defender TankID
}
