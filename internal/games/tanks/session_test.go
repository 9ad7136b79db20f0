package tanks

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

const eps = 1e-9

func newTestSession(t *testing.T, setup Setup) *Session {
	t.Helper()
	s, err := NewSession(setup, DefaultRules(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewSession(%+v) error = %v", setup, err)
	}
	return s
}

func twoPlayers(p1, p2 int) Setup {
	return Setup{Players: 2, P1Level: p1, P2Level: p2}
}

func near(a, b core.Vec) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestLevelStats(t *testing.T) {
	tests := []struct {
		level      int
		speed      float64
		maxBullets int
	}{
		{1, 1.0, 1},
		{2, 1.2, 1},
		{3, 1.4, 1},
		{4, 1.6, 2},
		{5, 1.8, 2},
	}

	for _, tc := range tests {
		tank := newTank(core.Vec{}, tc.level, "P1", true)
		if math.Abs(tank.Speed()-tc.speed) > eps {
			t.Errorf("level %d: Speed() = %v, expected %v", tc.level, tank.Speed(), tc.speed)
		}
		if tank.MaxBullets() != tc.maxBullets {
			t.Errorf("level %d: MaxBullets() = %d, expected %d", tc.level, tank.MaxBullets(), tc.maxBullets)
		}
	}
}

func TestNewSessionRejectsPlayerCount(t *testing.T) {
	for _, players := range []int{0, -1, 3} {
		_, err := NewSession(Setup{Players: players, P1Level: 1, P2Level: 1}, DefaultRules(), rand.New(rand.NewSource(1)))
		if !errors.Is(err, ErrInvalidPlayerCount) {
			t.Errorf("NewSession(players=%d) error = %v, expected ErrInvalidPlayerCount", players, err)
		}
	}
}

func TestNewSessionClampsLevels(t *testing.T) {
	s := newTestSession(t, Setup{Players: 1, P1Level: 0, P2Level: 9})

	if got := s.Tank(Tank1).Level; got != 1 {
		t.Errorf("P1 level = %d, expected 1", got)
	}
	if got := s.Tank(Tank2).Level; got != 5 {
		t.Errorf("NPC level = %d, expected 5", got)
	}
	if got := s.Setup(); got.P1Level != 1 || got.P2Level != 5 {
		t.Errorf("Setup() = %+v, expected clamped levels", got)
	}
}

func TestInitialLayout(t *testing.T) {
	s := newTestSession(t, DefaultSetup())

	if !near(s.Tank(Tank1).Pos, core.Vec{X: 60, Y: 200}) {
		t.Errorf("tank 1 at %v, expected (60,200)", s.Tank(Tank1).Pos)
	}
	if !near(s.Tank(Tank2).Pos, core.Vec{X: 540, Y: 200}) {
		t.Errorf("tank 2 at %v, expected (540,200)", s.Tank(Tank2).Pos)
	}
	if s.Tank(Tank2).Label != "NPC" || s.Tank(Tank2).Human {
		t.Errorf("single player opponent = %+v, expected NPC", s.Tank(Tank2))
	}
	if got := s.Base(Tank1).Rect; got != (core.Box{X: 20, Y: 170, W: 30, H: 60}) {
		t.Errorf("P1 base = %+v", got)
	}
	if got := s.Base(Tank2).Rect; got != (core.Box{X: 550, Y: 170, W: 30, H: 60}) {
		t.Errorf("P2 base = %+v", got)
	}
	if s.BaseHP(Tank1) != 3 || s.BaseHP(Tank2) != 3 {
		t.Errorf("base HP = %d/%d, expected 3/3", s.BaseHP(Tank1), s.BaseHP(Tank2))
	}
	if s.Status() != Active {
		t.Errorf("Status() = %v, expected Active", s.Status())
	}
	if target, ok := s.NPCTarget(); !ok || !near(target, s.Tank(Tank2).Pos) {
		t.Errorf("NPCTarget() = %v, %v, expected the NPC spawn", target, ok)
	}
}

func TestFireWithoutHeldKeysGoesUp(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))

	if !s.Fire(Tank1, core.Vec{}, core.Vec{}) {
		t.Fatal("Fire() = false, expected true")
	}
	bullets := s.Bullets()
	if len(bullets) != 1 {
		t.Fatalf("len(Bullets()) = %d, expected 1", len(bullets))
	}
	b := bullets[0]
	if !near(b.Vel, core.Vec{X: 0, Y: -2.5}) {
		t.Errorf("bullet velocity = %v, expected (0,-2.5)", b.Vel)
	}
	if !near(b.Pos, core.Vec{X: 60, Y: 186}) {
		t.Errorf("bullet spawn = %v, expected 14 units above the tank", b.Pos)
	}
	if b.Owner != Tank1 {
		t.Errorf("bullet owner = %v, expected Tank1", b.Owner)
	}
}

func TestFireFollowsHeldKeys(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))

	s.Tick(Sample(core.KeyState{"s": true, "d": true}, 2))

	bullets := s.Bullets()
	if len(bullets) != 1 {
		t.Fatalf("len(Bullets()) = %d, expected 1", len(bullets))
	}
	if !near(bullets[0].Vel, core.Vec{X: 2.5, Y: 0}) {
		t.Errorf("bullet velocity = %v, expected (2.5,0)", bullets[0].Vel)
	}
}

func TestFireRespectsCap(t *testing.T) {
	tests := []struct {
		level int
		cap   int
	}{
		{1, 1},
		{3, 1},
		{4, 2},
		{5, 2},
	}

	for _, tc := range tests {
		s := newTestSession(t, twoPlayers(tc.level, 1))
		for i := 0; i < tc.cap; i++ {
			if !s.Fire(Tank1, core.Vec{}, core.Vec{}) {
				t.Fatalf("level %d: shot %d rejected", tc.level, i+1)
			}
		}
		if s.Fire(Tank1, core.Vec{}, core.Vec{}) {
			t.Errorf("level %d: shot over the cap accepted", tc.level)
		}
		if got := s.Tank(Tank1).Active; got != tc.cap {
			t.Errorf("level %d: Active = %d, expected %d", tc.level, got, tc.cap)
		}
		if got := len(s.Bullets()); got != tc.cap {
			t.Errorf("level %d: len(Bullets()) = %d, expected %d", tc.level, got, tc.cap)
		}
	}
}

func TestDeadTankCannotFire(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.tanks[Tank1].Alive = false

	if s.Fire(Tank1, core.Vec{}, core.Vec{}) {
		t.Error("Fire() from a dead tank should be rejected")
	}
}

func TestMoveIntoObstacleIsRejected(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.tanks[Tank1].Pos = core.Vec{X: 260, Y: 130}

	if s.tryMove(Tank1, core.Vec{X: 0, Y: 30}) {
		t.Error("move to (260,160) should be blocked")
	}
	if !near(s.Tank(Tank1).Pos, core.Vec{X: 260, Y: 130}) {
		t.Errorf("position = %v, expected unchanged", s.Tank(Tank1).Pos)
	}
}

func TestMovementTouchingObstacleIsBlocked(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.tanks[Tank1].Pos = core.Vec{X: 260, Y: 139.5}

	s.Tick(Sample(core.KeyState{"x": true}, 2))

	if !near(s.Tank(Tank1).Pos, core.Vec{X: 260, Y: 139.5}) {
		t.Errorf("position = %v, expected blocked at (260,139.5)", s.Tank(Tank1).Pos)
	}
}

func TestBlockedDiagonalDoesNotSlide(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	start := core.Vec{X: 239.5, Y: 200}
	s.tanks[Tank1].Pos = start

	s.Tick(Sample(core.KeyState{"d": true, "x": true}, 2))

	if !near(s.Tank(Tank1).Pos, start) {
		t.Errorf("position = %v, expected %v", s.Tank(Tank1).Pos, start)
	}
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))

	s.Tick(Sample(core.KeyState{"w": true, "a": true}, 2))

	d := 1 / math.Sqrt2
	want := core.Vec{X: 60 - d, Y: 200 - d}
	if !near(s.Tank(Tank1).Pos, want) {
		t.Errorf("position = %v, expected %v", s.Tank(Tank1).Pos, want)
	}
}

func TestBulletLeavingWorldIsRetiredOnce(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.tanks[Tank1].Pos = core.Vec{X: 60, Y: 15}
	s.Fire(Tank1, core.Vec{}, core.Vec{})

	s.Tick([2]Intent{})

	if got := len(s.Bullets()); got != 0 {
		t.Errorf("len(Bullets()) = %d, expected 0", got)
	}
	if got := s.Tank(Tank1).Active; got != 0 {
		t.Errorf("Active = %d, expected 0", got)
	}

	s.Tick([2]Intent{})
	if got := s.Tank(Tank1).Active; got != 0 {
		t.Errorf("Active after another tick = %d, expected 0", got)
	}
}

func TestOwnBulletNeverHitsOwner(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.bullets = append(s.bullets, Bullet{Pos: s.tanks[Tank1].Pos, Owner: Tank1, Alive: true})
	s.tanks[Tank1].Active = 1

	s.Tick([2]Intent{})

	if !s.Tank(Tank1).Alive {
		t.Error("tank destroyed by its own bullet")
	}
	if got := len(s.Bullets()); got != 1 {
		t.Errorf("len(Bullets()) = %d, expected the bullet to survive", got)
	}
}

func TestBulletDestroysOpponent(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.bullets = append(s.bullets, Bullet{Pos: s.tanks[Tank2].Pos.Add(core.Vec{X: -10}), Owner: Tank1, Alive: true})
	s.tanks[Tank1].Active = 1

	s.Tick([2]Intent{})

	if s.Tank(Tank2).Alive {
		t.Fatal("tank 2 should be destroyed")
	}
	if s.Tank(Tank1).Active != 0 || len(s.Bullets()) != 0 {
		t.Errorf("Active = %d, bullets = %d, expected both 0", s.Tank(Tank1).Active, len(s.Bullets()))
	}
	if s.Status() != Active {
		t.Error("end is detected at the start of the next frame")
	}

	s.Tick([2]Intent{})

	if s.Status() != Ended {
		t.Fatalf("Status() = %v, expected Ended", s.Status())
	}
	if got := s.Reason(); got != "P2 destroyed, P1 wins" {
		t.Errorf("Reason() = %q", got)
	}
	if id, ok := s.Winner(); !ok || id != Tank1 {
		t.Errorf("Winner() = %v, %v, expected Tank1", id, ok)
	}
}

func TestBaseDamageOnlyFromOpponent(t *testing.T) {
	inBase := core.Vec{X: 565, Y: 200}

	t.Run("opponent bullet", func(t *testing.T) {
		s := newTestSession(t, twoPlayers(1, 1))
		s.bullets = append(s.bullets, Bullet{Pos: inBase, Owner: Tank1, Alive: true})
		s.tanks[Tank1].Active = 1

		s.Tick([2]Intent{})

		if got := s.BaseHP(Tank2); got != 2 {
			t.Errorf("BaseHP(Tank2) = %d, expected 2", got)
		}
		if s.Tank(Tank1).Active != 0 || len(s.Bullets()) != 0 {
			t.Error("bullet should be retired")
		}
	})

	t.Run("defender bullet", func(t *testing.T) {
		s := newTestSession(t, twoPlayers(1, 1))
		s.bullets = append(s.bullets, Bullet{Pos: inBase, Owner: Tank2, Alive: true})
		s.tanks[Tank2].Active = 1

		s.Tick([2]Intent{})

		if got := s.BaseHP(Tank2); got != 3 {
			t.Errorf("BaseHP(Tank2) = %d, expected 3", got)
		}
		if s.Tank(Tank2).Active != 0 || len(s.Bullets()) != 0 {
			t.Error("bullet should vanish without damage")
		}
	})
}

func TestBaseHitTakesPriorityOverTank(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	// On the base edge and exactly on tank 2's hit circle.
	s.bullets = append(s.bullets, Bullet{Pos: core.Vec{X: 550, Y: 200}, Owner: Tank1, Alive: true})
	s.tanks[Tank1].Active = 1

	s.Tick([2]Intent{})

	if !s.Tank(Tank2).Alive {
		t.Error("tank 2 should survive, the base was hit first")
	}
	if got := s.BaseHP(Tank2); got != 2 {
		t.Errorf("BaseHP(Tank2) = %d, expected 2", got)
	}
}

func TestObstacleStopsBullet(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.bullets = append(s.bullets, Bullet{Pos: core.Vec{X: 300, Y: 200}, Owner: Tank2, Alive: true})
	s.tanks[Tank2].Active = 1

	s.Tick([2]Intent{})

	if len(s.Bullets()) != 0 || s.Tank(Tank2).Active != 0 {
		t.Error("bullet inside an obstacle should be retired")
	}
}

func TestBothDestroyedIsTerminalDraw(t *testing.T) {
	s := newTestSession(t, twoPlayers(1, 1))
	s.tanks[Tank1].Alive = false
	s.tanks[Tank2].Alive = false

	s.Tick([2]Intent{})

	if s.Status() != Ended {
		t.Fatalf("Status() = %v, expected Ended", s.Status())
	}
	if got := s.Reason(); got != "draw, both destroyed" {
		t.Errorf("Reason() = %q", got)
	}
	if _, ok := s.Winner(); ok {
		t.Error("Winner() should report no winner for a draw")
	}

	before := s.Snapshot()
	for i := 0; i < 10; i++ {
		s.Tick([2]Intent{{Move: core.Vec{X: 1}, Fire: true}, {Fire: true}})
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("an ended session must not change")
	}
}

func TestEndReasons(t *testing.T) {
	tests := []struct {
		name    string
		setup   Setup
		prepare func(s *Session)
		reason  string
		winner  TankID
	}{
		{
			name:    "player destroyed by NPC",
			setup:   DefaultSetup(),
			prepare: func(s *Session) { s.tanks[Tank1].Alive = false },
			reason:  "P1 destroyed, NPC wins",
			winner:  Tank2,
		},
		{
			name:    "NPC destroyed",
			setup:   DefaultSetup(),
			prepare: func(s *Session) { s.tanks[Tank2].Alive = false },
			reason:  "NPC destroyed, P1 wins",
			winner:  Tank1,
		},
		{
			name:    "P1 base destroyed",
			setup:   DefaultSetup(),
			prepare: func(s *Session) { s.baseHP[Tank1] = 0 },
			reason:  "P1 base destroyed, NPC wins",
			winner:  Tank2,
		},
		{
			name:    "P2 base destroyed",
			setup:   twoPlayers(1, 1),
			prepare: func(s *Session) { s.baseHP[Tank2] = 0 },
			reason:  "P2 base destroyed, P1 wins",
			winner:  Tank1,
		},
		{
			name:  "tank loss checked before base loss",
			setup: twoPlayers(1, 1),
			prepare: func(s *Session) {
				s.tanks[Tank2].Alive = false
				s.baseHP[Tank1] = 0
			},
			reason: "P2 destroyed, P1 wins",
			winner: Tank1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, tc.setup)
			tc.prepare(s)
			s.Tick([2]Intent{})

			if got := s.Reason(); got != tc.reason {
				t.Errorf("Reason() = %q, expected %q", got, tc.reason)
			}
			if id, ok := s.Winner(); !ok || id != tc.winner {
				t.Errorf("Winner() = %v, %v, expected %v", id, ok, tc.winner)
			}
			if s.Frame() != 0 {
				t.Errorf("Frame() = %d, expected no simulated frame", s.Frame())
			}
		})
	}
}

func TestNPCFiresOnFirstFrame(t *testing.T) {
	s := newTestSession(t, DefaultSetup())

	s.Tick([2]Intent{})

	if got := s.NPCCooldown(); got != 120 {
		t.Errorf("NPCCooldown() = %d, expected 120", got)
	}
	bullets := s.Bullets()
	if len(bullets) != 1 || bullets[0].Owner != Tank2 {
		t.Fatalf("Bullets() = %+v, expected one NPC bullet", bullets)
	}
	if !near(bullets[0].Vel, core.Vec{X: -2.5, Y: 0}) {
		t.Errorf("NPC bullet velocity = %v, expected (-2.5,0) toward the player", bullets[0].Vel)
	}

	s.Tick([2]Intent{})
	if got := s.NPCCooldown(); got != 119 {
		t.Errorf("NPCCooldown() after two frames = %d, expected 119", got)
	}
}

func TestNPCCooldownResetsAtCap(t *testing.T) {
	s := newTestSession(t, DefaultSetup())
	s.tanks[Tank2].Active = s.tanks[Tank2].MaxBullets()

	s.Tick([2]Intent{})

	if got := s.NPCCooldown(); got != 120 {
		t.Errorf("NPCCooldown() = %d, expected 120", got)
	}
	if got := len(s.Bullets()); got != 0 {
		t.Errorf("len(Bullets()) = %d, expected no shot over the cap", got)
	}
}

func TestNPCHoldsPositionAtTarget(t *testing.T) {
	s := newTestSession(t, DefaultSetup())
	s.npc.fireCooldown = 100
	s.npc.wanderTimer = 100
	s.npc.target = s.tanks[Tank2].Pos.Add(core.Vec{X: 3})
	start := s.Tank(Tank2).Pos

	s.Tick([2]Intent{})

	if !near(s.Tank(Tank2).Pos, start) {
		t.Errorf("NPC moved to %v, expected to stay within the arrive distance", s.Tank(Tank2).Pos)
	}
}

func TestNPCMovesTowardTarget(t *testing.T) {
	s := newTestSession(t, Setup{Players: 1, P1Level: 1, P2Level: 3})
	s.npc.fireCooldown = 100
	s.npc.wanderTimer = 100
	s.npc.target = core.Vec{X: 540, Y: 300}

	s.Tick([2]Intent{})

	want := core.Vec{X: 540, Y: 201.4}
	if !near(s.Tank(Tank2).Pos, want) {
		t.Errorf("NPC at %v, expected %v", s.Tank(Tank2).Pos, want)
	}
}

func TestNPCWanderTargetsStayInMargin(t *testing.T) {
	s := newTestSession(t, Setup{Players: 1, P1Level: 5, P2Level: 5})

	for i := 0; i < 2000 && s.Status() == Active; i++ {
		s.Tick([2]Intent{})
		target, _ := s.NPCTarget()
		if i == 0 {
			continue
		}
		if target.X < 50 || target.X > 550 || target.Y < 50 || target.Y > 350 {
			t.Fatalf("frame %d: wander target %v outside the margin", i, target)
		}
	}
}

func TestBulletCountsMatchFlight(t *testing.T) {
	s := newTestSession(t, twoPlayers(4, 5))
	input := rand.New(rand.NewSource(99))
	axis := func() float64 { return float64(input.Intn(3) - 1) }

	for i := 0; i < 3000 && s.Status() == Active; i++ {
		s.Tick([2]Intent{
			{Move: core.Vec{X: axis(), Y: axis()}, Fire: input.Intn(4) == 0},
			{Move: core.Vec{X: axis(), Y: axis()}, Fire: input.Intn(4) == 0},
		})

		var inFlight [2]int
		for _, b := range s.Bullets() {
			if !b.Alive {
				t.Fatalf("frame %d: dead bullet kept", i)
			}
			inFlight[b.Owner]++
		}
		for id := Tank1; id <= Tank2; id++ {
			tank := s.Tank(id)
			if tank.Active != inFlight[id] {
				t.Fatalf("frame %d: tank %d Active = %d, bullets in flight = %d", i, id, tank.Active, inFlight[id])
			}
			if tank.Active > tank.MaxBullets() {
				t.Fatalf("frame %d: tank %d Active = %d over cap %d", i, id, tank.Active, tank.MaxBullets())
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		s, err := NewSession(Setup{Players: 1, P1Level: 2, P2Level: 4}, DefaultRules(), rand.New(rand.NewSource(12345)))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 600; i++ {
			var in [2]Intent
			if i%90 < 45 {
				in[Tank1].Move = core.Vec{Y: -1}
			} else {
				in[Tank1].Move = core.Vec{X: 1, Y: 1}
			}
			in[Tank1].Fire = i%30 == 0
			s.Tick(in)
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and input produced different battles:\n%+v\n%+v", a, b)
	}
}
