package tanks

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{Seed: 42, ScreenW: 80, ScreenH: 24, TickRate: 60}
}

func TestSampleBindings(t *testing.T) {
	tests := []struct {
		name    string
		keys    core.KeyState
		players int
		want    [2]Intent
	}{
		{
			name:    "single player uses arrows",
			keys:    core.KeyState{"up": true, "left": true, "space": true},
			players: 1,
			want:    [2]Intent{{Move: core.Vec{X: -1, Y: -1}, Fire: true}},
		},
		{
			name:    "single player ignores letter keys",
			keys:    core.KeyState{"w": true, "s": true},
			players: 1,
			want:    [2]Intent{},
		},
		{
			name:    "two players split the keyboard",
			keys:    core.KeyState{"w": true, "d": true, "s": true, "down": true, "space": true},
			players: 2,
			want: [2]Intent{
				{Move: core.Vec{X: 1, Y: -1}, Fire: true},
				{Move: core.Vec{X: 0, Y: 1}, Fire: true},
			},
		},
		{
			name:    "opposing keys cancel",
			keys:    core.KeyState{"a": true, "d": true, "w": true, "x": true},
			players: 2,
			want:    [2]Intent{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sample(tc.keys, tc.players); got != tc.want {
				t.Errorf("Sample() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestIntentFromFrame(t *testing.T) {
	f := core.NewInputFrame()
	f.Set(core.ActionDown)
	f.Set(core.ActionRight)
	f.Set(core.ActionFire)

	got := IntentFromFrame(f)
	want := Intent{Move: core.Vec{X: 1, Y: 1}, Fire: true}
	if got != want {
		t.Errorf("IntentFromFrame() = %+v, expected %+v", got, want)
	}
}

func TestRegistered(t *testing.T) {
	g, err := registry.Create("tanks")
	if err != nil {
		t.Fatalf("registry.Create(tanks) error = %v", err)
	}
	if _, ok := g.(registry.KeyedGame); !ok {
		t.Error("tanks should steer from held keys")
	}
	if g.Title() != "Battle Tanks" {
		t.Errorf("Title() = %q", g.Title())
	}
}

func TestConfigure(t *testing.T) {
	if _, err := NewWithSetup(Setup{Players: 0}); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("NewWithSetup(players=0) error = %v, expected ErrInvalidPlayerCount", err)
	}
	g, err := NewWithSetup(Setup{Players: 2, P1Level: 4, P2Level: 7})
	if err != nil {
		t.Fatalf("NewWithSetup() error = %v", err)
	}
	g.Reset(testConfig())

	s := g.Session()
	if s.Tank(Tank2).Label != "P2" {
		t.Errorf("opponent = %q, expected P2", s.Tank(Tank2).Label)
	}
	if s.Tank(Tank1).Level != 4 || s.Tank(Tank2).Level != 5 {
		t.Errorf("levels = %d/%d, expected 4/5", s.Tank(Tank1).Level, s.Tank(Tank2).Level)
	}
}

func TestSetupStaysWithItsGame(t *testing.T) {
	local, err := NewWithSetup(Setup{Players: 1, P1Level: 5, P2Level: 5})
	if err != nil {
		t.Fatalf("NewWithSetup() error = %v", err)
	}
	local.Reset(testConfig())

	online := NewOnline()
	if err := online.Configure(Setup{Players: 1, P1Level: 5, P2Level: 5}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	online.Reset(testConfig())

	fresh := New()
	fresh.Reset(testConfig())

	tests := []struct {
		name    string
		game    *Game
		players int
		levels  [2]int
	}{
		{"local keeps its choice", local, 1, [2]int{5, 5}},
		{"online uses config levels", online, 2, [2]int{1, 1}},
		{"fresh game uses config", fresh, 1, [2]int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.game.Session()
			if got := s.Setup().Players; got != tt.players {
				t.Errorf("Players = %d, expected %d", got, tt.players)
			}
			if l1, l2 := s.Tank(Tank1).Level, s.Tank(Tank2).Level; l1 != tt.levels[0] || l2 != tt.levels[1] {
				t.Errorf("levels = %d/%d, expected %d/%d", l1, l2, tt.levels[0], tt.levels[1])
			}
		})
	}
}

func TestPauseFreezesBattle(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	res := g.StepKeys(pause, core.KeyState{"right": true})
	if !res.State.Paused {
		t.Fatal("State.Paused = false after ActionPause")
	}
	before := g.Session().Frame()

	g.StepKeys(core.NewInputFrame(), core.KeyState{"right": true})
	if g.Session().Frame() != before {
		t.Error("paused battle advanced")
	}

	g.StepKeys(pause, nil)
	if g.State().Paused {
		t.Error("second ActionPause should resume")
	}
}

func TestOnlineGameDrivesBothTanks(t *testing.T) {
	g := NewOnline()
	g.Reset(testConfig())

	if g.Session().Tank(Tank2).Label != "P2" {
		t.Fatalf("online opponent = %q, expected P2", g.Session().Tank(Tank2).Label)
	}

	in := core.NewMultiInputFrame()
	p1 := core.NewInputFrame()
	p1.Set(core.ActionRight)
	p2 := core.NewInputFrame()
	p2.Set(core.ActionLeft)
	in.SetPlayer(core.Player1, p1)
	in.SetPlayer(core.Player2, p2)

	g.StepMulti(in)

	s := g.Session()
	if s.Tank(Tank1).Pos.X <= 60 || s.Tank(Tank2).Pos.X >= 540 {
		t.Errorf("tanks at %v and %v, expected both to move inward", s.Tank(Tank1).Pos, s.Tank(Tank2).Pos)
	}
	if snap, ok := g.Snapshot().(Snapshot); !ok || snap.Frame != 1 {
		t.Errorf("Snapshot() = %#v, expected a tanks snapshot at frame 1", g.Snapshot())
	}
}

func TestResultAndScore(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if _, ok := g.Result(); ok {
		t.Error("Result() should be unavailable while the battle runs")
	}

	g.Session().tanks[Tank2].Alive = false
	res := g.StepKeys(core.NewInputFrame(), nil)

	if !res.State.GameOver {
		t.Fatal("State.GameOver = false, expected true")
	}
	if res.State.Message != "NPC destroyed, P1 wins" {
		t.Errorf("State.Message = %q", res.State.Message)
	}
	if res.State.Score != 400 {
		t.Errorf("Score = %d, expected 400", res.State.Score)
	}
	if g.Winner() != core.Player1 || g.Score2() != 0 {
		t.Errorf("Winner() = %v, Score2() = %d", g.Winner(), g.Score2())
	}

	result, ok := g.Result()
	if !ok {
		t.Fatal("Result() unavailable after the battle ended")
	}
	if result.Winner != "P1" || result.Mode != "1P Lv1 vs NPC Lv1" {
		t.Errorf("Result() = %+v", result)
	}
}

func TestRenderDrawsBattlefield(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	screen := core.NewScreen(80, 24)

	g.Render(screen)

	out := screen.String()
	for _, want := range []string{string(ObstacleChar), string(BaseChar), string(TankChar), "P1 Lv1", "NPC Lv1"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered screen missing %q", want)
		}
	}

	g.Session().tanks[Tank1].Alive = false
	g.Session().tanks[Tank2].Alive = false
	g.StepKeys(core.NewInputFrame(), nil)
	g.Render(screen)
	if !strings.Contains(screen.String(), "draw, both destroyed") {
		t.Error("game over box should show the end reason")
	}
}
