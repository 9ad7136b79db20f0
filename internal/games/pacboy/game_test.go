package pacboy

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{Seed: 42, ScreenW: 80, ScreenH: 24, TickRate: 60}
}

func press(a core.Action) core.InputFrame {
	f := core.NewInputFrame()
	f.Set(a)
	return f
}

// newClassic returns a classic round with the ghosts parked out of the way.
func newClassic(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.Reset(testConfig())
	g.cfg = config.DefaultPacboyConfig()
	g.cfg.GhostSpeed = 0
	return g
}

func TestClassicBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if g.Board().Width() != 14 || g.Board().Height() != 12 {
		t.Errorf("board = %dx%d, expected 14x12", g.Board().Width(), g.Board().Height())
	}
	if g.Board().Pellets() != 92 {
		t.Errorf("Pellets() = %d, expected 92", g.Board().Pellets())
	}
	if g.Player() != (Point{1, 1}) {
		t.Errorf("Player() = %v, expected (1,1)", g.Player())
	}
	if len(g.Ghosts()) != 4 || g.Ghosts()[0].Pos != (Point{5, 5}) {
		t.Errorf("Ghosts() = %+v, expected four ghosts from (5,5)", g.Ghosts())
	}
}

func TestOutOfBoundsIsWall(t *testing.T) {
	b := NewBoard(classicLayout)
	for _, p := range []Point{{-1, 0}, {0, -1}, {14, 1}, {1, 12}} {
		if !b.IsWall(p) {
			t.Errorf("IsWall(%v) = false, expected true", p)
		}
	}
}

func TestPlayerMovesOneTilePerPress(t *testing.T) {
	g := newClassic(t)

	g.Step(press(core.ActionRight))
	if g.Player() != (Point{2, 1}) {
		t.Fatalf("Player() = %v, expected (2,1)", g.Player())
	}
	if g.State().Score != 10 {
		t.Errorf("Score = %d, expected 10", g.State().Score)
	}

	g.Step(core.NewInputFrame())
	if g.Player() != (Point{2, 1}) {
		t.Error("player moved without a key press")
	}

	g.Step(press(core.ActionUp))
	if g.Player() != (Point{2, 1}) {
		t.Errorf("Player() = %v, expected the wall to block", g.Player())
	}
}

func TestEatingTwiceScoresOnce(t *testing.T) {
	g := newClassic(t)

	g.Step(press(core.ActionRight))
	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionRight))

	// (1,1) was eaten on the way back, (2,1) only once.
	if g.State().Score != 20 {
		t.Errorf("Score = %d, expected 20", g.State().Score)
	}
	if g.Board().Pellets() != 90 {
		t.Errorf("Pellets() = %d, expected 90", g.Board().Pellets())
	}
}

func TestLastPelletWins(t *testing.T) {
	g := newClassic(t)
	g.board = NewBoard([][]Tile{
		{0, 0, 0, 0},
		{0, 2, 1, 0},
		{0, 0, 0, 0},
	})
	g.ghosts = nil

	res := g.Step(press(core.ActionRight))

	if g.Status() != Won || !res.State.GameOver {
		t.Fatalf("Status() = %v, expected Won", g.Status())
	}
	if res.State.Message != "YOU WIN!" {
		t.Errorf("Message = %q", res.State.Message)
	}
	result, ok := g.Result()
	if !ok || result.Winner != "player" {
		t.Errorf("Result() = %+v, %v", result, ok)
	}
}

func TestCaughtOnLastPelletLoses(t *testing.T) {
	g := newClassic(t)
	g.board = NewBoard([][]Tile{
		{0, 0, 0, 0},
		{0, 2, 1, 0},
		{0, 0, 0, 0},
	})
	g.ghosts = []Ghost{{Pos: Point{2, 1}}}

	g.Step(press(core.ActionRight))

	if g.Status() != Lost {
		t.Errorf("Status() = %v, expected Lost", g.Status())
	}
	if g.State().Message != "GAME OVER!" {
		t.Errorf("Message = %q", g.State().Message)
	}
}

func TestGhostCatchesPlayer(t *testing.T) {
	g := newClassic(t)
	g.cfg.GhostSpeed = 1
	g.cfg.TurnChance = 0
	g.ghosts = []Ghost{{Pos: Point{3, 1}, Dir: Left}}

	g.Step(core.NewInputFrame())
	if g.Status() != Running {
		t.Fatalf("Status() = %v after one ghost step, expected Running", g.Status())
	}
	g.Step(core.NewInputFrame())
	if g.Status() != Lost {
		t.Errorf("Status() = %v, expected Lost", g.Status())
	}

	before := g.Ghosts()
	g.Step(press(core.ActionDown))
	if !reflect.DeepEqual(before, g.Ghosts()) || g.Player() != (Point{1, 1}) {
		t.Error("a finished round must not change")
	}
}

func TestGhostSpeedAccumulates(t *testing.T) {
	g := newClassic(t)
	g.cfg.GhostSpeed = 0.4
	g.cfg.TurnChance = 0
	g.player = Point{1, 10}
	g.ghosts = []Ghost{{Pos: Point{1, 8}, Dir: Right}}

	moves := 0
	last := g.ghosts[0].Pos
	for i := 0; i < 9; i++ {
		g.Step(core.NewInputFrame())
		if g.ghosts[0].Pos != last {
			moves++
			last = g.ghosts[0].Pos
		}
	}
	// Counter reaches 1 on frames 3, 6 and 9.
	if moves != 3 {
		t.Errorf("ghost moved %d times in 9 frames, expected 3", moves)
	}
}

func TestGhostTurnsAtWalls(t *testing.T) {
	g := newClassic(t)
	g.cfg.GhostSpeed = 1
	g.cfg.TurnChance = 0
	g.player = Point{12, 10}
	g.ghosts = []Ghost{{Pos: Point{1, 8}, Dir: Left}}

	for i := 0; i < 200; i++ {
		g.Step(core.NewInputFrame())
		if g.Board().IsWall(g.ghosts[0].Pos) {
			t.Fatalf("frame %d: ghost inside a wall at %v", i, g.ghosts[0].Pos)
		}
		if g.Status() != Running {
			break
		}
	}
}

func TestPause(t *testing.T) {
	g := newClassic(t)

	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionRight))
	if g.Player() != (Point{1, 1}) {
		t.Error("player moved while paused")
	}
	g.Step(press(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestMazeIsConnected(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := NewBoard(generateMaze(21, 15, 0.6, rng))

		if b.Width() != 21 || b.Height() != 15 {
			t.Fatalf("maze = %dx%d, expected 21x15", b.Width(), b.Height())
		}
		reach := distances(b, Point{1, 1})
		if len(reach) != b.Pellets() {
			t.Errorf("seed %d: %d tiles reachable, %d pellets", seed, len(reach), b.Pellets())
		}
		for y := 0; y < b.Height()-1; y++ {
			for x := 0; x < b.Width()-1; x++ {
				if !b.IsWall(Point{x, y}) && !b.IsWall(Point{x + 1, y}) &&
					!b.IsWall(Point{x, y + 1}) && !b.IsWall(Point{x + 1, y + 1}) {
					t.Errorf("seed %d: open 2x2 square at (%d,%d)", seed, x, y)
				}
			}
		}
	}
}

func TestMazeRoundsToOdd(t *testing.T) {
	grid := generateMaze(20, 10, 0, rand.New(rand.NewSource(3)))
	if len(grid) != 9 || len(grid[0]) != 19 {
		t.Errorf("maze = %dx%d, expected 19x9", len(grid[0]), len(grid))
	}
}

func TestMazeGhostsSpawnAwayFromPlayer(t *testing.T) {
	g := NewMaze()
	g.Reset(testConfig())

	if len(g.Ghosts()) != g.cfg.Maze.Ghosts {
		t.Fatalf("len(Ghosts()) = %d, expected %d", len(g.Ghosts()), g.cfg.Maze.Ghosts)
	}
	for _, gh := range g.Ghosts() {
		if gh.Pos == g.Player() || g.Board().IsWall(gh.Pos) {
			t.Errorf("ghost spawned at %v", gh.Pos)
		}
	}
}

func TestGhostSpawnCount(t *testing.T) {
	board := NewBoard(generateMaze(15, 11, 0.5, rand.New(rand.NewSource(3))))
	tests := []struct {
		n        int
		expected int
	}{
		{-2, 0},
		{0, 0},
		{3, 3},
	}
	for _, tt := range tests {
		got := ghostSpawns(board, Point{1, 1}, tt.n, rand.New(rand.NewSource(3)))
		if len(got) != tt.expected {
			t.Errorf("ghostSpawns(n=%d) returned %d ghosts, expected %d", tt.n, len(got), tt.expected)
		}
	}
}

func TestMazeDeterminism(t *testing.T) {
	a, b := NewMaze(), NewMaze()
	a.Reset(testConfig())
	b.Reset(testConfig())

	for i := 0; i < 300; i++ {
		in := core.NewInputFrame()
		if i%7 == 0 {
			in.Set([]core.Action{core.ActionRight, core.ActionDown, core.ActionLeft, core.ActionUp}[i%4])
		}
		a.Step(in)
		b.Step(in)
	}

	if !reflect.DeepEqual(a.Ghosts(), b.Ghosts()) || a.Player() != b.Player() || a.score != b.score {
		t.Error("same seed and input produced different rounds")
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	screen := core.NewScreen(80, 24)

	g.Render(screen)

	out := screen.String()
	for _, want := range []string{"ᗧ", "ᗣ", "·", "Score: 0", "Pellets: 92"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered screen missing %q", want)
		}
	}
}
