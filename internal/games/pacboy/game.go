package pacboy

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

// Variant selects the board.
type Variant int

const (
	Classic Variant = iota // the fixed 14x12 board
	Maze                   // a generated braided maze
)

// Status of a round.
type Status int

const (
	Running Status = iota
	Won
	Lost
)

var ghostColors = []core.Color{core.ColorRed, core.ColorPink, core.ColorCyan, core.ColorOrange}

var configPath string

// SetConfigPath sets a custom pacboy.yaml path.
func SetConfigPath(path string) {
	configPath = path
}

// Ghost wanders the board one tile at a time.
type Ghost struct {
	Pos     Point
	Dir     Point
	counter float64
	Color   core.Color
}

// Game is a round of Pac-boy.
type Game struct {
	variant Variant
	cfg     config.PacboyConfig
	rng     *rand.Rand
	board   *Board
	player  Point
	ghosts  []Ghost
	score   int
	status  Status
	paused  bool
	ticks   int
}

// New creates a Pac-boy game on the classic board.
func New() *Game {
	return &Game{variant: Classic}
}

// NewMaze creates a Pac-boy game on a generated maze.
func NewMaze() *Game {
	return &Game{variant: Maze}
}

func init() {
	registry.Register("pacboy", func() registry.Game {
		return New()
	})
	registry.Register("pacboy_maze", func() registry.Game {
		return NewMaze()
	})
}

var _ registry.ResultReporter = (*Game)(nil)

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == Maze {
		return "pacboy_maze"
	}
	return "pacboy"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == Maze {
		return "Pac-boy (Maze)"
	}
	return "Pac-boy"
}

// Reset rebuilds the board and puts everyone back on their spawn tiles.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	pcfg, err := config.LoadPacboy(configPath)
	if err != nil {
		pcfg = config.DefaultPacboyConfig()
	}
	g.cfg = pcfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.player = Point{1, 1}
	g.score = 0
	g.status = Running
	g.paused = false
	g.ticks = 0

	var spawns []Point
	if g.variant == Maze {
		m := pcfg.Maze
		g.board = NewBoard(generateMaze(m.Width, m.Height, m.Braiding, g.rng))
		spawns = ghostSpawns(g.board, g.player, m.Ghosts, g.rng)
	} else {
		g.board = NewBoard(classicLayout)
		spawns = classicGhosts
	}

	g.ghosts = g.ghosts[:0]
	for i, p := range spawns {
		g.ghosts = append(g.ghosts, Ghost{Pos: p, Color: ghostColors[i%len(ghostColors)]})
	}
}

// Step moves the player one tile per direction press, then the ghosts.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.status != Running {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}
	g.ticks++

	if dir, ok := direction(in); ok {
		g.movePlayer(dir)
		if g.status != Running {
			return core.StepResult{State: g.State()}
		}
	}

	g.moveGhosts()
	if g.caught() {
		g.status = Lost
	}
	return core.StepResult{State: g.State()}
}

func direction(in core.InputFrame) (Point, bool) {
	switch {
	case in.Has(core.ActionUp):
		return Up, true
	case in.Has(core.ActionDown):
		return Down, true
	case in.Has(core.ActionLeft):
		return Left, true
	case in.Has(core.ActionRight):
		return Right, true
	}
	return Point{}, false
}

// movePlayer steps into a free tile, eats its pellet and checks for the
// end of the round. Being caught on the same move as clearing the board
// still loses.
func (g *Game) movePlayer(dir Point) {
	next := g.player.Add(dir)
	if g.board.IsWall(next) {
		return
	}
	g.player = next

	if g.board.Eat(next) {
		g.score += g.cfg.PelletScore
		if g.board.Pellets() == 0 {
			g.status = Won
		}
	}
	if g.caught() {
		g.status = Lost
	}
}

// moveGhosts advances each ghost whose speed counter reached a full tile.
func (g *Game) moveGhosts() {
	for i := range g.ghosts {
		gh := &g.ghosts[i]
		gh.counter += g.cfg.GhostSpeed
		if gh.counter < 1 {
			continue
		}
		gh.counter = 0

		if g.rng.Float64() < g.cfg.TurnChance || g.board.IsWall(gh.Pos.Add(gh.Dir)) {
			gh.Dir = directions[g.rng.Intn(len(directions))]
		}
		if next := gh.Pos.Add(gh.Dir); !g.board.IsWall(next) {
			gh.Pos = next
		}
	}
}

func (g *Game) caught() bool {
	for _, gh := range g.ghosts {
		if gh.Pos == g.player {
			return true
		}
	}
	return false
}

// Status returns whether the round is running, won or lost.
func (g *Game) Status() Status {
	return g.status
}

// Player returns the player tile.
func (g *Game) Player() Point {
	return g.player
}

// Ghosts returns a copy of the ghosts.
func (g *Game) Ghosts() []Ghost {
	return append([]Ghost(nil), g.ghosts...)
}

// Board returns the current board.
func (g *Game) Board() *Board {
	return g.board
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.status != Running,
		Paused:   g.paused,
		Message:  g.message(),
	}
}

func (g *Game) message() string {
	switch g.status {
	case Won:
		return "YOU WIN!"
	case Lost:
		return "GAME OVER!"
	}
	return ""
}

// Result describes a finished round.
func (g *Game) Result() (registry.Result, bool) {
	if g.status == Running {
		return registry.Result{}, false
	}
	winner := "ghosts"
	if g.status == Won {
		winner = "player"
	}
	mode := "classic"
	if g.variant == Maze {
		mode = "maze"
	}
	return registry.Result{
		Mode:   mode,
		Winner: winner,
		Reason: fmt.Sprintf("%s %d pellets left", g.message(), g.board.Pellets()),
		Ticks:  g.ticks,
	}, true
}
