package tictactoe

import (
	"math/rand"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

var configPath string

// SetConfigPath sets a custom tictactoe.yaml path.
func SetConfigPath(path string) {
	configPath = path
}

// Tally counts finished rounds. It survives restarts.
type Tally struct {
	PlayerWins   int
	ComputerWins int
	Draws        int
}

// Game is a series of rounds against the computer.
type Game struct {
	cfg        config.TicTacToeConfig
	difficulty config.DifficultyPreset
	chosen     config.DifficultyPreset // overrides the config file when set
	tickRate   int
	rng        *rand.Rand

	board   Board
	cursor  Cell
	turn    Mark
	winner  Mark
	over    bool
	think   int // ticks left before the computer moves
	ticks   int
	tally   Tally
	lastWin []Cell
}

// New creates a Tic-Tac-Toe game on the difficulty from the config file.
func New() *Game {
	return &Game{}
}

// NewWithDifficulty creates a game on a chosen difficulty.
func NewWithDifficulty(p config.DifficultyPreset) *Game {
	g := New()
	g.SetDifficulty(p)
	return g
}

// SetDifficulty picks the difficulty used from the next Reset on.
// An empty preset goes back to the config file.
func (g *Game) SetDifficulty(p config.DifficultyPreset) {
	g.chosen = p
}

func init() {
	registry.Register("tictactoe", func() registry.Game {
		return New()
	})
}

var _ registry.ResultReporter = (*Game)(nil)

// ID returns the game identifier.
func (g *Game) ID() string {
	return "tictactoe"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tic-Tac-Toe"
}

// Reset clears the board for a new round. The player always opens.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	tcfg, err := config.LoadTicTacToe(configPath)
	if err != nil {
		tcfg = config.DefaultTicTacToeConfig()
	}
	g.cfg = tcfg
	g.difficulty = tcfg.Difficulty
	if g.chosen != "" {
		g.difficulty = g.chosen
	}
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.rng = rand.New(rand.NewSource(cfg.Seed))

	g.board = Board{}
	g.cursor = Cell{}
	g.turn = X
	g.winner = None
	g.over = false
	g.think = 0
	g.ticks = 0
	g.lastWin = nil
}

// Step moves the cursor and places marks on the player's turn, and counts
// down the computer's thinking time on its turn.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.over {
		return core.StepResult{State: g.State()}
	}
	g.ticks++

	switch g.turn {
	case X:
		g.playerInput(in)
	case O:
		g.think--
		if g.think <= 0 {
			if c, ok := chooseMove(g.board, g.rng, g.cfg.MistakeOffsets.Offset(g.difficulty)); ok {
				g.board[c.Row][c.Col] = O
			}
			g.endTurn()
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) playerInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = (g.cursor.Row + 2) % 3
	case in.Has(core.ActionDown):
		g.cursor.Row = (g.cursor.Row + 1) % 3
	case in.Has(core.ActionLeft):
		g.cursor.Col = (g.cursor.Col + 2) % 3
	case in.Has(core.ActionRight):
		g.cursor.Col = (g.cursor.Col + 1) % 3
	case in.Has(core.ActionFire), in.Has(core.ActionConfirm):
		if g.board.At(g.cursor) == None {
			g.board[g.cursor.Row][g.cursor.Col] = X
			g.endTurn()
		}
	}
}

// endTurn checks the mover for a win, then the board for a draw, and
// otherwise hands the turn over.
func (g *Game) endTurn() {
	switch {
	case g.board.Wins(g.turn):
		g.finish(g.turn)
	case g.board.Full():
		g.finish(None)
	default:
		if g.turn == X {
			g.turn = O
			g.think = g.thinkTicks()
		} else {
			g.turn = X
		}
	}
}

func (g *Game) thinkTicks() int {
	lo, hi := g.cfg.ThinkMinSeconds, g.cfg.ThinkMaxSeconds
	if hi < lo {
		hi = lo
	}
	seconds := lo + g.rng.Intn(hi-lo+1)
	return seconds * g.tickRate
}

func (g *Game) finish(winner Mark) {
	g.over = true
	g.winner = winner
	switch winner {
	case X:
		g.tally.PlayerWins++
	case O:
		g.tally.ComputerWins++
	default:
		g.tally.Draws++
	}
	for _, line := range lines {
		if winner != None && g.board.At(line[0]) == winner && g.board.At(line[1]) == winner && g.board.At(line[2]) == winner {
			g.lastWin = line[:]
			break
		}
	}
}

// Board returns a copy of the board.
func (g *Game) Board() Board { return g.board }

// Turn returns whose move it is.
func (g *Game) Turn() Mark { return g.turn }

// Cursor returns the selected cell.
func (g *Game) Cursor() Cell { return g.cursor }

// Tally returns the running totals.
func (g *Game) Tally() Tally { return g.tally }

// Difficulty returns the active preset.
func (g *Game) Difficulty() config.DifficultyPreset { return g.difficulty }

// State scores a player win by difficulty; draws earn a quarter.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.roundScore(),
		GameOver: g.over,
		Message:  g.message(),
	}
}

func (g *Game) roundScore() int {
	if !g.over {
		return 0
	}
	mult := 1
	switch g.difficulty {
	case config.DifficultyMedium:
		mult = 2
	case config.DifficultyHard:
		mult = 3
	}
	switch g.winner {
	case X:
		return 100 * mult
	case None:
		return 25 * mult
	}
	return 0
}

func (g *Game) message() string {
	if !g.over {
		return ""
	}
	switch g.winner {
	case X:
		return "You win!"
	case O:
		return "Computer wins!"
	}
	return "Draw!"
}

// Result describes a finished round.
func (g *Game) Result() (registry.Result, bool) {
	if !g.over {
		return registry.Result{}, false
	}
	winner := "draw"
	if g.winner != None {
		winner = g.winner.String()
	}
	return registry.Result{
		Mode:   string(g.difficulty),
		Winner: winner,
		Reason: g.message(),
		Ticks:  g.ticks,
	}, true
}
