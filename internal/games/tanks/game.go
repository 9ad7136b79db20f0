package tanks

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

var configPath string

// SetConfigPath sets a custom tanks.yaml path.
func SetConfigPath(path string) {
	configPath = path
}

// LoadRules reads the battle rules from the configured tanks.yaml.
func LoadRules() (config.TanksConfig, Rules, error) {
	cfg, err := config.LoadTanks(configPath)
	if err != nil {
		return config.DefaultTanksConfig(), DefaultRules(), err
	}
	return cfg, RulesFromConfig(cfg.Rules), nil
}

// RulesFromConfig converts the YAML rules section.
func RulesFromConfig(c config.TanksRules) Rules {
	r := Rules{
		BaseHP:         c.BaseHP,
		FireCooldown:   c.NPCFireCooldown,
		WanderInterval: c.NPCWanderInterval,
		WanderMargin:   c.NPCWanderMargin,
		ArriveDistance: c.NPCArriveDistance,
	}
	for _, o := range c.Obstacles {
		r.Obstacles = append(r.Obstacles, core.Box{X: o.X, Y: o.Y, W: o.W, H: o.H})
	}
	return r
}

// Game adapts a Session to the arcade platform.
type Game struct {
	online  bool
	chosen  *Setup // overrides the config file for local games
	session *Session
	setup   Setup
	rules   Rules
	hold    int
	paused  bool
}

// New creates a local game: one player against the NPC, or hot-seat.
func New() *Game {
	return &Game{}
}

// NewWithSetup creates a local game with a chosen setup.
func NewWithSetup(s Setup) (*Game, error) {
	g := New()
	if err := g.Configure(s); err != nil {
		return nil, err
	}
	return g, nil
}

// NewOnline creates a game for two remote players. Levels come from the
// config file.
func NewOnline() *Game {
	return &Game{online: true}
}

// Configure picks the setup used from the next Reset on. Invalid player
// counts are rejected here so Reset never sees them. Online games ignore
// it.
func (g *Game) Configure(s Setup) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.chosen = &s
	return nil
}

func init() {
	registry.Register("tanks", func() registry.Game {
		return New()
	})
}

var (
	_ registry.KeyedGame      = (*Game)(nil)
	_ registry.ResultReporter = (*Game)(nil)
	_ multiplayer.OnlineGame  = (*Game)(nil)
)

// ID returns the game identifier.
func (g *Game) ID() string {
	return "tanks"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Battle Tanks"
}

// Reset starts a fresh battle. The world is fixed size; the screen size
// only affects rendering.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	tcfg, rules, _ := LoadRules()

	setup := Setup{Players: tcfg.Match.Players, P1Level: tcfg.Match.P1Level, P2Level: tcfg.Match.P2Level}
	switch {
	case g.online:
		setup.Players = 2
	case g.chosen != nil:
		setup = *g.chosen
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := NewSession(setup, rules, rng)
	if err != nil {
		setup = DefaultSetup()
		s, _ = NewSession(setup, rules, rng)
	}

	g.session = s
	g.setup = s.Setup()
	g.rules = rules
	g.hold = tcfg.Controls.HoldTicks
	g.paused = false
}

// HoldTicks is how many ticks a key press counts as held.
func (g *Game) HoldTicks() int {
	return g.hold
}

// Session exposes the underlying simulation.
func (g *Game) Session() *Session {
	return g.session
}

// Step drives tank 1 from one-shot actions. Used when the platform has no
// held-key table.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	var intents [2]Intent
	intents[Tank1] = IntentFromFrame(in)
	return g.advance(in, intents)
}

// StepKeys samples the held keys with the bindings of the current mode.
func (g *Game) StepKeys(in core.InputFrame, keys core.KeyState) core.StepResult {
	return g.advance(in, Sample(keys, g.setup.Players))
}

// StepMulti drives both tanks from the frames of two remote players.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	intents := [2]Intent{
		IntentFromFrame(in.Player(core.Player1)),
		IntentFromFrame(in.Player(core.Player2)),
	}
	g.session.Tick(intents)
	return core.StepResult{State: g.State()}
}

func (g *Game) advance(in core.InputFrame, intents [2]Intent) core.StepResult {
	if in.Has(core.ActionPause) && g.session.Status() == Active {
		g.paused = !g.paused
	}
	if !g.paused {
		g.session.Tick(intents)
	}
	return core.StepResult{State: g.State()}
}

// State reports the score of player 1 and whether the battle is over.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score1(),
		GameOver: g.session.Status() == Ended,
		Paused:   g.paused,
		Message:  g.session.Reason(),
	}
}

// Result describes a finished battle.
func (g *Game) Result() (registry.Result, bool) {
	s := g.session
	if s.Status() != Ended {
		return registry.Result{}, false
	}
	winner := "draw"
	if id, ok := s.Winner(); ok {
		winner = s.Tank(id).Label
	}
	return registry.Result{
		Mode:   g.modeLabel(),
		Winner: winner,
		Reason: s.Reason(),
		Ticks:  s.Frame(),
	}, true
}

func (g *Game) modeLabel() string {
	if g.setup.Players == 2 {
		return fmt.Sprintf("2P Lv%d vs Lv%d", g.setup.P1Level, g.setup.P2Level)
	}
	return fmt.Sprintf("1P Lv%d vs NPC Lv%d", g.setup.P1Level, g.setup.P2Level)
}

// IsGameOver reports whether the battle has ended.
func (g *Game) IsGameOver() bool {
	return g.session.Status() == Ended
}

// Winner returns the winning seat, or 0 for a draw or a running battle.
func (g *Game) Winner() core.PlayerID {
	id, ok := g.session.Winner()
	if !ok {
		return 0
	}
	if id == Tank1 {
		return core.Player1
	}
	return core.Player2
}

// Summary returns the end reason of the battle.
func (g *Game) Summary() string {
	return g.session.Reason()
}

// Score1 is the score of tank 1.
func (g *Game) Score1() int {
	return g.score(Tank1)
}

// Score2 is the score of tank 2.
func (g *Game) Score2() int {
	return g.score(Tank2)
}

// score rewards a win with 100 points plus 100 per base hit point left,
// scaled up when beating a stronger opponent.
func (g *Game) score(id TankID) int {
	winner, ok := g.session.Winner()
	if !ok || winner != id {
		return 0
	}
	opp := g.session.Tank(id.Other())
	return (100 + 100*g.session.BaseHP(id)) * opp.Level
}
