package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/registry"
	"github.com/vovakirdan/battle-arcade/internal/storage"
)

const defaultHoldTicks = 8

// holdTicker is implemented by games that tune how long a key press
// counts as held.
type holdTicker interface {
	HoldTicks() int
}

// Model is the Bubble Tea model for running one local game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	latch      *KeyLatch
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	saved      bool // result of the current round is stored
}

// NewModel creates a model for game. store may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		latch:      NewKeyLatch(defaultHoldTicks),
		inputFrame: core.NewInputFrame(),
	}
}

// WithLogger replaces the logger used to report storage failures.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if h, ok := m.game.(holdTicker); ok && h.HoldTicks() > 0 {
		m.latch.hold = h.HoldTicks()
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The games keep their own world size, so a resize only changes
		// the drawing surface.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	m.latch.Press(KeyName(msg))
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.saved = false
		m.latch.Reset()
		m.inputFrame = core.NewInputFrame()
		return m, tickCmd(m.config.TickRate)
	}

	keys := m.latch.Tick()
	var result core.StepResult
	if kg, ok := m.game.(registry.KeyedGame); ok {
		result = kg.StepKeys(m.inputFrame, keys)
	} else {
		result = m.game.Step(m.inputFrame)
	}
	m.gameState = result.State

	if m.gameState.GameOver && !m.saved {
		m.saveResult()
		m.saved = true
	}

	m.inputFrame = core.NewInputFrame()
	return m, tickCmd(m.config.TickRate)
}

// saveResult stores the score and, when the game reports one, the outcome.
// Failures are logged and the game carries on.
func (m Model) saveResult() {
	if m.store == nil {
		return
	}
	id := m.game.ID()
	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(id, m.gameState.Score); err != nil {
			m.logger.Warn("save score", "game", id, "err", err)
		}
	}
	if rr, ok := m.game.(registry.ResultReporter); ok {
		if res, done := rr.Result(); done {
			if _, err := m.store.SaveResult(id, res, m.gameState.Score); err != nil {
				m.logger.Warn("save result", "game", id, "err", err)
			}
		}
	}
}

func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to leave the arcade.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State is the game state after the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run plays game until the player quits or goes back. It reports
// whether the player went back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (bool, error) {
	p := tea.NewProgram(NewModel(game, store, cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
