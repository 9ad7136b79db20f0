package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"go.opentelemetry.io/otel/metric"

	"github.com/vovakirdan/battle-arcade/internal/config"
	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/games/tanks"
	"github.com/vovakirdan/battle-arcade/internal/games/tictactoe"
	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
	"github.com/vovakirdan/battle-arcade/internal/registry"
	"github.com/vovakirdan/battle-arcade/internal/storage"
)

// sessionEventBuffer is how many coordinator events a client may lag
// behind before the oldest are dropped.
const sessionEventBuffer = 128

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., "0.0.0.0:2222").
	Address string

	// HostKeyPath is the path to the host key file. Wish creates the
	// key on first start.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of local games and online battles.
	TickRate int

	// MeterProvider receives the coordinator metrics. Nil uses the
	// global provider.
	MeterProvider metric.MeterProvider
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     "0.0.0.0:2222",
		HostKeyPath: "~/.arcade/ssh_host_ed25519",
		DBPath:      "~/.arcade/scores.db",
		IdleTimeout: 10 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server for the arcade.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	coordinator *multiplayer.Coordinator
	sessions    *multiplayer.SessionRegistry
	logger      *log.Logger
}

// onlineGameFactory creates the game of an online match. Only tanks can
// be played online.
func onlineGameFactory(gameID string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	if gameID != "tanks" {
		return nil, fmt.Errorf("%w %q", registry.ErrUnknownGame, gameID)
	}
	g := tanks.NewOnline()
	g.Reset(cfg)
	return g, nil
}

// NewSSHServer creates a new SSH server with the given configuration.
// A nil logger writes to stderr.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	sessions := multiplayer.NewSessionRegistry()
	ccfg := multiplayer.DefaultCoordinatorConfig()
	ccfg.TickRate = cfg.TickRate
	ccfg.MeterProvider = cfg.MeterProvider
	coordinator, err := multiplayer.NewCoordinator(ccfg, onlineGameFactory, sessions)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("cannot create coordinator: %w", err)
	}
	coordinator.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		coordinator: coordinator,
		sessions:    sessions,
		logger:      logger,
	}

	hostKeyPath, err := storage.ExpandPath(cfg.HostKeyPath)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		closeStore(store)
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			logging.MiddlewareWithLogger(logger.WithPrefix("conn")),
		),
	)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close() //nolint:errcheck // already failing
	}
}

// sessionID names the arcade session of an SSH connection.
func sessionID(s ssh.Session) multiplayer.SessionID {
	return multiplayer.SessionID(fmt.Sprintf("%s@%s", s.User(), s.Context().SessionID()))
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		wish.Fatalln(sshSession, "arcade needs a terminal: connect with ssh -t")
		return nil, nil
	}

	client, ok := s.sessions.Get(sessionID(sshSession))
	if !ok {
		return nil, nil
	}
	cs, _ := client.(*multiplayer.ChannelSession)

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.store, cfg, s.coordinator, cs).WithLogger(s.logger)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// sessionMiddleware registers the client with the coordinator for the
// lifetime of the SSH session and logs its start and end.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := sessionID(sshSession)
		client := multiplayer.NewChannelSession(id, sessionEventBuffer)
		s.sessions.Register(client)

		s.logger.Info("session started",
			"session", id,
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		client.Close()
		s.sessions.Unregister(id)
		s.logger.Info("session ended", "session", id)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.coordinator.Stop()
		closeStore(s.store)
		return fmt.Errorf("ssh server: %w", err)
	}
}

// Shutdown stops the coordinator, then the server, then closes the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	err := s.server.Shutdown(ctx)
	closeStore(s.store)
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is a step of the session flow.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenTanksSetup
	screenPacboyMenu
	screenTicTacToeMenu
	screenGame
	screenScoreboard
	screenOnline
)

// SessionModel manages the full arcade session flow: menu, setup, game,
// scoreboard and online battles. Sub-models end with tea.Quit; the
// session reads their state and drops that command.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	coordinator *multiplayer.Coordinator
	client      *multiplayer.ChannelSession
	logger      *log.Logger
	screen      sessionScreen
	quitting    bool
	listening   bool // a read of client events is outstanding

	menu       MenuModel
	tanksSetup TanksSetupModel
	pacboyMenu PacboyModeModel
	tttMenu    TicTacToeMenuModel
	game       Model
	scoreboard ScoreboardModel
	online     OnlineModel
}

// NewSessionModel creates a session. coordinator and client may be nil,
// which hides online play.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	coordinator *multiplayer.Coordinator,
	client *multiplayer.ChannelSession,
) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		coordinator: coordinator,
		client:      client,
		logger:      log.Default(),
		menu:        NewMenuModel(cfg, coordinator != nil && client != nil),
	}
}

// WithLogger sets the logger handed to games.
func (m SessionModel) WithLogger(l *log.Logger) SessionModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case multiplayer.SessionEvent, sessionClosedMsg:
		// Events that arrive outside the online screen are stale: the
		// session already left its lobby or match.
		if m.screen != screenOnline {
			m.listening = false
			return m, nil
		}
	}

	switch m.screen {
	case screenTanksSetup:
		return m.updateTanksSetup(msg)
	case screenPacboyMenu:
		return m.updatePacboyMenu(msg)
	case screenTicTacToeMenu:
		return m.updateTicTacToeMenu(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenOnline:
		return m.updateOnline(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config, m.coordinator != nil && m.client != nil)
	return m, m.menu.Init()
}

func (m SessionModel) startGame(gameID string) (tea.Model, tea.Cmd) {
	game, err := registry.Create(gameID)
	if err != nil {
		m.logger.Error("create game", "game", gameID, "err", err)
		return m.toMenu()
	}
	return m.play(game)
}

// play runs a game created for this session only.
func (m SessionModel) play(game registry.Game) (tea.Model, tea.Cmd) {
	m.game = NewModel(game, m.store, m.config).WithLogger(m.logger)
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	case m.menu.Selected() != nil:
		w, h := m.config.ScreenW, m.config.ScreenH
		switch id := m.menu.Selected().GameID; id {
		case "tanks":
			m.tanksSetup = NewTanksSetupModel(w, h)
			m.screen = screenTanksSetup
		case "pacboy":
			m.pacboyMenu = NewPacboyModeModel(w, h)
			m.screen = screenPacboyMenu
		case "tictactoe":
			m.tttMenu = NewTicTacToeMenuModel(w, h)
			m.screen = screenTicTacToeMenu
		case OnlineItemID:
			hold := config.DefaultTanksConfig().Controls.HoldTicks
			if tcfg, _, err := tanks.LoadRules(); err == nil {
				hold = tcfg.Controls.HoldTicks
			}
			m.online = NewOnlineModel("tanks", m.client.ID(), m.coordinator, m.client, m.config).WithHoldTicks(hold)
			m.screen = screenOnline
			if m.listening {
				return m, nil
			}
			m.listening = true
			return m, m.online.Init()
		default:
			return m.startGame(id)
		}
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateTanksSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.tanksSetup.Update(msg)
	m.tanksSetup = next.(TanksSetupModel)

	switch {
	case m.tanksSetup.IsQuitting():
		return m.quit()
	case m.tanksSetup.IsBack():
		return m.toMenu()
	case m.tanksSetup.Chosen():
		game, err := tanks.NewWithSetup(m.tanksSetup.Setup())
		if err != nil {
			m.logger.Warn("tanks setup", "err", err)
			return m.toMenu()
		}
		return m.play(game)
	}
	return m, cmd
}

func (m SessionModel) updatePacboyMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.pacboyMenu.Update(msg)
	m.pacboyMenu = next.(PacboyModeModel)

	switch {
	case m.pacboyMenu.IsQuitting():
		return m.quit()
	case m.pacboyMenu.IsBack():
		return m.toMenu()
	case m.pacboyMenu.GameID() != "":
		return m.startGame(m.pacboyMenu.GameID())
	}
	return m, cmd
}

func (m SessionModel) updateTicTacToeMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.tttMenu.Update(msg)
	m.tttMenu = next.(TicTacToeMenuModel)

	switch {
	case m.tttMenu.IsQuitting():
		return m.quit()
	case m.tttMenu.IsBack():
		return m.toMenu()
	case m.tttMenu.Difficulty() != "":
		return m.play(tictactoe.NewWithDifficulty(m.tttMenu.Difficulty()))
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	switch {
	case m.game.IsQuitting():
		return m.quit()
	case m.game.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	switch {
	case m.scoreboard.IsQuitting():
		return m.quit()
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	m.online = next.(OnlineModel)

	switch {
	case m.online.IsQuitting():
		return m.quit()
	case m.online.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenTanksSetup:
		return m.tanksSetup.View()
	case screenPacboyMenu:
		return m.pacboyMenu.View()
	case screenTicTacToeMenu:
		return m.tttMenu.View()
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenOnline:
		return m.online.View()
	}
	return m.menu.View()
}
