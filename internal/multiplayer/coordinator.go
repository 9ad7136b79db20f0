package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/metric"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// Lobby is a host waiting for an opponent.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig tunes lobby and match handling.
type CoordinatorConfig struct {
	LobbyTimeout   time.Duration // empty lobbies expire after this
	RematchTimeout time.Duration // unanswered rematch offers expire after this
	TickRate       int
	CleanupPeriod  time.Duration
	MeterProvider  metric.MeterProvider // nil uses the global provider
}

func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:   2 * time.Minute,
		RematchTimeout: time.Minute,
		TickRate:       60,
		CleanupPeriod:  30 * time.Second,
	}
}

// GameFactory creates the game for a new match.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches. Implemented by storage.Store.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match in storage-friendly form.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	Summary        string
	Round          int
	DurationSecs   int
}

// rematchOffer keeps the seats of a completed match until both players
// accept, one leaves or the offer expires.
type rematchOffer struct {
	code    string
	gameID  string
	round   int
	seats   [2]SessionHandle
	ready   [2]bool
	expires time.Time
}

// Coordinator pairs sessions through lobbies and owns running matches.
// Messages are handled one at a time on the coordinator goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger
	metrics     *metrics

	mu       sync.RWMutex
	lobbies  map[string]*Lobby
	matches  map[MatchID]*OnlineMatch
	finished map[MatchID]*rematchOffer

	sessionLobby    map[SessionID]string
	sessionMatch    map[SessionID]MatchID
	sessionFinished map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. Logging is off until SetLogger.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) (*Coordinator, error) {
	c := &Coordinator{
		config:          cfg,
		gameFactory:     factory,
		sessions:        sessions,
		logger:          log.New(io.Discard),
		lobbies:         make(map[string]*Lobby),
		matches:         make(map[MatchID]*OnlineMatch),
		finished:        make(map[MatchID]*rematchOffer),
		sessionLobby:    make(map[SessionID]string),
		sessionMatch:    make(map[SessionID]MatchID),
		sessionFinished: make(map[SessionID]MatchID),
		msgChan:         make(chan CoordinatorMessage, 256),
		done:            make(chan struct{}),
	}
	m, err := newMetrics(c)
	if err != nil {
		return nil, err
	}
	c.metrics = m
	return c, nil
}

// SetResultSaver enables persistence of finished matches.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger sets the lifecycle logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = l
}

// Start runs message handling and lobby cleanup in the background.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop ends background work and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.Unlock()
		if c.metrics.register != nil {
			_ = c.metrics.register.Unregister() //nolint:errcheck // shutdown
		}
	})
}

// Send queues a message for the coordinator goroutine.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case ReadyForRematchMsg:
		c.handleReadyForRematch(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	c.declineLocked(msg.SessionID)

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.metrics.add(c.metrics.lobbies, msg.GameID)
	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "host", msg.SessionID)

	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

// busy reports whether a session is in a lobby or a running match.
// Must be called with the lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	switch {
	case !exists:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Joiner != nil:
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}
	c.declineLocked(msg.SessionID)

	lobby.Joiner = session
	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: Player1, OpponentID: msg.SessionID})
	session.Send(LobbyJoinedEvent{Code: code, Side: Player2, OpponentID: lobby.Host.ID()})

	delete(c.lobbies, code)
	delete(c.sessionLobby, lobby.Host.ID())
	c.startMatch(code, lobby.GameID, lobby.Host, lobby.Joiner, 1)
}

// startMatch creates the game and launches the match loop.
// Must be called with the lock held.
func (c *Coordinator) startMatch(code, gameID string, p1, p2 SessionHandle, round int) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", code, time.Now().UnixNano()))
	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	game, err := c.gameFactory(gameID, cfg)
	if err != nil {
		c.logger.Error("cannot create game", "game", gameID, "err", err)
		p1.Send(LobbyErrorEvent{Message: "Failed to create game"})
		p2.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	match := NewOnlineMatch(matchID, code, gameID, game, p1, p2, c.config.TickRate)
	match.round = round
	match.onDrop = func() { c.metrics.add(c.metrics.dropped, gameID) }

	c.matches[matchID] = match
	c.sessionMatch[p1.ID()] = matchID
	c.sessionMatch[p2.ID()] = matchID
	c.metrics.add(c.metrics.started, gameID)
	c.logger.Info("match started", "match", matchID, "game", gameID, "round", round, "p1", p1.ID(), "p2", p2.ID())

	p1.Send(MatchStartedEvent{MatchID: matchID, Side: Player1, Code: code, Round: round})
	p2.Send(MatchStartedEvent{MatchID: matchID, Side: Player2, Code: code, Round: round})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	p1, p2 := match.Session(Player1), match.Session(Player2)

	c.saveResult(match, result)
	c.metrics.matchEnded(match.GameID(), result.Reason)
	c.logger.Info("match ended",
		"match", matchID, "reason", result.Reason, "winner", int(result.Winner),
		"summary", result.Summary, "ticks", result.Ticks)

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, matchID)

	rematch := result.Reason == MatchEndReasonCompleted
	if rematch {
		c.finished[matchID] = &rematchOffer{
			code:    match.Code(),
			gameID:  match.GameID(),
			round:   match.Round(),
			seats:   [2]SessionHandle{p1, p2},
			expires: time.Now().Add(c.config.RematchTimeout),
		}
		c.sessionFinished[p1.ID()] = matchID
		c.sessionFinished[p2.ID()] = matchID
	}

	evt := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
		Summary: result.Summary,
		Rematch: rematch,
	}
	p1.Send(evt)
	p2.Send(evt)
}

// saveResult persists in the background. Must be called with the lock held.
func (c *Coordinator) saveResult(match *OnlineMatch, result MatchResult) {
	if c.resultSaver == nil {
		return
	}
	winner := ""
	if result.Winner != 0 {
		winner = string(match.Session(result.Winner).ID())
	}
	data := MatchResultData{
		MatchID:        string(match.ID()),
		GameID:         match.GameID(),
		Player1Session: string(match.Session(Player1).ID()),
		Player2Session: string(match.Session(Player2).ID()),
		Score1:         result.Score1,
		Score2:         result.Score2,
		WinnerSession:  winner,
		EndReason:      result.Reason.String(),
		Summary:        result.Summary,
		Round:          match.Round(),
		DurationSecs:   int(result.Ticks / uint64(max(1, c.config.TickRate))), //nolint:gosec // tick rate is positive
	}
	saver, logger := c.resultSaver, c.logger
	go func() {
		if err := saver.SaveMatchResult(data); err != nil {
			logger.Warn("cannot save match result", "match", data.MatchID, "err", err)
		}
	}()
}

func (c *Coordinator) handleReadyForRematch(msg ReadyForRematchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, ok := c.finished[msg.MatchID]
	if !ok {
		if s, found := c.sessions.Get(msg.SessionID); found {
			s.Send(RematchDeclinedEvent{MatchID: msg.MatchID})
		}
		return
	}

	idx := -1
	for i, s := range offer.seats {
		if s.ID() == msg.SessionID {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	offer.ready[idx] = true

	if !offer.ready[0] || !offer.ready[1] {
		evt := RematchStatusEvent{MatchID: msg.MatchID, Ready1: offer.ready[0], Ready2: offer.ready[1]}
		offer.seats[0].Send(evt)
		offer.seats[1].Send(evt)
		return
	}

	c.dropOffer(msg.MatchID, offer)
	c.metrics.add(c.metrics.rematch, offer.gameID)
	c.startMatch(offer.code, offer.gameID, offer.seats[0], offer.seats[1], offer.round+1)
}

// declineLocked withdraws any rematch offer involving id and tells the
// other player. Must be called with the lock held.
func (c *Coordinator) declineLocked(id SessionID) {
	matchID, ok := c.sessionFinished[id]
	if !ok {
		return
	}
	offer, ok := c.finished[matchID]
	if !ok {
		delete(c.sessionFinished, id)
		return
	}
	c.dropOffer(matchID, offer)
	for _, s := range offer.seats {
		if s.ID() != id {
			s.Send(RematchDeclinedEvent{MatchID: matchID})
		}
	}
}

func (c *Coordinator) dropOffer(matchID MatchID, offer *rematchOffer) {
	delete(c.finished, matchID)
	for _, s := range offer.seats {
		if c.sessionFinished[s.ID()] == matchID {
			delete(c.sessionFinished, s.ID())
		}
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	c.closeLobby(lobby)
}

// closeLobby removes a lobby whose host is gone. Must be called with the
// lock held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft, Summary: MatchEndReasonHostLeft.String()})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, lobby.Host.ID())
	c.logger.Info("lobby closed", "code", lobby.Code)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}
	switch {
	case lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID:
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
	case lobby.Host.ID() == msg.SessionID:
		c.closeLobby(lobby)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if match, ok := c.matches[msg.MatchID]; ok {
		match.PlayerDisconnected(msg.SessionID)
		return
	}
	if c.sessionFinished[msg.SessionID] == msg.MatchID {
		c.declineLocked(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, ok := c.matches[msg.MatchID]
	c.mu.RUnlock()
	if ok {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, ok := c.sessionLobby[msg.SessionID]; ok {
		if lobby, exists := c.lobbies[code]; exists {
			switch {
			case lobby.Host.ID() == msg.SessionID:
				c.closeLobby(lobby)
			case lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID:
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, ok := c.sessionMatch[msg.SessionID]; ok {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}

	c.declineLocked(msg.SessionID)
	c.logger.Debug("session disconnected", "session", msg.SessionID)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired(time.Now())
		case <-c.done:
			return
		}
	}
}

// cleanupExpired drops empty lobbies and rematch offers older than their
// timeouts.
func (c *Coordinator) cleanupExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
			c.logger.Info("lobby expired", "code", code)
		}
	}
	for matchID, offer := range c.finished {
		if now.After(offer.expires) {
			c.dropOffer(matchID, offer)
			for _, s := range offer.seats {
				s.Send(RematchDeclinedEvent{MatchID: matchID})
			}
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode returns six characters from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a running match.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// PendingRematches counts offers waiting for an answer.
func (c *Coordinator) PendingRematches() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.finished)
}
