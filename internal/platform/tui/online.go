package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/battle-arcade/internal/core"
	"github.com/vovakirdan/battle-arcade/internal/games/tanks"
	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
)

const joinCodeLen = 6

// OnlineState is a step of the online flow, from lobby to rematch.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // Battle running
	OnlineStateMatchEnded                       // Battle over, rematch possible
)

// sessionClosedMsg means the client session has gone away.
type sessionClosedMsg struct{}

// onlineTickMsg drives input sampling. gen tells a stale tick loop from
// the loop of the current match.
type onlineTickMsg struct {
	gen int
}

// Sender accepts coordinator messages; *multiplayer.Coordinator is one.
type Sender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// EventSource delivers coordinator events to one client;
// *multiplayer.ChannelSession is one.
type EventSource interface {
	Events() <-chan multiplayer.SessionEvent
	Done() <-chan struct{}
}

// OnlineModel runs one session through the online flow: host or join a
// lobby, play the battle from server snapshots, then rematch or leave.
// It reads session events one at a time so no event is lost between
// states.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	tickRate    int
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator Sender
	source      EventSource

	lobbyCode     string
	joinCodeInput string
	lobbyError    string

	matchID  multiplayer.MatchID
	side     core.PlayerID
	round    int
	screen   *core.Screen
	snapshot *tanks.Snapshot
	latch    *KeyLatch
	tickGen  int
	tick     uint64

	ended      multiplayer.MatchEndedEvent
	ready      [2]bool
	declined   bool
	requested  bool
	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for one session.
func NewOnlineModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator Sender,
	source EventSource,
	cfg core.RuntimeConfig,
) OnlineModel {
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		tickRate:    cfg.TickRate,
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
		source:      source,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		latch:       NewKeyLatch(defaultHoldTicks),
	}
}

// WithHoldTicks sets how long a key press counts as held in battle.
func (m OnlineModel) WithHoldTicks(n int) OnlineModel {
	m.latch = NewKeyLatch(n)
	return m
}

// Init starts listening for session events.
func (m OnlineModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent reads the next session event. Exactly one read is
// outstanding at any time: every event handler issues the next one.
func (m OnlineModel) waitForEvent() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		if src == nil {
			return nil
		}
		select {
		case evt := <-src.Events():
			return evt
		case <-src.Done():
			return sessionClosedMsg{}
		}
	}
}

func (m OnlineModel) onlineTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(tickInterval(m.tickRate), func(time.Time) tea.Msg {
		return onlineTickMsg{gen: gen}
	})
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case onlineTickMsg:
		if msg.gen != m.tickGen || m.state != OnlineStateInMatch {
			return m, nil
		}
		m.tick++
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    Frame(m.latch.Tick()),
		})
		return m, m.onlineTick()

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case multiplayer.SessionEvent:
		return m.handleEvent(msg)
	}
	return m, nil
}

func (m OnlineModel) handleEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	next := m.waitForEvent()

	switch evt := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = evt.Code
		m.lobbyError = ""
		m.state = OnlineStateHostWaiting

	case multiplayer.LobbyErrorEvent:
		m.lobbyError = evt.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}

	case multiplayer.LobbyPlayerLeftEvent:
		m.lobbyError = "Opponent left the lobby"

	case multiplayer.MatchStartedEvent:
		m.matchID = evt.MatchID
		m.side = evt.Side
		m.round = evt.Round
		m.state = OnlineStateInMatch
		m.snapshot = nil
		m.ready = [2]bool{}
		m.declined = false
		m.requested = false
		m.latch.Reset()
		m.tick = 0
		m.tickGen++
		return m, tea.Batch(next, m.onlineTick())

	case multiplayer.SnapshotEvent:
		if evt.MatchID == m.matchID {
			if snap, ok := evt.Snapshot.(tanks.Snapshot); ok {
				m.snapshot = &snap
			}
		}

	case multiplayer.MatchEndedEvent:
		if evt.MatchID == m.matchID {
			m.ended = evt
			m.state = OnlineStateMatchEnded
		}

	case multiplayer.RematchStatusEvent:
		if evt.MatchID == m.matchID {
			m.ready = [2]bool{evt.Ready1, evt.Ready2}
		}

	case multiplayer.RematchDeclinedEvent:
		if evt.MatchID == m.matchID {
			m.declined = true
		}
	}
	return m, next
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		return m.handleEndedKey(msg)
	}
	return m, nil
}

// leave tells the coordinator this session is done with its lobby or match.
func (m OnlineModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	case OnlineStateInMatch, OnlineStateMatchEnded:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.lobbyError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.sessionID, GameID: m.gameID})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lobbyError = ""
	case "esc", "b":
		m.backToMenu = true
		return m, tea.Quit
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateChooseMode
		m.lobbyCode = ""
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.lobbyError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Join codes use the base32 alphabet.
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

func (m OnlineModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.leave()
		m.backToMenu = true
		return m, tea.Quit
	}
	m.latch.Press(KeyName(msg))
	return m, nil
}

func (m OnlineModel) handleEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", "R":
		if m.ended.Rematch && !m.declined && !m.requested {
			m.requested = true
			m.coordinator.Send(multiplayer.ReadyForRematchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		}
	case "b", "esc":
		m.leave()
		m.backToMenu = true
		return m, tea.Quit
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch:
		return m.viewMatch()
	case OnlineStateMatchEnded:
		return m.viewEnded()
	}
	return ""
}

func (m OnlineModel) errorLine(b *strings.Builder) {
	if m.lobbyError != "" {
		b.WriteString("\n")
		b.WriteString(centerText("Error: "+m.lobbyError, m.width))
		b.WriteString("\n")
	}
}

func (m OnlineModel) viewChooseMode() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("ONLINE BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a battle", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a battle", m.width))
	b.WriteString("\n")
	m.errorLine(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

func (m OnlineModel) viewHostWaiting() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("HOSTING BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n")
	m.errorLine(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))
	return b.String()
}

func (m OnlineModel) viewJoinEnterCode() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("JOIN BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the battle code:", m.width))
	b.WriteString("\n\n")

	code := m.joinCodeInput
	if len(code) < joinCodeLen {
		code += "_" + strings.Repeat(" ", joinCodeLen-1-len(code))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", code), m.width))
	b.WriteString("\n")
	m.errorLine(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))
	return b.String()
}

func (m OnlineModel) viewJoinWaiting() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining battle: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))
	return b.String()
}

func (m OnlineModel) sideName() string {
	if m.side == core.Player2 {
		return "P2 (red)"
	}
	return "P1 (blue)"
}

func (m OnlineModel) viewMatch() string {
	if m.snapshot == nil {
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("ROUND %d", m.round), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("You are "+m.sideName(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Get ready!", m.width))
		return b.String()
	}
	hint := fmt.Sprintf("You are %s  |  Arrows move, Space fires  |  Esc: Leave", m.sideName())
	tanks.RenderSnapshot(m.screen, *m.snapshot, hint)
	return RenderScreen(m.screen)
}

func (m OnlineModel) viewEnded() string {
	var b strings.Builder
	b.WriteString("\n")

	title := "DRAW"
	switch m.ended.Winner {
	case m.side:
		title = "VICTORY"
	case multiplayer.Other(m.side):
		title = "DEFEAT"
	}
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	summary := m.ended.Summary
	if m.ended.Reason != multiplayer.MatchEndReasonCompleted {
		summary = m.ended.Reason.String()
	}
	b.WriteString(centerText(summary, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("P1 %d  -  %d P2", m.ended.Score1, m.ended.Score2), m.width))
	b.WriteString("\n\n")

	switch {
	case !m.ended.Rematch:
	case m.declined:
		b.WriteString(centerText("Rematch declined", m.width))
		b.WriteString("\n\n")
	default:
		mine, theirs := m.ready[0], m.ready[1]
		if m.side == core.Player2 {
			mine, theirs = theirs, mine
		}
		status := "Press R for a rematch"
		switch {
		case mine && theirs:
			status = "Starting rematch..."
		case mine:
			status = "Waiting for opponent..."
		case theirs:
			status = "Opponent wants a rematch! Press R"
		}
		b.WriteString(centerText(status, m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText("R: Rematch  |  B: Back  |  Q: Quit", m.width))
	return b.String()
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the current or last match.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which seat this session plays.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}
