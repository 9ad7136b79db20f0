package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// OnlineGame is a game two remote players can share. The match loop is
// the only caller, so implementations need no locking.
type OnlineGame interface {
	Reset(cfg core.RuntimeConfig)
	StepMulti(input core.MultiInputFrame) core.StepResult
	Snapshot() GameSnapshot
	IsGameOver() bool

	// Winner returns the winning seat, or 0 on a draw or while running.
	Winner() PlayerID
	Score1() int
	Score2() int

	// Summary is a one-line description of how the game ended.
	Summary() string
}

// MatchResult is the outcome handed to the coordinator.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Summary string
	Ticks   uint64
}

// OnlineMatch runs the authoritative simulation for one battle.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	round  int
	game   OnlineGame

	seats [2]SessionHandle

	inputs  chan playerInput
	held    [2]core.InputFrame
	onDrop  func()
	tick    uint64
	rate    int
	started time.Time

	disconnects chan SessionID
	done        chan struct{}
	stopOnce    sync.Once
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch prepares a match; Run starts it.
func NewOnlineMatch(id MatchID, code, gameID string, game OnlineGame, p1, p2 SessionHandle, tickRate int) *OnlineMatch {
	return &OnlineMatch{
		id:          id,
		code:        code,
		gameID:      gameID,
		round:       1,
		game:        game,
		seats:       [2]SessionHandle{p1, p2},
		inputs:      make(chan playerInput, 64),
		held:        [2]core.InputFrame{core.NewInputFrame(), core.NewInputFrame()},
		rate:        max(1, tickRate),
		disconnects: make(chan SessionID, 2),
		done:        make(chan struct{}),
	}
}

func (m *OnlineMatch) ID() MatchID    { return m.id }
func (m *OnlineMatch) Code() string   { return m.code }
func (m *OnlineMatch) GameID() string { return m.gameID }
func (m *OnlineMatch) Round() int     { return m.round }

// Session returns the handle seated at p.
func (m *OnlineMatch) Session(p PlayerID) SessionHandle {
	return m.seats[seat(p)]
}

// SeatOf returns the seat of a session, or 0 if it is not in the match.
func (m *OnlineMatch) SeatOf(id SessionID) PlayerID {
	for i, s := range m.seats {
		if s.ID() == id {
			return PlayerID(i + 1)
		}
	}
	return 0
}

func seat(p PlayerID) int {
	if p == Player2 {
		return 1
	}
	return 0
}

// SendInput queues the actions player holds. It never blocks; when the
// queue is full the frame is dropped and the player keeps its last input.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputs <- playerInput{player: player, input: input}:
	default:
		if m.onDrop != nil {
			m.onDrop()
		}
	}
}

// PlayerDisconnected ends the match in favor of the other seat.
func (m *OnlineMatch) PlayerDisconnected(id SessionID) {
	select {
	case m.disconnects <- id:
	default:
	}
}

// Run ticks the game until it ends, a player leaves or Stop is called.
// onComplete is not called after Stop.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	m.started = time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(m.rate))
	defer ticker.Stop()

	go m.watchSessions()

	for {
		select {
		case <-ticker.C:
			if res, over := m.step(); over {
				if onComplete != nil {
					onComplete(res)
				}
				return
			}
		case id := <-m.disconnects:
			if onComplete != nil {
				onComplete(m.forfeit(id))
			}
			return
		case <-m.done:
			return
		}
	}
}

// step runs one tick. The last frame a player sent since the previous
// tick replaces their held input; a player with no new frame keeps the
// old one.
func (m *OnlineMatch) step() (MatchResult, bool) {
	for drained := false; !drained; {
		select {
		case pi := <-m.inputs:
			m.held[seat(pi.player)] = pi.input.Clone()
		default:
			drained = true
		}
	}

	in := core.NewMultiInputFrame()
	in.SetPlayer(Player1, m.held[0].Clone())
	in.SetPlayer(Player2, m.held[1].Clone())
	m.game.StepMulti(in)
	m.tick++

	snap := SnapshotEvent{MatchID: m.id, Tick: m.tick, Snapshot: m.game.Snapshot()}
	for _, s := range m.seats {
		s.Send(snap)
	}

	if !m.game.IsGameOver() {
		return MatchResult{}, false
	}
	return m.result(MatchEndReasonCompleted, m.game.Winner()), true
}

func (m *OnlineMatch) forfeit(id SessionID) MatchResult {
	winner := Player1
	if id == m.seats[0].ID() {
		winner = Player2
	}
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	summary := m.game.Summary()
	if reason != MatchEndReasonCompleted {
		summary = reason.String()
	}
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Summary: summary,
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) watchSessions() {
	select {
	case <-m.seats[0].Done():
		m.PlayerDisconnected(m.seats[0].ID())
	case <-m.seats[1].Done():
		m.PlayerDisconnected(m.seats[1].ID())
	case <-m.done:
	}
}

// Stop ends the loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Done is closed once the match loop has stopped.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}
