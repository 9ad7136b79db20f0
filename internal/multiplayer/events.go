package multiplayer

import "github.com/vovakirdan/battle-arcade/internal/core"

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells the host its join code.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

// LobbyErrorEvent reports a failed lobby operation or an expired lobby.
type LobbyErrorEvent struct {
	Message string
}

// LobbyJoinedEvent is sent to both sessions when the lobby fills.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

// LobbyPlayerLeftEvent tells the host the joiner went away.
type LobbyPlayerLeftEvent struct {
	Code string
}

// MatchStartedEvent is sent when a battle (or a rematch) begins.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
	Round   int // 1 for the first battle, +1 per rematch
}

// MatchEndedEvent carries the outcome of a battle.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // 0 on a draw or when the lobby closed
	Score1  int
	Score2  int
	Summary string
	Rematch bool // a rematch may be requested for MatchID
}

// RematchStatusEvent reports which seats have asked for a rematch.
type RematchStatusEvent struct {
	MatchID MatchID
	Ready1  bool
	Ready2  bool
}

// RematchDeclinedEvent means the opponent left or the offer expired.
type RematchDeclinedEvent struct {
	MatchID MatchID
}

// SnapshotEvent carries the state after one simulation tick.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (LobbyCreatedEvent) sessionEvent()    {}
func (LobbyErrorEvent) sessionEvent()      {}
func (LobbyJoinedEvent) sessionEvent()     {}
func (LobbyPlayerLeftEvent) sessionEvent() {}
func (MatchStartedEvent) sessionEvent()    {}
func (MatchEndedEvent) sessionEvent()      {}
func (RematchStatusEvent) sessionEvent()   {}
func (RematchDeclinedEvent) sessionEvent() {}
func (SnapshotEvent) sessionEvent()        {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota
	MatchEndReasonDisconnect
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// GameSnapshot is the game-specific state broadcast each tick.
type GameSnapshot interface {
	IsGameSnapshot()
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby hosted by SessionID.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

// JoinLobbyMsg joins the lobby with Code. Codes are case-insensitive.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// CancelLobbyMsg closes a lobby; only its host may send it.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveLobbyMsg leaves a lobby before the match starts.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveMatchMsg forfeits a running match or declines a rematch.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

// PlayerInputMsg carries the actions a player holds this tick. Clients
// send one every tick, including empty frames on release.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64
	Input    core.InputFrame
}

// ReadyForRematchMsg asks for another battle against the same opponent.
type ReadyForRematchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

// SessionDisconnectedMsg is sent when a client goes away.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage()         {}
func (JoinLobbyMsg) coordinatorMessage()           {}
func (CancelLobbyMsg) coordinatorMessage()         {}
func (LeaveLobbyMsg) coordinatorMessage()          {}
func (LeaveMatchMsg) coordinatorMessage()          {}
func (PlayerInputMsg) coordinatorMessage()         {}
func (ReadyForRematchMsg) coordinatorMessage()     {}
func (SessionDisconnectedMsg) coordinatorMessage() {}
