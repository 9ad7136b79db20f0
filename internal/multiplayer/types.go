// Package multiplayer runs online battles between two SSH sessions: lobbies
// with join codes, an authoritative match loop per battle and rematches.
// It does not depend on Bubble Tea or Wish; sessions are reached through
// SessionHandle.
package multiplayer

import "github.com/vovakirdan/battle-arcade/internal/core"

// PlayerID is the seat a session plays in a match.
type PlayerID = core.PlayerID

const (
	Player1 = core.Player1 // lobby host
	Player2 = core.Player2 // joiner
)

// SessionID identifies one connected client.
type SessionID string

// MatchID identifies one battle. A rematch gets a new MatchID.
type MatchID string

// Other returns the opposite seat.
func Other(p PlayerID) PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}
