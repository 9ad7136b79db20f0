package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
)

// OnlineMatchResult is a finished online battle.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a draw
	EndReason      string
	Summary        string
	Round          int
	Duration       int // seconds
	CreatedAt      time.Time
}

const matchColumns = `id, match_id, game_id, player1_session, player2_session,
	score1, score2, winner_session, end_reason, summary, round, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (OnlineMatchResult, error) {
	var (
		r      OnlineMatchResult
		winner sql.NullString
		at     any
	)
	err := row.Scan(&r.ID, &r.MatchID, &r.GameID, &r.Player1Session, &r.Player2Session,
		&r.Score1, &r.Score2, &winner, &r.EndReason, &r.Summary, &r.Round, &r.Duration, &at)
	r.WinnerSession = winner.String
	r.CreatedAt = scanTime(at)
	return r, err
}

// SaveOnlineMatch records a finished online battle.
func (s *Store) SaveOnlineMatch(r OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2,
		  winner_session, end_reason, summary, round, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.GameID, r.Player1Session, r.Player2Session, r.Score1, r.Score2,
		r.WinnerSession, r.EndReason, r.Summary, max(1, r.Round), r.Duration,
	)
	return insertID(res, err, "online match")
}

// OnlineMatchByID returns a match, or nil if it is unknown.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	r, err := scanMatch(s.db.QueryRow(
		"SELECT "+matchColumns+" FROM online_matches WHERE match_id = ?", matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: query online match: %w", err)
	}
	return &r, nil
}

// RecentOnlineMatches lists the latest matches, newest first.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		"SELECT "+matchColumns+" FROM online_matches ORDER BY id DESC LIMIT ?", limit)
}

// PlayerMatchHistory lists the matches a session played in.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		"SELECT "+matchColumns+` FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY id DESC LIMIT ?`,
		sessionID, sessionID, limit)
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query online matches: %w", err)
	}
	defer rows.Close()

	var out []OnlineMatchResult
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan online match: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate online matches: %w", err)
	}
	return out, nil
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

// SaveMatchResult lets the coordinator persist matches.
func (s *Store) SaveMatchResult(d multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        d.MatchID,
		GameID:         d.GameID,
		Player1Session: d.Player1Session,
		Player2Session: d.Player2Session,
		Score1:         d.Score1,
		Score2:         d.Score2,
		WinnerSession:  d.WinnerSession,
		EndReason:      d.EndReason,
		Summary:        d.Summary,
		Round:          d.Round,
		Duration:       d.DurationSecs,
	})
	return err
}
