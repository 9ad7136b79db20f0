package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/battle-arcade/internal/registry"
)

// ResultEntry is one finished local game: a battle, a Pac-boy round or a
// Tic-Tac-Toe round.
type ResultEntry struct {
	ID        int64
	GameID    string
	Mode      string
	Winner    string
	Reason    string
	Ticks     int
	Score     int
	CreatedAt time.Time
}

// SaveResult records how a local game ended.
func (s *Store) SaveResult(gameID string, r registry.Result, score int) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO game_results (game_id, mode, winner, reason, ticks, score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gameID, r.Mode, r.Winner, r.Reason, r.Ticks, score,
	)
	return insertID(res, err, "result")
}

// RecentResults returns the latest limit results of a game, newest first.
// An empty gameID lists every game.
func (s *Store) RecentResults(gameID string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, mode, winner, reason, ticks, score, created_at
		 FROM game_results
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query results: %w", err)
	}
	defer rows.Close()

	var out []ResultEntry
	for rows.Next() {
		var (
			e  ResultEntry
			at any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Mode, &e.Winner, &e.Reason, &e.Ticks, &e.Score, &at); err != nil {
			return nil, fmt.Errorf("storage: scan result: %w", err)
		}
		e.CreatedAt = scanTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate results: %w", err)
	}
	return out, nil
}

// WinTally counts results of a game by winner label.
func (s *Store) WinTally(gameID string) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT winner, COUNT(*) FROM game_results WHERE game_id = ? GROUP BY winner",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query tally: %w", err)
	}
	defer rows.Close()

	tally := make(map[string]int)
	for rows.Next() {
		var (
			winner string
			n      int
		)
		if err := rows.Scan(&winner, &n); err != nil {
			return nil, fmt.Errorf("storage: scan tally: %w", err)
		}
		tally[winner] = n
	}
	return tally, rows.Err()
}
