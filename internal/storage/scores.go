package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry is one saved score.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// GameStats aggregates the scores of one game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// SaveScore records a score and returns its row ID.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	res, err := s.db.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", gameID, score)
	return insertID(res, err, "score")
}

// TopScores returns the best limit scores of a game, highest first.
// A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var (
			e  ScoreEntry
			at any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &at); err != nil {
			return nil, fmt.Errorf("storage: scan score: %w", err)
		}
		e.CreatedAt = scanTime(at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate scores: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score of a game, or 0.
func (s *Store) HighScore(gameID string) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE game_id = ?", gameID).Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: query high score: %w", err)
	}
	return int(best.Int64), nil
}

// ClearScores deletes every score of a game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: clear scores: %w", err)
	}
	return nil
}

// GameStats aggregates the scores of one game. A game never played has
// zero stats.
func (s *Store) GameStats(gameID string) (*GameStats, error) {
	st := &GameStats{GameID: gameID}
	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: game stats: %w", err)
	}
	st.LastPlayed = scanTime(last)
	return st, nil
}

// AllGameStats returns stats for every game with at least one score.
func (s *Store) AllGameStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: all game stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var (
			st   GameStats
			last any
		)
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &last); err != nil {
			return nil, fmt.Errorf("storage: scan stats: %w", err)
		}
		st.LastPlayed = scanTime(last)
		stats[st.GameID] = &st
	}
	return stats, rows.Err()
}
