// Package storage persists scores, battle results and online match history
// in SQLite through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is an open score database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

CREATE TABLE IF NOT EXISTS game_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	winner TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	ticks INTEGER NOT NULL DEFAULT 0,
	score INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_game_results_game ON game_results(game_id, created_at DESC);

CREATE TABLE IF NOT EXISTS online_matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id TEXT NOT NULL UNIQUE,
	game_id TEXT NOT NULL,
	player1_session TEXT NOT NULL,
	player2_session TEXT NOT NULL,
	score1 INTEGER NOT NULL DEFAULT 0,
	score2 INTEGER NOT NULL DEFAULT 0,
	winner_session TEXT,
	end_reason TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	round INTEGER NOT NULL DEFAULT 1,
	duration_secs INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_online_matches_p1 ON online_matches(player1_session);
CREATE INDEX IF NOT EXISTS idx_online_matches_p2 ON online_matches(player2_session);
`

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open opens or creates the database at path, creating parent
// directories. A leading ~ is expanded to the home directory.
func Open(path string) (*Store, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// scanTime accepts the forms the driver returns for DATETIME columns.
func scanTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.DateTime, time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func insertID(res sql.Result, err error, what string) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("storage: save %s: %w", what, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: %s id: %w", what, err)
	}
	return id, nil
}
