package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "arcade.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "scores.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := Open("~/.arcade/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(home, ".arcade", "scores.db")); err != nil {
		t.Errorf("database not created under HOME: %v", err)
	}
}

func TestTopScores(t *testing.T) {
	s := openTemp(t)
	for _, sc := range []int{100, 50, 200} {
		if _, err := s.SaveScore("tanks", sc); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := s.SaveScore("pacboy", 900); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	top, err := s.TopScores("tanks", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 2 || top[0].Score != 200 || top[1].Score != 100 {
		t.Errorf("TopScores() = %+v, expected 200 then 100", top)
	}

	high, err := s.HighScore("tanks")
	if err != nil || high != 200 {
		t.Errorf("HighScore() = %d, %v, expected 200", high, err)
	}
	if none, _ := s.HighScore("tictactoe"); none != 0 {
		t.Errorf("HighScore() of an unplayed game = %d, expected 0", none)
	}
}

func TestClearScores(t *testing.T) {
	s := openTemp(t)
	s.SaveScore("tanks", 10)
	s.SaveScore("pacboy", 20)

	if err := s.ClearScores("tanks"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if top, _ := s.TopScores("tanks", 10); len(top) != 0 {
		t.Errorf("tanks scores after clear = %d, expected 0", len(top))
	}
	if top, _ := s.TopScores("pacboy", 10); len(top) != 1 {
		t.Errorf("pacboy scores after clearing tanks = %d, expected 1", len(top))
	}
}

func TestGameStats(t *testing.T) {
	s := openTemp(t)
	for _, sc := range []int{100, 300} {
		s.SaveScore("tanks", sc)
	}

	st, err := s.GameStats("tanks")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if st.GamesCount != 2 || st.HighScore != 300 || st.AvgScore != 200 || st.TotalScore != 400 {
		t.Errorf("GameStats() = %+v", st)
	}

	empty, err := s.GameStats("pacboy")
	if err != nil || empty.GamesCount != 0 {
		t.Errorf("GameStats() of an unplayed game = %+v, %v", empty, err)
	}

	all, err := s.AllGameStats()
	if err != nil || len(all) != 1 || all["tanks"] == nil {
		t.Errorf("AllGameStats() = %v, %v, expected only tanks", all, err)
	}
}

func TestResults(t *testing.T) {
	s := openTemp(t)
	results := []registry.Result{
		{Mode: "1P Lv1 vs NPC Lv1", Winner: "P1", Reason: "NPC destroyed, P1 wins", Ticks: 900},
		{Mode: "1P Lv1 vs NPC Lv1", Winner: "NPC", Reason: "P1 base destroyed, NPC wins", Ticks: 1500},
		{Mode: "2P Lv2 vs Lv3", Winner: "P1", Reason: "P2 destroyed, P1 wins", Ticks: 300},
	}
	for _, r := range results {
		if _, err := s.SaveResult("tanks", r, 0); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	s.SaveResult("tictactoe", registry.Result{Mode: "hard", Winner: "draw"}, 75)

	recent, err := s.RecentResults("tanks", 2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Mode != "2P Lv2 vs Lv3" || recent[1].Winner != "NPC" {
		t.Errorf("RecentResults() = %+v, expected newest first", recent)
	}

	all, _ := s.RecentResults("", 10)
	if len(all) != 4 || all[0].GameID != "tictactoe" || all[0].Score != 75 {
		t.Errorf("RecentResults(all) = %+v", all)
	}

	tally, err := s.WinTally("tanks")
	if err != nil {
		t.Fatalf("WinTally() failed: %v", err)
	}
	if tally["P1"] != 2 || tally["NPC"] != 1 {
		t.Errorf("WinTally() = %v, expected P1:2 NPC:1", tally)
	}
}

func TestOnlineMatches(t *testing.T) {
	s := openTemp(t)
	saves := []multiplayer.MatchResultData{
		{MatchID: "m1", GameID: "tanks", Player1Session: "alice", Player2Session: "bob",
			Score1: 400, WinnerSession: "alice", EndReason: "Match completed",
			Summary: "P2 destroyed, P1 wins", Round: 1, DurationSecs: 40},
		{MatchID: "m2", GameID: "tanks", Player1Session: "alice", Player2Session: "bob",
			EndReason: "Match completed", Summary: "draw, both destroyed", Round: 2},
		{MatchID: "m3", GameID: "tanks", Player1Session: "carol", Player2Session: "dave",
			Score2: 200, WinnerSession: "dave", EndReason: "Opponent disconnected"},
	}
	for _, d := range saves {
		if err := s.SaveMatchResult(d); err != nil {
			t.Fatalf("SaveMatchResult() failed: %v", err)
		}
	}

	m1, err := s.OnlineMatchByID("m1")
	if err != nil || m1 == nil {
		t.Fatalf("OnlineMatchByID(m1) = %v, %v", m1, err)
	}
	if m1.WinnerSession != "alice" || m1.Summary != "P2 destroyed, P1 wins" || m1.Duration != 40 {
		t.Errorf("m1 = %+v", m1)
	}

	missing, err := s.OnlineMatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("OnlineMatchByID(nope) = %v, %v, expected nil, nil", missing, err)
	}

	recent, _ := s.RecentOnlineMatches(10)
	if len(recent) != 3 || recent[0].MatchID != "m3" || recent[0].Round != 1 {
		t.Errorf("RecentOnlineMatches() = %+v", recent)
	}

	history, _ := s.PlayerMatchHistory("bob", 10)
	if len(history) != 2 || history[0].Round != 2 || history[0].WinnerSession != "" {
		t.Errorf("PlayerMatchHistory(bob) = %+v", history)
	}

	if err := s.SaveMatchResult(saves[0]); err == nil {
		t.Error("saving a duplicate match ID succeeded")
	}
}
