package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tanks, err := LoadTanks("")
	if err != nil {
		t.Fatalf("LoadTanks() error = %v", err)
	}
	want := DefaultTanksConfig()
	if tanks.Rules.BaseHP != want.Rules.BaseHP || tanks.Controls.HoldTicks != want.Controls.HoldTicks {
		t.Errorf("LoadTanks() = %+v, expected %+v", tanks, want)
	}
	if len(tanks.Rules.Obstacles) != 1 || tanks.Rules.Obstacles[0] != want.Rules.Obstacles[0] {
		t.Errorf("obstacles = %+v, expected %+v", tanks.Rules.Obstacles, want.Rules.Obstacles)
	}

	pac, err := LoadPacboy("")
	if err != nil {
		t.Fatalf("LoadPacboy() error = %v", err)
	}
	if pac != DefaultPacboyConfig() {
		t.Errorf("LoadPacboy() = %+v, expected %+v", pac, DefaultPacboyConfig())
	}

	ttt, err := LoadTicTacToe("")
	if err != nil {
		t.Fatalf("LoadTicTacToe() error = %v", err)
	}
	if ttt != DefaultTicTacToeConfig() {
		t.Errorf("LoadTicTacToe() = %+v, expected %+v", ttt, DefaultTicTacToeConfig())
	}
}

func TestCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tanks.yaml")
	data := "rules:\n  base_hp: 5\n  obstacles: []\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTanks(path)
	if err != nil {
		t.Fatalf("LoadTanks() error = %v", err)
	}
	if cfg.Rules.BaseHP != 5 {
		t.Errorf("BaseHP = %d, expected 5", cfg.Rules.BaseHP)
	}
	if len(cfg.Rules.Obstacles) != 0 {
		t.Errorf("Obstacles = %v, expected none", cfg.Rules.Obstacles)
	}
	if cfg.Rules.NPCFireCooldown != 120 {
		t.Errorf("NPCFireCooldown = %d, expected default 120", cfg.Rules.NPCFireCooldown)
	}
}

func TestCustomPathErrors(t *testing.T) {
	if _, err := LoadTanks(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTanks() with a missing custom path should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rules: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTanks(path); err == nil {
		t.Error("LoadTanks() with malformed YAML should fail")
	}
}

func TestLocalConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "pacboy.yaml"), []byte("ghost_speed: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPacboy("")
	if err != nil {
		t.Fatalf("LoadPacboy() error = %v", err)
	}
	if cfg.GhostSpeed != 0.5 {
		t.Errorf("GhostSpeed = %v, expected 0.5", cfg.GhostSpeed)
	}
	if cfg.PelletScore != 10 {
		t.Errorf("PelletScore = %d, expected default 10", cfg.PelletScore)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{" Medium ", DifficultyMedium, false},
		{"HARD", DifficultyHard, false},
		{"normal", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestMistakeOffsets(t *testing.T) {
	m := DefaultTicTacToeConfig().MistakeOffsets
	if m.Offset(DifficultyEasy) != 0 || m.Offset(DifficultyMedium) != -20 || m.Offset(DifficultyHard) != -35 {
		t.Errorf("Offset() = %d/%d/%d, expected 0/-20/-35",
			m.Offset(DifficultyEasy), m.Offset(DifficultyMedium), m.Offset(DifficultyHard))
	}
}
