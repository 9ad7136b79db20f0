package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTanks loads Battle Tanks configuration.
// Search order: customPath -> ~/.arcade/configs/tanks.yaml -> ./configs/tanks.yaml -> embedded default
func LoadTanks(customPath string) (TanksConfig, error) {
	return load("tanks.yaml", customPath, defaultTanksYAML, DefaultTanksConfig)
}

// LoadPacboy loads Pac-boy configuration, same search order as LoadTanks.
func LoadPacboy(customPath string) (PacboyConfig, error) {
	return load("pacboy.yaml", customPath, defaultPacboyYAML, DefaultPacboyConfig)
}

// LoadTicTacToe loads Tic-Tac-Toe configuration, same search order as LoadTanks.
func LoadTicTacToe(customPath string) (TicTacToeConfig, error) {
	return load("tictactoe.yaml", customPath, defaultTicTacToeYAML, DefaultTicTacToeConfig)
}

// load decodes the first readable config over the hardcoded defaults, so
// a file only needs the keys it changes. Only an explicit customPath can
// fail; the implicit locations fall through silently.
func load[T any](filename, customPath string, embedded []byte, defaults func() T) (T, error) {
	cfg := defaults()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", filename)}
	if p := userConfigPath(filename); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fromFile := defaults()
		if err := yaml.Unmarshal(data, &fromFile); err == nil {
			return fromFile, nil
		}
	}

	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil
	}
	return cfg, nil
}

// userConfigPath returns ~/.arcade/configs/<filename>, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
