package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset names how forgiving the computer opponent is.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyMedium DifficultyPreset = "medium"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts a preset name in any case.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, medium or hard)", s)
}

// Offset returns the mistake roll offset configured for a preset.
func (m MistakeOffsets) Offset(p DifficultyPreset) int {
	switch p {
	case DifficultyMedium:
		return m.Medium
	case DifficultyHard:
		return m.Hard
	default:
		return m.Easy
	}
}
