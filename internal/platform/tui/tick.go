// Package tui runs arcade games in Bubble Tea: the fixed-rate tick loop,
// key mapping, menus, the scoreboard and the Wish SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step.
type TickMsg time.Time

func tickInterval(tickRate int) time.Duration {
	return time.Second / time.Duration(max(1, tickRate))
}

// tickCmd schedules the next TickMsg at tickRate per second.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
