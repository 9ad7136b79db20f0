package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

// KeyName returns the name a key is bound by. Bubble Tea reports the
// space bar as " "; bindings call it "space".
func KeyName(msg tea.KeyMsg) string {
	if k := msg.String(); k != " " {
		return k
	}
	return "space"
}

// KeyMapper translates key messages to game and menu actions.
type KeyMapper struct{}

func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the one-shot action for a key and whether it quits.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch KeyName(msg) {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "up", "w":
		return core.ActionUp, false
	case "down":
		return core.ActionDown, false
	case "left", "a":
		return core.ActionLeft, false
	case "right", "d":
		return core.ActionRight, false
	case "space":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame sets the action for msg in frame and reports a quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction is a menu navigation step.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch KeyName(msg) {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "up", "w", "k":
		return MenuActionUp
	case "down", "s", "j":
		return MenuActionDown
	case "left", "a", "h":
		return MenuActionLeft
	case "right", "d", "l":
		return MenuActionRight
	case "enter", "space":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
