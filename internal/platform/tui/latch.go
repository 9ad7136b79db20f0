package tui

import "github.com/vovakirdan/battle-arcade/internal/core"

// opposite pairs release each other: pressing left lets go of right at
// once instead of waiting for it to time out.
var opposite = map[string]string{
	"up": "down", "down": "up", "left": "right", "right": "left",
	"w": "x", "x": "w", "a": "d", "d": "a",
}

// KeyLatch turns key presses into held keys. Terminals report presses
// and auto-repeats but no releases, so a key counts as held for a fixed
// number of ticks after each press.
type KeyLatch struct {
	hold int
	left map[string]int
}

// NewKeyLatch holds each press for hold ticks (at least 1).
func NewKeyLatch(hold int) *KeyLatch {
	return &KeyLatch{hold: max(1, hold), left: make(map[string]int)}
}

// Press marks key as held from now on.
func (l *KeyLatch) Press(key string) {
	l.left[key] = l.hold
	if o, ok := opposite[key]; ok {
		delete(l.left, o)
	}
}

// Tick returns the keys held this tick and ages every press by one tick.
func (l *KeyLatch) Tick() core.KeyState {
	keys := make(core.KeyState, len(l.left))
	for k, n := range l.left {
		keys[k] = true
		if n <= 1 {
			delete(l.left, k)
		} else {
			l.left[k] = n - 1
		}
	}
	return keys
}

// Reset releases every key.
func (l *KeyLatch) Reset() {
	clear(l.left)
}

// Frame converts held keys to actions for a remote player. Arrows or
// W/X/A/D move and space fires.
func Frame(keys core.KeyState) core.InputFrame {
	f := core.NewInputFrame()
	for key, action := range map[string]core.Action{
		"up": core.ActionUp, "down": core.ActionDown, "left": core.ActionLeft, "right": core.ActionRight,
		"w": core.ActionUp, "x": core.ActionDown, "a": core.ActionLeft, "d": core.ActionRight,
		"space": core.ActionFire,
	} {
		if keys.Held(key) {
			f.Set(action)
		}
	}
	return f
}
