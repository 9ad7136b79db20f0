package core

// Action is a semantic input, decoupled from physical keys.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionFire    // Space - shoot, place a mark
	ActionConfirm // Enter
	ActionBack    // B, Escape
	ActionRestart // R
	ActionQuit    // Q, Ctrl+C
	ActionPause   // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered by one player during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Merge adds every action of o to f.
func (f *InputFrame) Merge(o InputFrame) {
	for a, on := range o.Actions {
		if on {
			f.Set(a)
		}
	}
}

// Clone returns a copy of the frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// PlayerID identifies a seat in a match.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// MultiInputFrame holds the input of every seat for one tick.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{ByPlayer: make(map[PlayerID]InputFrame)}
}

// Player returns the frame of one seat, or an empty frame.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer replaces the frame of one seat.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// KeyState is the set of logical keys held down during a tick,
// e.g. "w", "up", "space". Absent keys are released.
type KeyState map[string]bool

// Held reports whether key is held.
func (k KeyState) Held(key string) bool {
	return k[key]
}

// Axis returns -1, 0 or 1 from a pair of opposing keys.
func (k KeyState) Axis(neg, pos string) float64 {
	var v float64
	if k[neg] {
		v--
	}
	if k[pos] {
		v++
	}
	return v
}
