package tanks

import "github.com/vovakirdan/battle-arcade/internal/core"

// Binding names the logical keys that steer one tank.
type Binding struct {
	Up, Down, Left, Right, Fire string
}

// Key names as produced by the platform key table.
var (
	ArrowBinding = Binding{Up: "up", Down: "down", Left: "left", Right: "right", Fire: "space"}
	WXADBinding  = Binding{Up: "w", Down: "x", Left: "a", Right: "d", Fire: "s"}
)

// Bindings returns the key layout of both seats for a player count.
// With one player the arrows drive tank 1; with two, tank 1 uses
// W/X/A/D + S and tank 2 takes the arrows.
func Bindings(players int) [2]Binding {
	if players == 2 {
		return [2]Binding{WXADBinding, ArrowBinding}
	}
	return [2]Binding{ArrowBinding, {}}
}

// Sample turns a held-key table into per-tank intents.
func Sample(keys core.KeyState, players int) [2]Intent {
	var out [2]Intent
	for i, b := range Bindings(players) {
		if b == (Binding{}) {
			continue
		}
		out[i] = Intent{
			Move: core.Vec{X: keys.Axis(b.Left, b.Right), Y: keys.Axis(b.Up, b.Down)},
			Fire: keys.Held(b.Fire),
		}
	}
	return out
}

// IntentFromFrame maps abstract actions to an intent, used by online play
// where every remote player steers with the same layout.
func IntentFromFrame(f core.InputFrame) Intent {
	var in Intent
	if f.Has(core.ActionUp) {
		in.Move.Y--
	}
	if f.Has(core.ActionDown) {
		in.Move.Y++
	}
	if f.Has(core.ActionLeft) {
		in.Move.X--
	}
	if f.Has(core.ActionRight) {
		in.Move.X++
	}
	in.Fire = f.Has(core.ActionFire)
	return in
}
