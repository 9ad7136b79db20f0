// Package core holds the types shared by the platform and the games.
// It has no dependency on Bubble Tea so game logic stays pure and testable.
package core

import "math"

// Rect is an integer axis-aligned box in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle with the given position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects reports whether r and other share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Vec is a 2D vector in world units.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Box is a float axis-aligned rectangle in world units.
// Unlike Rect, its edges are inclusive: touching boxes overlap.
type Box struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether b and o touch or overlap.
func (b Box) Overlaps(o Box) bool {
	return !(b.X+b.W < o.X || b.X > o.X+o.W || b.Y+b.H < o.Y || b.Y > o.Y+o.H)
}

// ContainsPoint reports whether p lies inside b or on its border.
func (b Box) ContainsPoint(p Vec) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// InCircle reports whether p lies within radius r of center c.
func InCircle(p, c Vec, r float64) bool {
	return p.Sub(c).Len() <= r
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
