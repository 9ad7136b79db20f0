// Package pacboy implements a small maze chase: eat every pellet on the
// board before one of the wandering ghosts catches you.
package pacboy

// Tile is one cell of the board.
type Tile uint8

const (
	Wall Tile = iota
	Pellet
	Empty
)

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Add returns p moved by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// The four movement directions.
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}

	directions = []Point{Right, Left, Down, Up}
)

// classicLayout is the hand-drawn 14x12 board.
// 0 wall, 1 pellet, 2 empty.
var classicLayout = [][]Tile{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0},
	{0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 0},
	{0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 0},
	{0, 1, 0, 1, 1, 1, 0, 0, 0, 1, 1, 0, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 0},
	{0, 1, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// classicGhosts are the ghost spawn tiles on the classic board.
var classicGhosts = []Point{{5, 5}, {6, 5}, {7, 5}, {8, 5}}

// Board is a mutable grid of tiles.
type Board struct {
	tiles   [][]Tile
	pellets int
}

// NewBoard copies a layout into a fresh board.
func NewBoard(layout [][]Tile) *Board {
	b := &Board{tiles: make([][]Tile, len(layout))}
	for y, row := range layout {
		b.tiles[y] = append([]Tile(nil), row...)
		for _, t := range row {
			if t == Pellet {
				b.pellets++
			}
		}
	}
	return b
}

// Width returns the board width in tiles.
func (b *Board) Width() int {
	if len(b.tiles) == 0 {
		return 0
	}
	return len(b.tiles[0])
}

// Height returns the board height in tiles.
func (b *Board) Height() int {
	return len(b.tiles)
}

// At returns the tile at p. Anything outside the board is a wall.
func (b *Board) At(p Point) Tile {
	if p.Y < 0 || p.Y >= len(b.tiles) || p.X < 0 || p.X >= len(b.tiles[p.Y]) {
		return Wall
	}
	return b.tiles[p.Y][p.X]
}

// IsWall reports whether p blocks movement.
func (b *Board) IsWall(p Point) bool {
	return b.At(p) == Wall
}

// Eat clears a pellet at p and reports whether there was one.
func (b *Board) Eat(p Point) bool {
	if b.At(p) != Pellet {
		return false
	}
	b.tiles[p.Y][p.X] = Empty
	b.pellets--
	return true
}

// Pellets returns the number of pellets left.
func (b *Board) Pellets() int {
	return b.pellets
}
