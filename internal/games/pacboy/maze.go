package pacboy

import "math/rand"

// generateMaze carves a maze with a recursive backtracker, then opens a
// share of its dead ends into loops so ghosts cannot trap the player in a
// corridor. Every passage starts with a pellet. Sizes are rounded down to
// odd numbers so walls sit between passages.
func generateMaze(width, height int, braiding float64, rng *rand.Rand) [][]Tile {
	cols, rows := ensureOdd(width), ensureOdd(height)

	grid := make([][]Tile, rows)
	for y := range grid {
		grid[y] = make([]Tile, cols)
	}

	carve(grid, Point{1, 1}, rng)
	if braiding > 0 {
		braid(grid, braiding, rng)
	}
	return grid
}

var jumps = []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

func carve(grid [][]Tile, start Point, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])
	stack := []Point{start}
	grid[start.Y][start.X] = Pellet

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)
		for _, d := range jumps {
			n := curr.Add(d)
			if n.X > 0 && n.X < cols-1 && n.Y > 0 && n.Y < rows-1 && grid[n.Y][n.X] == Wall {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Pellet
		next := curr.Add(d)
		grid[next.Y][next.X] = Pellet
		stack = append(stack, next)
	}
}

func braid(grid [][]Tile, probability float64, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			p := Point{x, y}
			if grid[y][x] == Wall || exits(grid, p) != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]Point, 0, 4)
			for _, d := range jumps {
				n := p.Add(d)
				w := Point{x + d.X/2, y + d.Y/2}
				if n.X <= 0 || n.X >= cols-1 || n.Y <= 0 || n.Y >= rows-1 {
					continue
				}
				if grid[n.Y][n.X] != Wall && grid[w.Y][w.X] == Wall && !makesPlaza(grid, w) {
					candidates = append(candidates, w)
				}
			}
			if len(candidates) > 0 {
				w := candidates[rng.Intn(len(candidates))]
				grid[w.Y][w.X] = Pellet
			}
		}
	}
}

func exits(grid [][]Tile, p Point) int {
	n := 0
	for _, d := range directions {
		q := p.Add(d)
		if grid[q.Y][q.X] != Wall {
			n++
		}
	}
	return n
}

// makesPlaza reports whether opening w would create a 2x2 open square.
func makesPlaza(grid [][]Tile, w Point) bool {
	open := func(x, y int) bool {
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			return false
		}
		return grid[y][x] != Wall
	}
	x, y := w.X, w.Y
	return (open(x-1, y-1) && open(x, y-1) && open(x-1, y)) ||
		(open(x, y-1) && open(x+1, y-1) && open(x+1, y)) ||
		(open(x-1, y) && open(x-1, y+1) && open(x, y+1)) ||
		(open(x+1, y) && open(x, y+1) && open(x+1, y+1))
}

func ensureOdd(n int) int {
	if n < 5 {
		return 5
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// distances returns the walking distance from start to every reachable tile.
func distances(b *Board, start Point) map[Point]int {
	dist := map[Point]int{start: 0}
	queue := []Point{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := curr.Add(d)
			if _, seen := dist[next]; seen || b.IsWall(next) {
				continue
			}
			dist[next] = dist[curr] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// ghostSpawns picks n tiles in the farther half of the maze from the
// player, in a deterministic order for a given rng. A non-positive n
// spawns no ghosts.
func ghostSpawns(b *Board, player Point, n int, rng *rand.Rand) []Point {
	if n <= 0 {
		return nil
	}
	dist := distances(b, player)
	maxDist := 0
	for _, d := range dist {
		maxDist = max(maxDist, d)
	}

	var far []Point
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			p := Point{x, y}
			if d, ok := dist[p]; ok && d > 0 && d*2 >= maxDist {
				far = append(far, p)
			}
		}
	}
	if len(far) == 0 {
		return nil
	}

	rng.Shuffle(len(far), func(i, j int) { far[i], far[j] = far[j], far[i] })
	spawns := make([]Point, n)
	for i := range spawns {
		spawns[i] = far[i%len(far)]
	}
	return spawns
}
